package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
)

type fakeReader struct {
	pending   []kafkago.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.pending) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	m := r.pending[0]
	r.pending = r.pending[1:]
	return m, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Config() kafkago.ReaderConfig {
	return kafkago.ReaderConfig{Topic: "insights.events", GroupID: "insightsd"}
}

func (r *fakeReader) Close() error { return nil }

func TestConsumerCommitsFailedMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		pending: []kafkago.Message{
			{Offset: 1, Value: []byte("bad"), Headers: []kafkago.Header{{Key: "event_type", Value: []byte("loan.updated")}}},
			{Offset: 2, Value: []byte("good")},
		},
		cancel: cancel,
	}
	var handled []string
	c := &Consumer{
		reader: reader,
		handler: func(_ context.Context, msg Message) error {
			handled = append(handled, string(msg.Value))
			if string(msg.Value) == "bad" {
				return errors.New("decode failed")
			}
			return nil
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(handled) != 2 || handled[0] != "bad" || handled[1] != "good" {
		t.Fatalf("handled = %v, want [bad good]", handled)
	}
	if len(reader.committed) != 2 || reader.committed[0] != 1 || reader.committed[1] != 2 {
		t.Errorf("committed offsets = %v, want [1 2]", reader.committed)
	}
}
