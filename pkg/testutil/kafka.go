package testutil

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/testcontainers/testcontainers-go/modules/kafka"

	pkgkafka "github.com/aniketri/real-insights-data/pkg/kafka"
)

const kafkaImage = "confluentinc/confluent-local:7.6.1"

// KafkaBroker is a single-node Kafka started for one test.
type KafkaBroker struct {
	container *kafka.KafkaContainer
	Brokers   []string
}

// StartKafka starts a broker and terminates it when the test ends.
func StartKafka(ctx context.Context, t *testing.T) *KafkaBroker {
	t.Helper()

	container, err := kafka.Run(ctx, kafkaImage, kafka.WithClusterID("insights-test"))
	if err != nil {
		t.Fatalf("start kafka container: %v", err)
	}
	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(stopCtx); err != nil {
			t.Logf("warning: terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	if err != nil {
		t.Fatalf("kafka brokers: %v", err)
	}
	return &KafkaBroker{container: container, Brokers: brokers}
}

// Config returns client settings for the broker. An empty group suits producers.
func (b *KafkaBroker) Config(group string) pkgkafka.Config {
	return pkgkafka.Config{Brokers: b.Brokers, ConsumerGroup: group}
}

// CreateTopic creates a single-partition topic so consumers can join before
// the first publish.
func (b *KafkaBroker) CreateTopic(ctx context.Context, t *testing.T, topic string) {
	t.Helper()

	conn, err := kafkago.DialContext(ctx, "tcp", b.Brokers[0])
	if err != nil {
		t.Fatalf("dial kafka: %v", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		t.Fatalf("kafka controller: %v", err)
	}
	ctrl, err := kafkago.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		t.Fatalf("dial kafka controller: %v", err)
	}
	defer ctrl.Close()

	if err := ctrl.CreateTopics(kafkago.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1}); err != nil {
		t.Fatalf("create topic %s: %v", topic, err)
	}
}
