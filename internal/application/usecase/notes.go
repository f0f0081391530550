package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aniketri/real-insights-data/internal/application/dto"
	"github.com/aniketri/real-insights-data/internal/domain/event"
	"github.com/aniketri/real-insights-data/internal/domain/model"
	"github.com/aniketri/real-insights-data/internal/domain/port"
)

// noteAccess checks that the loan belongs to the organization and that the
// note belongs to the loan before any note operation.
type noteAccess struct {
	loanRepo  port.LoanRepository
	noteRepo  port.NoteRepository
	publisher port.EventPublisher
	logger    *slog.Logger
}

func (a noteAccess) ensureLoan(ctx context.Context, orgID, loanID uuid.UUID) error {
	if _, err := a.loanRepo.FindByID(ctx, orgID, loanID); err != nil {
		return fmt.Errorf("find loan: %w", err)
	}
	return nil
}

func (a noteAccess) findNote(ctx context.Context, orgID, loanID, noteID uuid.UUID) (model.Note, error) {
	if err := a.ensureLoan(ctx, orgID, loanID); err != nil {
		return model.Note{}, err
	}
	note, err := a.noteRepo.FindByID(ctx, orgID, noteID)
	if err != nil {
		return model.Note{}, fmt.Errorf("find note: %w", err)
	}
	if note.LoanID() != loanID {
		return model.Note{}, fmt.Errorf("find note: %w", model.ErrNoteNotFound)
	}
	return note, nil
}

func (a noteAccess) publish(ctx context.Context, events []event.DomainEvent) {
	if err := a.publisher.Publish(ctx, events...); err != nil {
		a.logger.ErrorContext(ctx, "publish note events", "error", err)
	}
}

// ListNotesUseCase lists a loan's notes, newest first.
type ListNotesUseCase struct {
	noteAccess
}

// NewListNotesUseCase wires dependencies.
func NewListNotesUseCase(loanRepo port.LoanRepository, noteRepo port.NoteRepository) *ListNotesUseCase {
	return &ListNotesUseCase{noteAccess: noteAccess{loanRepo: loanRepo, noteRepo: noteRepo}}
}

// Execute returns the notes.
func (uc *ListNotesUseCase) Execute(ctx context.Context, req dto.LoanRef) ([]dto.NoteResponse, error) {
	if err := uc.ensureLoan(ctx, req.OrganizationID, req.LoanID); err != nil {
		return nil, err
	}
	notes, err := uc.noteRepo.ListByLoan(ctx, req.OrganizationID, req.LoanID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	out := make([]dto.NoteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteResponse(n))
	}
	return out, nil
}

// AddNoteUseCase adds a note to a loan.
type AddNoteUseCase struct {
	noteAccess
}

// NewAddNoteUseCase wires dependencies.
func NewAddNoteUseCase(
	loanRepo port.LoanRepository,
	noteRepo port.NoteRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *AddNoteUseCase {
	return &AddNoteUseCase{noteAccess: noteAccess{loanRepo: loanRepo, noteRepo: noteRepo, publisher: publisher, logger: logger}}
}

// Execute creates and saves the note.
func (uc *AddNoteUseCase) Execute(ctx context.Context, req dto.AddNoteRequest) (dto.NoteResponse, error) {
	if err := uc.ensureLoan(ctx, req.OrganizationID, req.LoanID); err != nil {
		return dto.NoteResponse{}, err
	}

	note, err := model.NewNote(req.OrganizationID, req.LoanID, req.AuthorID, req.AuthorName, req.Content, time.Now().UTC())
	if err != nil {
		return dto.NoteResponse{}, fmt.Errorf("create note: %w", err)
	}
	if err := uc.noteRepo.Save(ctx, note); err != nil {
		return dto.NoteResponse{}, fmt.Errorf("save note: %w", err)
	}

	uc.publish(ctx, note.DomainEvents())
	return toNoteResponse(note), nil
}

// EditNoteUseCase replaces the content of the caller's own note.
type EditNoteUseCase struct {
	noteAccess
}

// NewEditNoteUseCase wires dependencies.
func NewEditNoteUseCase(
	loanRepo port.LoanRepository,
	noteRepo port.NoteRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *EditNoteUseCase {
	return &EditNoteUseCase{noteAccess: noteAccess{loanRepo: loanRepo, noteRepo: noteRepo, publisher: publisher, logger: logger}}
}

// Execute edits the note. Only the author may edit (model.ErrNotNoteAuthor).
func (uc *EditNoteUseCase) Execute(ctx context.Context, req dto.EditNoteRequest) (dto.NoteResponse, error) {
	note, err := uc.findNote(ctx, req.OrganizationID, req.LoanID, req.NoteID)
	if err != nil {
		return dto.NoteResponse{}, err
	}

	note, err = note.Edit(req.EditorID, req.Content, time.Now().UTC())
	if err != nil {
		return dto.NoteResponse{}, fmt.Errorf("edit note: %w", err)
	}
	if err := uc.noteRepo.Save(ctx, note); err != nil {
		return dto.NoteResponse{}, fmt.Errorf("save note: %w", err)
	}

	uc.publish(ctx, note.DomainEvents())
	return toNoteResponse(note), nil
}

// DeleteNoteUseCase deletes the caller's own note.
type DeleteNoteUseCase struct {
	noteAccess
}

// NewDeleteNoteUseCase wires dependencies.
func NewDeleteNoteUseCase(
	loanRepo port.LoanRepository,
	noteRepo port.NoteRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *DeleteNoteUseCase {
	return &DeleteNoteUseCase{noteAccess: noteAccess{loanRepo: loanRepo, noteRepo: noteRepo, publisher: publisher, logger: logger}}
}

// Execute deletes the note. Only the author may delete (model.ErrNotNoteAuthor).
func (uc *DeleteNoteUseCase) Execute(ctx context.Context, req dto.DeleteNoteRequest) error {
	note, err := uc.findNote(ctx, req.OrganizationID, req.LoanID, req.NoteID)
	if err != nil {
		return err
	}

	note, err = note.Remove(req.RequesterID)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if err := uc.noteRepo.Delete(ctx, req.OrganizationID, req.NoteID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	uc.publish(ctx, note.DomainEvents())
	return nil
}
