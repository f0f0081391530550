package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aniketri/real-insights-data/internal/domain/event"
)

// Note is a comment a user left on a loan. Only its author may edit or delete it.
type Note struct {
	createdAt      time.Time
	updatedAt      time.Time
	content        string
	authorName     string
	domainEvents   []event.DomainEvent
	id             uuid.UUID
	organizationID uuid.UUID
	loanID         uuid.UUID
	authorID       uuid.UUID
}

// NewNote creates a note with trimmed content.
func NewNote(orgID, loanID, authorID uuid.UUID, authorName, content string, now time.Time) (Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Note{}, ErrEmptyNoteContent
	}

	n := Note{
		id:             uuid.New(),
		organizationID: orgID,
		loanID:         loanID,
		authorID:       authorID,
		authorName:     authorName,
		content:        content,
		createdAt:      now,
		updatedAt:      now,
	}
	n.domainEvents = append(n.domainEvents, event.NewNoteAdded(n.id, orgID, loanID, authorID))
	return n, nil
}

// ReconstructNote rebuilds a Note from persistence.
func ReconstructNote(
	id, orgID, loanID, authorID uuid.UUID,
	authorName, content string,
	createdAt, updatedAt time.Time,
) Note {
	return Note{
		id:             id,
		organizationID: orgID,
		loanID:         loanID,
		authorID:       authorID,
		authorName:     authorName,
		content:        content,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// Edit replaces the content. The editor must be the author.
func (n Note) Edit(editorID uuid.UUID, content string, now time.Time) (Note, error) {
	if editorID != n.authorID {
		return n, ErrNotNoteAuthor
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return n, ErrEmptyNoteContent
	}

	next := n
	next.content = content
	next.updatedAt = now
	next.domainEvents = copyEvents(n.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewNoteEdited(n.id, n.organizationID, n.loanID, n.authorID))
	return next, nil
}

// Remove checks authorship and returns a copy carrying NoteRemoved.
func (n Note) Remove(requesterID uuid.UUID) (Note, error) {
	if requesterID != n.authorID {
		return n, ErrNotNoteAuthor
	}
	next := n
	next.domainEvents = copyEvents(n.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewNoteRemoved(n.id, n.organizationID, n.loanID, n.authorID))
	return next, nil
}

func (n Note) ID() uuid.UUID                     { return n.id }
func (n Note) OrganizationID() uuid.UUID         { return n.organizationID }
func (n Note) LoanID() uuid.UUID                 { return n.loanID }
func (n Note) AuthorID() uuid.UUID               { return n.authorID }
func (n Note) AuthorName() string                { return n.authorName }
func (n Note) Content() string                   { return n.content }
func (n Note) CreatedAt() time.Time              { return n.createdAt }
func (n Note) UpdatedAt() time.Time              { return n.updatedAt }
func (n Note) DomainEvents() []event.DomainEvent { return n.domainEvents }
