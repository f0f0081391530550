package event

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aniketri/real-insights-data/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const (
	TypeLoanCreated     = "loan.created"
	TypeLoanUpdated     = "loan.updated"
	TypeLoanDeleted     = "loan.deleted"
	TypeNoteAdded       = "note.added"
	TypeNoteEdited      = "note.edited"
	TypeNoteRemoved     = "note.removed"
	TypeReportDefined   = "report.defined"
	TypeReportGenerated = "report.generated"

	loanEventPrefix = "loan."
)

// IsLoanEvent reports whether an event type changes loan data, and therefore
// invalidates cached dashboards, listings and schedules of its organization.
func IsLoanEvent(eventType string) bool {
	return strings.HasPrefix(eventType, loanEventPrefix)
}

// ---------------------------------------------------------------------------
// Loan Events
// ---------------------------------------------------------------------------

// LoanCreated is raised when a loan is added to an organization's portfolio.
type LoanCreated struct {
	events.BaseEvent
	LoanNumber     string          `json:"loan_number"`
	PropertyID     uuid.UUID       `json:"property_id"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

func NewLoanCreated(loanID, orgID uuid.UUID, loanNumber string, propertyID uuid.UUID, currentBalance decimal.Decimal) LoanCreated {
	return LoanCreated{
		BaseEvent:      events.NewBaseEvent(TypeLoanCreated, loanID, "Loan", orgID),
		LoanNumber:     loanNumber,
		PropertyID:     propertyID,
		CurrentBalance: currentBalance,
	}
}

// LoanUpdated is raised when servicing data of a loan changes.
type LoanUpdated struct {
	events.BaseEvent
	ChangedFields  []string        `json:"changed_fields"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Status         string          `json:"status"`
}

func NewLoanUpdated(loanID, orgID uuid.UUID, changed []string, currentBalance decimal.Decimal, status string) LoanUpdated {
	return LoanUpdated{
		BaseEvent:      events.NewBaseEvent(TypeLoanUpdated, loanID, "Loan", orgID),
		ChangedFields:  changed,
		CurrentBalance: currentBalance,
		Status:         status,
	}
}

// LoanDeleted is raised when a loan is removed.
type LoanDeleted struct {
	events.BaseEvent
	LoanNumber string `json:"loan_number"`
}

func NewLoanDeleted(loanID, orgID uuid.UUID, loanNumber string) LoanDeleted {
	return LoanDeleted{
		BaseEvent:  events.NewBaseEvent(TypeLoanDeleted, loanID, "Loan", orgID),
		LoanNumber: loanNumber,
	}
}

// ---------------------------------------------------------------------------
// Note Events
// ---------------------------------------------------------------------------

// NoteAdded is raised when a user comments on a loan.
type NoteAdded struct {
	events.BaseEvent
	LoanID   uuid.UUID `json:"loan_id"`
	AuthorID uuid.UUID `json:"author_id"`
}

func NewNoteAdded(noteID, orgID, loanID, authorID uuid.UUID) NoteAdded {
	return NoteAdded{
		BaseEvent: events.NewBaseEvent(TypeNoteAdded, noteID, "Note", orgID),
		LoanID:    loanID,
		AuthorID:  authorID,
	}
}

// NoteEdited is raised when the author changes a note.
type NoteEdited struct {
	events.BaseEvent
	LoanID   uuid.UUID `json:"loan_id"`
	AuthorID uuid.UUID `json:"author_id"`
}

func NewNoteEdited(noteID, orgID, loanID, authorID uuid.UUID) NoteEdited {
	return NoteEdited{
		BaseEvent: events.NewBaseEvent(TypeNoteEdited, noteID, "Note", orgID),
		LoanID:    loanID,
		AuthorID:  authorID,
	}
}

// NoteRemoved is raised when the author deletes a note.
type NoteRemoved struct {
	events.BaseEvent
	LoanID   uuid.UUID `json:"loan_id"`
	AuthorID uuid.UUID `json:"author_id"`
}

func NewNoteRemoved(noteID, orgID, loanID, authorID uuid.UUID) NoteRemoved {
	return NoteRemoved{
		BaseEvent: events.NewBaseEvent(TypeNoteRemoved, noteID, "Note", orgID),
		LoanID:    loanID,
		AuthorID:  authorID,
	}
}

// ---------------------------------------------------------------------------
// Report Events
// ---------------------------------------------------------------------------

// ReportDefined is raised when a report definition is saved.
type ReportDefined struct {
	events.BaseEvent
	Name       string `json:"name"`
	ReportType string `json:"report_type"`
	Format     string `json:"format"`
	Schedule   string `json:"schedule,omitempty"`
}

func NewReportDefined(reportID, orgID uuid.UUID, name, reportType, format, schedule string) ReportDefined {
	return ReportDefined{
		BaseEvent:  events.NewBaseEvent(TypeReportDefined, reportID, "Report", orgID),
		Name:       name,
		ReportType: reportType,
		Format:     format,
		Schedule:   schedule,
	}
}

// ReportGenerated is raised when a report artifact has been rendered and archived.
type ReportGenerated struct {
	events.BaseEvent
	RunID     uuid.UUID `json:"run_id"`
	Format    string    `json:"format"`
	Location  string    `json:"location"`
	SizeBytes int       `json:"size_bytes"`
}

func NewReportGenerated(reportID, orgID, runID uuid.UUID, format, location string, size int) ReportGenerated {
	return ReportGenerated{
		BaseEvent: events.NewBaseEvent(TypeReportGenerated, reportID, "Report", orgID),
		RunID:     runID,
		Format:    format,
		Location:  location,
		SizeBytes: size,
	}
}
