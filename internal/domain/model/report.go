package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aniketri/real-insights-data/internal/domain/event"
	"github.com/aniketri/real-insights-data/internal/domain/valueobject"
)

// ReportFilters narrows the loans a report covers. Empty fields match everything.
type ReportFilters struct {
	PropertyType string `json:"propertyType,omitempty"`
	Lender       string `json:"lender,omitempty"`
	Fund         string `json:"fund,omitempty"`
}

// ReportDefinition is a saved report. A non-empty schedule is a cron
// expression; such reports are run by the scheduler.
type ReportDefinition struct {
	createdAt      time.Time
	name           string
	schedule       string
	filters        ReportFilters
	reportType     valueobject.ReportType
	format         valueobject.ReportFormat
	domainEvents   []event.DomainEvent
	id             uuid.UUID
	organizationID uuid.UUID
	createdBy      uuid.UUID
}

// NewReportDefinition validates and creates a report definition. The cron
// expression is checked by the caller, which owns the scheduler.
func NewReportDefinition(
	orgID, createdBy uuid.UUID,
	name string,
	reportType valueobject.ReportType,
	format valueobject.ReportFormat,
	schedule string,
	filters ReportFilters,
	now time.Time,
) (ReportDefinition, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ReportDefinition{}, fmt.Errorf("%w: name is required", ErrInvalidReport)
	}
	if reportType.IsZero() {
		return ReportDefinition{}, fmt.Errorf("%w: report type is required", ErrInvalidReport)
	}
	if format.IsZero() {
		format = valueobject.ReportFormatJSON
	}

	def := ReportDefinition{
		id:             uuid.New(),
		organizationID: orgID,
		createdBy:      createdBy,
		name:           name,
		reportType:     reportType,
		format:         format,
		schedule:       strings.TrimSpace(schedule),
		filters:        filters,
		createdAt:      now,
	}
	def.domainEvents = append(def.domainEvents, event.NewReportDefined(
		def.id, orgID, name, reportType.String(), format.String(), def.schedule,
	))
	return def, nil
}

// ReconstructReportDefinition rebuilds a ReportDefinition from persistence.
func ReconstructReportDefinition(
	id, orgID, createdBy uuid.UUID,
	name string,
	reportType valueobject.ReportType,
	format valueobject.ReportFormat,
	schedule string,
	filters ReportFilters,
	createdAt time.Time,
) ReportDefinition {
	return ReportDefinition{
		id:             id,
		organizationID: orgID,
		createdBy:      createdBy,
		name:           name,
		reportType:     reportType,
		format:         format,
		schedule:       schedule,
		filters:        filters,
		createdAt:      createdAt,
	}
}

func (r ReportDefinition) ID() uuid.UUID                     { return r.id }
func (r ReportDefinition) OrganizationID() uuid.UUID         { return r.organizationID }
func (r ReportDefinition) CreatedBy() uuid.UUID              { return r.createdBy }
func (r ReportDefinition) Name() string                      { return r.name }
func (r ReportDefinition) ReportType() valueobject.ReportType { return r.reportType }
func (r ReportDefinition) Format() valueobject.ReportFormat  { return r.format }
func (r ReportDefinition) Schedule() string                  { return r.schedule }
func (r ReportDefinition) IsScheduled() bool                 { return r.schedule != "" }
func (r ReportDefinition) Filters() ReportFilters            { return r.filters }
func (r ReportDefinition) CreatedAt() time.Time              { return r.createdAt }
func (r ReportDefinition) DomainEvents() []event.DomainEvent { return r.domainEvents }

// ReportRun records one generated artifact of a report definition.
type ReportRun struct {
	GeneratedAt    time.Time
	Location       string // s3://bucket/key, or "inline" when the content is kept in the database
	Content        []byte // set only for inline artifacts
	Format         valueobject.ReportFormat
	SizeBytes      int
	ID             uuid.UUID
	ReportID       uuid.UUID
	OrganizationID uuid.UUID
}

// InlineLocation marks a run whose artifact is stored with the run row.
const InlineLocation = "inline"

// ReportSection is one titled table of a report document.
type ReportSection struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// ReportDocument is the format-independent content of a generated report.
type ReportDocument struct {
	GeneratedAt    time.Time
	Name           string
	ReportType     string
	Sections       []ReportSection
	OrganizationID uuid.UUID
}
