package rest

import (
	"context"

	"github.com/google/uuid"

	"github.com/aniketri/real-insights-data/internal/application/dto"
)

// Executor is satisfied by the application use cases that return a result.
type Executor[Req, Resp any] interface {
	Execute(ctx context.Context, req Req) (Resp, error)
}

// Command is satisfied by the use cases that return only an error.
type Command[Req any] interface {
	Execute(ctx context.Context, req Req) error
}

// ReportRunLister lists the latest runs of a report.
type ReportRunLister interface {
	Execute(ctx context.Context, orgID, reportID uuid.UUID, limit int) ([]dto.ReportRunResponse, error)
}

// Handlers bundles the use cases served over HTTP.
type Handlers struct {
	ComputeSchedule Executor[dto.ComputeScheduleRequest, dto.ScheduleResponse]
	LoanSchedule    Executor[dto.LoanRef, dto.ScheduleResponse]
	ListLoans       Executor[dto.ListLoansRequest, dto.LoanListResponse]
	GetLoan         Executor[dto.LoanRef, dto.LoanResponse]
	CreateLoan      Executor[dto.CreateLoanRequest, dto.LoanResponse]
	UpdateLoan      Executor[dto.UpdateLoanRequest, dto.LoanResponse]
	DeleteLoan      Command[dto.LoanRef]
	ListNotes       Executor[dto.LoanRef, []dto.NoteResponse]
	AddNote         Executor[dto.AddNoteRequest, dto.NoteResponse]
	EditNote        Executor[dto.EditNoteRequest, dto.NoteResponse]
	DeleteNote      Command[dto.DeleteNoteRequest]
	Dashboard       Executor[dto.GetDashboardRequest, dto.DashboardResponse]
	Reports         Executor[uuid.UUID, dto.ReportsOverviewResponse]
	CreateReport    Executor[dto.CreateReportRequest, dto.ReportDefinitionResponse]
	RunReport       Executor[dto.RunReportRequest, dto.ReportRunResponse]
	ReportRuns      ReportRunLister
	ExportLoans     Executor[uuid.UUID, dto.FileResponse]
}
