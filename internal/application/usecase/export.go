package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aniketri/real-insights-data/internal/application/dto"
	"github.com/aniketri/real-insights-data/internal/domain/model"
	"github.com/aniketri/real-insights-data/internal/domain/port"
	"github.com/aniketri/real-insights-data/internal/domain/valueobject"
)

// LoanExportColumns is the header row of the loan CSV export.
var LoanExportColumns = []string{
	"Loan Number",
	"Property Name",
	"Property Type",
	"Lender",
	"Fund",
	"Original Loan Balance",
	"Current Balance",
	"Interest Rate",
	"Rate Type",
	"Amortization Type",
	"Maturity Date",
	"Status",
}

// ExportLoansUseCase renders every loan of the organization as CSV.
type ExportLoansUseCase struct {
	loanRepo port.LoanRepository
	renderer port.ReportRenderer
}

// NewExportLoansUseCase wires dependencies.
func NewExportLoansUseCase(loanRepo port.LoanRepository, renderer port.ReportRenderer) *ExportLoansUseCase {
	return &ExportLoansUseCase{loanRepo: loanRepo, renderer: renderer}
}

// Execute returns the CSV file.
func (uc *ExportLoansUseCase) Execute(ctx context.Context, orgID uuid.UUID) (dto.FileResponse, error) {
	loans, _, err := uc.loanRepo.List(ctx, orgID, port.LoanFilter{})
	if err != nil {
		return dto.FileResponse{}, fmt.Errorf("list loans: %w", err)
	}

	now := time.Now().UTC()
	section := model.ReportSection{Title: "Loans", Columns: LoanExportColumns}
	for _, l := range loans {
		section.Rows = append(section.Rows, []string{
			l.LoanNumber(),
			l.Property().Name,
			l.Property().Type,
			l.Lender().Name,
			l.FundName(),
			l.OriginalBalance().StringFixed(2),
			l.CurrentBalance().StringFixed(2),
			l.InterestRate().String(),
			l.RateType().String(),
			l.AmortizationType().String(),
			l.MaturityDate().Format(time.DateOnly),
			l.Status().String(),
		})
	}

	doc := model.ReportDocument{
		Name:           "Loans",
		OrganizationID: orgID,
		GeneratedAt:    now,
		Sections:       []model.ReportSection{section},
	}
	data, err := uc.renderer.Render(doc, valueobject.ReportFormatCSV)
	if err != nil {
		return dto.FileResponse{}, fmt.Errorf("render export: %w", err)
	}

	return dto.FileResponse{
		Filename:    fmt.Sprintf("loans-%s.csv", now.Format(time.DateOnly)),
		ContentType: valueobject.ReportFormatCSV.ContentType(),
		Data:        data,
	}, nil
}
