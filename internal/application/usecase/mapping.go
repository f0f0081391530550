package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/aniketri/real-insights-data/internal/application/dto"
	"github.com/aniketri/real-insights-data/internal/domain/model"
	"github.com/aniketri/real-insights-data/internal/domain/service"
	"github.com/aniketri/real-insights-data/pkg/money"
)

func toLoanRecord(l model.Loan) service.LoanRecord {
	return service.LoanRecord{
		MaturityDate:        l.MaturityDate(),
		LoanToValue:         l.LTV(),
		DebtServiceCoverage: l.DSCR(),
		CurrentBalance:      l.CurrentBalance(),
		OriginalBalance:     l.OriginalBalance(),
		InterestRatePercent: l.InterestRate(),
		Status:              l.Status().String(),
		PropertyType:        l.Property().Type,
		LenderName:          l.Lender().Name,
		FundName:            l.FundName(),
	}
}

func toLoanRecords(loans []model.Loan) []service.LoanRecord {
	records := make([]service.LoanRecord, 0, len(loans))
	for _, l := range loans {
		records = append(records, toLoanRecord(l))
	}
	return records
}

func toLoanResponse(l model.Loan) dto.LoanResponse {
	resp := dto.LoanResponse{
		ID:         l.ID(),
		LoanNumber: l.LoanNumber(),
		Property: dto.PropertyResponse{
			ID:   l.Property().ID,
			Name: l.Property().Name,
			Type: l.Property().Type,
		},
		Lender:             dto.CounterpartyResponse{ID: l.Lender().ID, Name: l.Lender().Name},
		OriginalBalance:    money.Float(l.OriginalBalance()),
		CurrentBalance:     money.Float(l.CurrentBalance()),
		InterestRate:       l.InterestRate().InexactFloat64(),
		RateType:           l.RateType().String(),
		IndexType:          l.IndexType(),
		RateSpread:         money.FloatPtr(l.RateSpread()),
		AmortizationType:   l.AmortizationType().String(),
		PaymentFrequency:   l.PaymentFrequency().String(),
		AmortizationPeriod: l.AmortizationPeriod(),
		MaturityDate:       l.MaturityDate(),
		LTV:                money.FloatPtr(l.LTV()),
		DSCR:               money.FloatPtr(l.DSCR()),
		Status:             l.Status().String(),
		Version:            l.Version(),
		CreatedAt:          l.CreatedAt(),
		UpdatedAt:          l.UpdatedAt(),
	}
	if f := l.Fund(); f != nil {
		resp.Fund = &dto.CounterpartyResponse{ID: f.ID, Name: f.Name}
	}
	if !l.OriginationDate().IsZero() {
		d := l.OriginationDate()
		resp.OriginationDate = &d
	}
	return resp
}

func toLoanResponses(loans []model.Loan) []dto.LoanResponse {
	out := make([]dto.LoanResponse, 0, len(loans))
	for _, l := range loans {
		out = append(out, toLoanResponse(l))
	}
	return out
}

func toScheduleResponse(schedule []model.ScheduleEntry) dto.ScheduleResponse {
	resp := dto.ScheduleResponse{
		Schedule:     make([]dto.ScheduleEntryResponse, 0, len(schedule)),
		PaymentCount: len(schedule),
	}
	totalPaid := decimal.Zero
	for _, e := range schedule {
		entry := dto.ScheduleEntryResponse{
			Period:           e.Period,
			PaymentAmount:    money.Float(e.PaymentAmount),
			PrincipalPortion: money.Float(e.PrincipalPortion),
			InterestPortion:  money.Float(e.InterestPortion),
			RemainingBalance: money.Float(e.RemainingBalance),
		}
		if !e.DueDate.IsZero() {
			due := e.DueDate
			entry.DueDate = &due
		}
		resp.Schedule = append(resp.Schedule, entry)
		totalPaid = totalPaid.Add(e.PaymentAmount)
	}
	resp.TotalInterest = money.Float(model.TotalInterest(schedule))
	resp.TotalPaid = money.Float(totalPaid)
	return resp
}

func toSummaryResponse(s service.PortfolioSummary) dto.SummaryResponse {
	return dto.SummaryResponse{
		LoanCount:                   s.LoanCount,
		TotalCurrentBalance:         money.Float(s.TotalCurrentBalance),
		TotalOriginalBalance:        money.Float(s.TotalOriginalBalance),
		WeightedAverageInterestRate: money.Float(s.WeightedAverageInterestRate),
		AverageLoanToValue:          money.Float(s.AverageLoanToValue),
		StatusDistribution:          s.StatusDistribution,
	}
}

func toBreakdownResponses(in []service.Breakdown) []dto.BreakdownResponse {
	out := make([]dto.BreakdownResponse, 0, len(in))
	for _, b := range in {
		out = append(out, dto.BreakdownResponse{Label: b.Label, Amount: money.Float(b.Amount), LoanCount: b.LoanCount})
	}
	return out
}

func toDashboardResponse(d service.Dashboard) dto.DashboardResponse {
	resp := dto.DashboardResponse{
		SummaryResponse:              toSummaryResponse(d.PortfolioSummary),
		DebtByPropertyType:           toBreakdownResponses(d.DebtByPropertyType),
		DebtByLender:                 toBreakdownResponses(d.DebtByLender),
		MaturitySchedule:             make([]dto.MaturityBucketResponse, 0, len(d.MaturitySchedule)),
		WeightedAverageMaturityYears: money.Float(d.WeightedAverageMaturityYears),
		AverageLoanSize:              money.Float(d.AverageLoanSize),
		LargestLoan:                  money.Float(d.LargestLoan),
		AverageDSCR:                  money.Float(d.AverageDSCR),
	}
	for _, b := range d.MaturitySchedule {
		resp.MaturitySchedule = append(resp.MaturitySchedule, dto.MaturityBucketResponse{
			Year: b.Year, Amount: money.Float(b.Amount), LoanCount: b.LoanCount,
		})
	}
	return resp
}

func toNoteResponse(n model.Note) dto.NoteResponse {
	return dto.NoteResponse{
		ID:         n.ID(),
		LoanID:     n.LoanID(),
		AuthorID:   n.AuthorID(),
		AuthorName: n.AuthorName(),
		Content:    n.Content(),
		CreatedAt:  n.CreatedAt(),
		UpdatedAt:  n.UpdatedAt(),
	}
}

func toReportDefinitionResponse(r model.ReportDefinition) dto.ReportDefinitionResponse {
	f := r.Filters()
	return dto.ReportDefinitionResponse{
		ID:          r.ID(),
		Name:        r.Name(),
		ReportType:  r.ReportType().String(),
		Format:      r.Format().String(),
		Schedule:    r.Schedule(),
		IsScheduled: r.IsScheduled(),
		Filters:     dto.LoanFilters{PropertyType: f.PropertyType, Lender: f.Lender, Fund: f.Fund},
		CreatedBy:   r.CreatedBy(),
		CreatedAt:   r.CreatedAt(),
	}
}

func toReportRunResponse(run model.ReportRun) dto.ReportRunResponse {
	return dto.ReportRunResponse{
		ID:          run.ID,
		ReportID:    run.ReportID,
		Format:      run.Format.String(),
		Location:    run.Location,
		SizeBytes:   run.SizeBytes,
		GeneratedAt: run.GeneratedAt,
	}
}

func dateOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
