package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/aniketri/real-insights-data/internal/application/dto"
	"github.com/aniketri/real-insights-data/internal/application/usecase"
	"github.com/aniketri/real-insights-data/internal/domain/valueobject"
	"github.com/aniketri/real-insights-data/pkg/money"
)

type scheduleFlags struct {
	principal string
	rate      string
	term      int
	frequency string
	amortType string
	firstDue  string
	output    string
}

func newScheduleCmd() *cobra.Command {
	var f scheduleFlags

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print an amortization schedule for ad-hoc loan terms",
		Example: `  insightsd schedule --principal 30500000 --rate 4.2 --term 360
  insightsd schedule --principal 1000000 --rate 6 --term 40 --frequency QUARTERLY --type INTEREST_ONLY -o table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := f.request()
			if err != nil {
				return err
			}
			resp, err := usecase.NewComputeScheduleUseCase().Execute(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeSchedule(cmd.OutOrStdout(), resp, f.output)
		},
	}

	cmd.Flags().StringVar(&f.principal, "principal", "", "loan principal, e.g. 30500000")
	cmd.Flags().StringVar(&f.rate, "rate", "", "annual interest rate in percent, e.g. 4.2")
	cmd.Flags().IntVar(&f.term, "term", 0, "number of payments")
	cmd.Flags().StringVar(&f.frequency, "frequency", "MONTHLY", "MONTHLY, QUARTERLY or ANNUALLY")
	cmd.Flags().StringVar(&f.amortType, "type", "FULLY_AMORTIZING", "FULLY_AMORTIZING or INTEREST_ONLY")
	cmd.Flags().StringVar(&f.firstDue, "first-payment", "", "first due date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "json", "json or table")
	_ = cmd.MarkFlagRequired("principal") //nolint:errcheck
	_ = cmd.MarkFlagRequired("rate")      //nolint:errcheck
	_ = cmd.MarkFlagRequired("term")      //nolint:errcheck

	return cmd
}

func (f scheduleFlags) request() (dto.ComputeScheduleRequest, error) {
	principal, err := money.Parse(f.principal)
	if err != nil {
		return dto.ComputeScheduleRequest{}, fmt.Errorf("--principal: %w", err)
	}
	rate, err := money.Parse(f.rate)
	if err != nil {
		return dto.ComputeScheduleRequest{}, fmt.Errorf("--rate: %w", err)
	}
	freq, err := valueobject.NewPaymentFrequency(f.frequency)
	if err != nil {
		return dto.ComputeScheduleRequest{}, err
	}

	req := dto.ComputeScheduleRequest{
		Principal:         principal,
		AnnualRatePercent: rate,
		AmortizationType:  f.amortType,
		TermPayments:      f.term,
		PaymentsPerYear:   freq.PaymentsPerYear(),
	}
	if f.firstDue != "" {
		d, err := time.Parse(time.DateOnly, f.firstDue)
		if err != nil {
			return dto.ComputeScheduleRequest{}, fmt.Errorf("invalid --first-payment %q: use YYYY-MM-DD", f.firstDue)
		}
		req.FirstPaymentDate = &d
	}
	return req, nil
}

func writeSchedule(w io.Writer, resp dto.ScheduleResponse, output string) error {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "Period\tDue\tPayment\tPrincipal\tInterest\tBalance\t")
		for _, e := range resp.Schedule {
			due := "-"
			if e.DueDate != nil {
				due = e.DueDate.Format(time.DateOnly)
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t\n",
				e.Period, due, usd(e.PaymentAmount), usd(e.PrincipalPortion), usd(e.InterestPortion), usd(e.RemainingBalance))
		}
		fmt.Fprintf(tw, "Total\t\t%s\t\t%s\t\t\n", usd(resp.TotalPaid), usd(resp.TotalInterest))
		return tw.Flush()
	default:
		return fmt.Errorf("unknown --output %q: use json or table", output)
	}
}

func usd(f float64) string {
	return money.FormatUSD(decimal.NewFromFloat(f))
}
