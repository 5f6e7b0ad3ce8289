package reports

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/arjunmehta/stitchbook-backend/internal/expenses"
	"github.com/arjunmehta/stitchbook-backend/internal/ledger"
	"github.com/arjunmehta/stitchbook-backend/internal/profit"
	"github.com/arjunmehta/stitchbook-backend/internal/shopdate"
	"github.com/arjunmehta/stitchbook-backend/pkg/db/models"
	"github.com/arjunmehta/stitchbook-backend/pkg/enums"
	pkgerrors "github.com/arjunmehta/stitchbook-backend/pkg/errors"
)

type ledgerSource interface {
	Available(ctx context.Context) ledger.Availability
	EntriesBetween(ctx context.Context, start, end string) ([]models.RevenueEntry, error)
}

type expenseSource interface {
	TotalsBetween(ctx context.Context, start, end string) (expenses.Totals, error)
}

type orderSource interface {
	ListPaid(ctx context.Context) ([]models.Order, error)
	ListWithAdvanceBetween(ctx context.Context, start, end string) ([]models.Order, error)
}

// Service renders the daily, weekly and monthly profit screens. Weekly and
// monthly grids are zero-filled: a day or week without activity appears with
// zero amounts rather than being dropped.
type Service interface {
	Daily(ctx context.Context, date string) (profit.Summary, error)
	Weekly(ctx context.Context, date string) (*WeeklyReport, error)
	Monthly(ctx context.Context, date string) (*MonthlyReport, error)
}

// DayEntry is one day of a weekly grid.
type DayEntry struct {
	Date            string          `json:"date"`
	Revenue         decimal.Decimal `json:"revenue"`
	AdvancePayments decimal.Decimal `json:"advance_payments"`
	FinalPayments   decimal.Decimal `json:"final_payments"`
	DailyExpenses   decimal.Decimal `json:"daily_expenses"`
	WorkerExpenses  decimal.Decimal `json:"worker_expenses"`
	NetProfit       decimal.Decimal `json:"net_profit"`
}

// PeriodTotals sums a grid.
type PeriodTotals struct {
	Revenue        decimal.Decimal `json:"revenue"`
	DailyExpenses  decimal.Decimal `json:"daily_expenses"`
	WorkerExpenses decimal.Decimal `json:"worker_expenses"`
	NetProfit      decimal.Decimal `json:"net_profit"`
}

// WeeklyReport is a Sunday to Saturday grid with week totals.
type WeeklyReport struct {
	WeekStart string                  `json:"week_start"`
	WeekEnd   string                  `json:"week_end"`
	Method    enums.CalculationMethod `json:"method"`
	Days      []DayEntry              `json:"days"`
	Totals    PeriodTotals            `json:"totals"`
}

// WeekEntry is one week-of-month row; edge weeks may span fewer than 7 days.
type WeekEntry struct {
	WeekStart      string          `json:"week_start"`
	WeekEnd        string          `json:"week_end"`
	Revenue        decimal.Decimal `json:"revenue"`
	DailyExpenses  decimal.Decimal `json:"daily_expenses"`
	WorkerExpenses decimal.Decimal `json:"worker_expenses"`
	NetProfit      decimal.Decimal `json:"net_profit"`
}

// MonthlyReport is a week-of-month grid with month totals.
type MonthlyReport struct {
	MonthStart string                  `json:"month_start"`
	MonthEnd   string                  `json:"month_end"`
	Method     enums.CalculationMethod `json:"method"`
	Weeks      []WeekEntry             `json:"weeks"`
	Totals     PeriodTotals            `json:"totals"`
}

type service struct {
	calculator profit.Calculator
	ledger     ledgerSource
	expenses   expenseSource
	orders     orderSource
}

// NewService builds a reports service with the required dependencies.
func NewService(calculator profit.Calculator, ledgerSvc ledgerSource, expenseSvc expenseSource, orderRepo orderSource) (Service, error) {
	if calculator == nil {
		return nil, fmt.Errorf("profit calculator required")
	}
	if ledgerSvc == nil {
		return nil, fmt.Errorf("ledger source required")
	}
	if expenseSvc == nil {
		return nil, fmt.Errorf("expense source required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("order source required")
	}
	return &service{
		calculator: calculator,
		ledger:     ledgerSvc,
		expenses:   expenseSvc,
		orders:     orderRepo,
	}, nil
}

func (s *service) Daily(ctx context.Context, date string) (profit.Summary, error) {
	day := shopdate.Normalize(date)
	if day == "" {
		return profit.Summary{}, pkgerrors.New(pkgerrors.CodeValidation, "valid date required")
	}
	return s.calculator.Calculate(ctx, &day)
}

// Weekly probes the ledger once, then fetches each day of the week
// concurrently. Per-day sums are commutative, so completion order does not
// matter.
func (s *service) Weekly(ctx context.Context, date string) (*WeeklyReport, error) {
	day := shopdate.Normalize(date)
	if day == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "valid date required")
	}
	start, end, ok := shopdate.WeekBounds(day)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "valid date required")
	}

	method := enums.CalculationMethodTwoStage
	if s.ledger.Available(ctx) != ledger.AvailabilityAvailable {
		method = enums.CalculationMethodLegacy
	}

	days := shopdate.WeekDays(start)
	entries := make([]DayEntry, len(days))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, d := range days {
		i, d := i, d
		group.Go(func() error {
			entry, err := s.dayEntry(groupCtx, d, method)
			if err != nil {
				return err
			}
			entries[i] = entry
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	report := &WeeklyReport{
		WeekStart: start,
		WeekEnd:   end,
		Method:    method,
		Days:      entries,
		Totals:    zeroTotals(),
	}
	for _, entry := range entries {
		report.Totals.Revenue = report.Totals.Revenue.Add(entry.Revenue)
		report.Totals.DailyExpenses = report.Totals.DailyExpenses.Add(entry.DailyExpenses)
		report.Totals.WorkerExpenses = report.Totals.WorkerExpenses.Add(entry.WorkerExpenses)
	}
	report.Totals.NetProfit = report.Totals.Revenue.
		Sub(report.Totals.DailyExpenses).
		Sub(report.Totals.WorkerExpenses).
		Round(2)
	return report, nil
}

// Monthly splits the month into Sunday to Saturday spans clipped at the month
// edges and fetches each span concurrently.
func (s *service) Monthly(ctx context.Context, date string) (*MonthlyReport, error) {
	day := shopdate.Normalize(date)
	if day == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "valid date required")
	}
	first, last, ok := shopdate.MonthBounds(day)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "valid date required")
	}

	method := enums.CalculationMethodTwoStage
	if s.ledger.Available(ctx) != ledger.AvailabilityAvailable {
		method = enums.CalculationMethodLegacy
	}

	spans := shopdate.MonthWeeks(day)
	weeks := make([]WeekEntry, len(spans))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, span := range spans {
		i, span := i, span
		group.Go(func() error {
			entry, err := s.weekEntry(groupCtx, span, method)
			if err != nil {
				return err
			}
			weeks[i] = entry
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	report := &MonthlyReport{
		MonthStart: first,
		MonthEnd:   last,
		Method:     method,
		Weeks:      weeks,
		Totals:     zeroTotals(),
	}
	for _, week := range weeks {
		report.Totals.Revenue = report.Totals.Revenue.Add(week.Revenue)
		report.Totals.DailyExpenses = report.Totals.DailyExpenses.Add(week.DailyExpenses)
		report.Totals.WorkerExpenses = report.Totals.WorkerExpenses.Add(week.WorkerExpenses)
	}
	report.Totals.NetProfit = report.Totals.Revenue.
		Sub(report.Totals.DailyExpenses).
		Sub(report.Totals.WorkerExpenses).
		Round(2)
	return report, nil
}

func (s *service) dayEntry(ctx context.Context, day string, method enums.CalculationMethod) (DayEntry, error) {
	revenue, advance, final, err := s.revenueBetween(ctx, day, day, method)
	if err != nil {
		return DayEntry{}, err
	}
	totals, err := s.expenses.TotalsBetween(ctx, day, day)
	if err != nil {
		return DayEntry{}, err
	}
	return DayEntry{
		Date:            day,
		Revenue:         revenue,
		AdvancePayments: advance,
		FinalPayments:   final,
		DailyExpenses:   totals.Daily,
		WorkerExpenses:  totals.Worker,
		NetProfit:       revenue.Sub(totals.Combined).Round(2),
	}, nil
}

func (s *service) weekEntry(ctx context.Context, span shopdate.Span, method enums.CalculationMethod) (WeekEntry, error) {
	revenue, _, _, err := s.revenueBetween(ctx, span.Start, span.End, method)
	if err != nil {
		return WeekEntry{}, err
	}
	totals, err := s.expenses.TotalsBetween(ctx, span.Start, span.End)
	if err != nil {
		return WeekEntry{}, err
	}
	return WeekEntry{
		WeekStart:      span.Start,
		WeekEnd:        span.End,
		Revenue:        revenue,
		DailyExpenses:  totals.Daily,
		WorkerExpenses: totals.Worker,
		NetProfit:      revenue.Sub(totals.Combined).Round(2),
	}, nil
}

func (s *service) revenueBetween(ctx context.Context, start, end string, method enums.CalculationMethod) (revenue, advance, final decimal.Decimal, err error) {
	revenue, advance, final = decimal.Zero, decimal.Zero, decimal.Zero

	if method == enums.CalculationMethodTwoStage {
		entries, listErr := s.ledger.EntriesBetween(ctx, start, end)
		if listErr != nil {
			err = pkgerrors.Wrap(pkgerrors.CodeInternal, listErr, "list ledger entries")
			return
		}
		for _, entry := range entries {
			revenue = revenue.Add(entry.Amount)
			switch entry.PaymentType {
			case enums.PaymentTypeAdvance:
				advance = advance.Add(entry.Amount)
			case enums.PaymentTypeFinal:
				final = final.Add(entry.Amount)
			}
		}
		revenue = revenue.Round(2)
		advance = advance.Round(2)
		final = final.Round(2)
		return
	}

	paid, listErr := s.orders.ListPaid(ctx)
	if listErr != nil {
		err = pkgerrors.Wrap(pkgerrors.CodeInternal, listErr, "list paid orders")
		return
	}
	for _, order := range paid {
		day := shopdate.Normalize(order.UpdatedAt)
		if day >= start && day <= end {
			revenue = revenue.Add(order.TotalAmount)
			final = final.Add(order.TotalAmount)
		}
	}

	withAdvance, listErr := s.orders.ListWithAdvanceBetween(ctx, start, end)
	if listErr != nil {
		err = pkgerrors.Wrap(pkgerrors.CodeInternal, listErr, "list advance orders")
		return
	}
	for _, order := range withAdvance {
		revenue = revenue.Add(order.AdvanceAmount)
		advance = advance.Add(order.AdvanceAmount)
	}
	revenue = revenue.Round(2)
	advance = advance.Round(2)
	final = final.Round(2)
	return
}

func zeroTotals() PeriodTotals {
	return PeriodTotals{
		Revenue:        decimal.Zero,
		DailyExpenses:  decimal.Zero,
		WorkerExpenses: decimal.Zero,
		NetProfit:      decimal.Zero,
	}
}
