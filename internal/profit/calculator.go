package profit

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/arjunmehta/stitchbook-backend/internal/expenses"
	"github.com/arjunmehta/stitchbook-backend/internal/ledger"
	"github.com/arjunmehta/stitchbook-backend/internal/shopdate"
	"github.com/arjunmehta/stitchbook-backend/pkg/db/models"
	"github.com/arjunmehta/stitchbook-backend/pkg/enums"
	pkgerrors "github.com/arjunmehta/stitchbook-backend/pkg/errors"
	"github.com/arjunmehta/stitchbook-backend/pkg/logger"
	"github.com/arjunmehta/stitchbook-backend/pkg/metrics"
)

type ledgerSource interface {
	Available(ctx context.Context) ledger.Availability
	EntriesOn(ctx context.Context, date string) ([]models.RevenueEntry, error)
	EntriesAll(ctx context.Context) ([]models.RevenueEntry, error)
}

type expenseSource interface {
	TotalsBetween(ctx context.Context, start, end string) (expenses.Totals, error)
	TotalsAllTime(ctx context.Context) (expenses.Totals, error)
}

type orderSource interface {
	ListPaid(ctx context.Context) ([]models.Order, error)
	ListWithAdvanceOn(ctx context.Context, date string) ([]models.Order, error)
}

// Calculator produces profit summaries. It probes ledger availability once per
// calculation and dispatches to exactly one of the two aggregation paths, so a
// summary never mixes ledger sums with order-table sums.
type Calculator interface {
	Calculate(ctx context.Context, date *string) (Summary, error)
}

// Summary is a profit result computed fresh on every query.
type Summary struct {
	Date           string                  `json:"date"`
	Method         enums.CalculationMethod `json:"method"`
	TotalRevenue   decimal.Decimal         `json:"total_revenue"`
	DailyExpenses  decimal.Decimal         `json:"daily_expenses"`
	WorkerExpenses decimal.Decimal         `json:"worker_expenses"`
	NetProfit      decimal.Decimal         `json:"net_profit"`
	Breakdown      *RevenueBreakdown       `json:"revenue_breakdown,omitempty"`
}

// RevenueBreakdown splits ledger revenue into its two recognition stages.
type RevenueBreakdown struct {
	AdvancePayments decimal.Decimal `json:"advance_payments"`
	FinalPayments   decimal.Decimal `json:"final_payments"`
}

// AllTimeLabel is the date shown when no filter is applied.
const AllTimeLabel = "All Time"

type calculator struct {
	ledger   ledgerSource
	expenses expenseSource
	orders   orderSource
	metrics  *metrics.LedgerMetrics
	log      *logger.Logger
}

// NewCalculator wires a profit calculator. Metrics and logger may be nil.
func NewCalculator(ledgerSvc ledgerSource, expenseSvc expenseSource, orderRepo orderSource, m *metrics.LedgerMetrics, log *logger.Logger) (Calculator, error) {
	if ledgerSvc == nil {
		return nil, fmt.Errorf("ledger source required")
	}
	if expenseSvc == nil {
		return nil, fmt.Errorf("expense source required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("order source required")
	}
	return &calculator{
		ledger:   ledgerSvc,
		expenses: expenseSvc,
		orders:   orderRepo,
		metrics:  m,
		log:      log,
	}, nil
}

func (c *calculator) Calculate(ctx context.Context, date *string) (Summary, error) {
	var day string
	if date != nil && *date != "" {
		day = shopdate.Normalize(*date)
		if day == "" {
			return Summary{}, pkgerrors.New(pkgerrors.CodeValidation, "unreadable date filter")
		}
	}

	if c.ledger.Available(ctx) == ledger.AvailabilityAvailable {
		summary, err := c.twoStage(ctx, day)
		if err == nil {
			return summary, nil
		}
		if c.log != nil {
			c.log.Error(ctx, "ledger aggregation failed, serving legacy calculation", err)
		}
		c.countFallback()
		return c.legacy(ctx, day)
	}

	c.countFallback()
	return c.legacy(ctx, day)
}

func (c *calculator) twoStage(ctx context.Context, day string) (Summary, error) {
	var (
		entries []models.RevenueEntry
		err     error
	)
	if day != "" {
		entries, err = c.ledger.EntriesOn(ctx, day)
	} else {
		entries, err = c.ledger.EntriesAll(ctx)
	}
	if err != nil {
		return Summary{}, err
	}

	total := decimal.Zero
	advance := decimal.Zero
	final := decimal.Zero
	for _, entry := range entries {
		total = total.Add(entry.Amount)
		switch entry.PaymentType {
		case enums.PaymentTypeAdvance:
			advance = advance.Add(entry.Amount)
		case enums.PaymentTypeFinal:
			final = final.Add(entry.Amount)
		}
	}

	totals, err := c.expenseTotals(ctx, day)
	if err != nil {
		return Summary{}, err
	}

	return buildSummary(day, enums.CalculationMethodTwoStage, total, totals, &RevenueBreakdown{
		AdvancePayments: advance.Round(2),
		FinalPayments:   final.Round(2),
	}), nil
}

// legacy reconstructs revenue from current order state: paid orders contribute
// total_amt, and orders dated to the target day contribute their advance. The
// all-time mode only picks up advances dated today; that asymmetry is the
// historical behavior and is kept as is.
func (c *calculator) legacy(ctx context.Context, day string) (Summary, error) {
	paid, err := c.orders.ListPaid(ctx)
	if err != nil {
		return Summary{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list paid orders")
	}

	total := decimal.Zero
	for _, order := range paid {
		if day != "" && shopdate.Normalize(order.UpdatedAt) != day {
			continue
		}
		total = total.Add(order.TotalAmount)
	}

	advanceDay := day
	if advanceDay == "" {
		advanceDay = shopdate.Today()
	}
	withAdvance, err := c.orders.ListWithAdvanceOn(ctx, advanceDay)
	if err != nil {
		return Summary{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list advance orders")
	}
	for _, order := range withAdvance {
		if order.AdvanceAmount.IsPositive() {
			total = total.Add(order.AdvanceAmount)
		}
	}

	totals, err := c.expenseTotals(ctx, day)
	if err != nil {
		return Summary{}, err
	}
	return buildSummary(day, enums.CalculationMethodLegacy, total, totals, nil), nil
}

func (c *calculator) expenseTotals(ctx context.Context, day string) (expenses.Totals, error) {
	if day != "" {
		return c.expenses.TotalsBetween(ctx, day, day)
	}
	return c.expenses.TotalsAllTime(ctx)
}

func (c *calculator) countFallback() {
	if c.metrics != nil {
		c.metrics.IncLegacyFallback()
	}
}

func buildSummary(day string, method enums.CalculationMethod, revenue decimal.Decimal, totals expenses.Totals, breakdown *RevenueBreakdown) Summary {
	label := day
	if label == "" {
		label = AllTimeLabel
	}
	revenue = revenue.Round(2)
	return Summary{
		Date:           label,
		Method:         method,
		TotalRevenue:   revenue,
		DailyExpenses:  totals.Daily,
		WorkerExpenses: totals.Worker,
		NetProfit:      revenue.Sub(totals.Combined).Round(2),
		Breakdown:      breakdown,
	}
}
