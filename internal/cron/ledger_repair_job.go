package cron

import (
	"context"
	"fmt"

	"github.com/arjunmehta/stitchbook-backend/internal/ledger"
	"github.com/arjunmehta/stitchbook-backend/internal/shopdate"
	"github.com/arjunmehta/stitchbook-backend/pkg/db/models"
	pkgerrors "github.com/arjunmehta/stitchbook-backend/pkg/errors"
	"github.com/arjunmehta/stitchbook-backend/pkg/logger"
	"github.com/arjunmehta/stitchbook-backend/pkg/metrics"
)

const (
	ledgerRepairJobName    = "ledger_repair"
	defaultRepairBatchSize = 200
)

type orderBacklog interface {
	ListWithAdvanceMissingLedger(ctx context.Context, limit int) ([]models.Order, error)
}

type ledgerWriter interface {
	Available(ctx context.Context) ledger.Availability
	RecordAdvance(ctx context.Context, input ledger.RecordAdvanceInput) (*models.RevenueEntry, error)
}

// LedgerRepairJob backfills advance entries for orders billed before the
// revenue ledger existed. Entries are backdated to the order date so daily
// figures land on the day the advance was actually collected.
type LedgerRepairJob struct {
	orders    orderBacklog
	ledger    ledgerWriter
	batchSize int
	metrics   *metrics.LedgerMetrics
	logg      *logger.Logger
}

// LedgerRepairParams configure the repair job.
type LedgerRepairParams struct {
	Orders    orderBacklog
	Ledger    ledgerWriter
	BatchSize int
	Metrics   *metrics.LedgerMetrics
	Logger    *logger.Logger
}

// NewLedgerRepairJob builds the repair job.
func NewLedgerRepairJob(params LedgerRepairParams) (*LedgerRepairJob, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("order backlog required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = defaultRepairBatchSize
	}
	return &LedgerRepairJob{
		orders:    params.Orders,
		ledger:    params.Ledger,
		batchSize: batchSize,
		metrics:   params.Metrics,
		logg:      params.Logger,
	}, nil
}

// Name implements Job.
func (j *LedgerRepairJob) Name() string { return ledgerRepairJobName }

// Run processes one batch of unrepaired orders per cycle.
func (j *LedgerRepairJob) Run(ctx context.Context) error {
	if j.ledger.Available(ctx) != ledger.AvailabilityAvailable {
		j.logg.Info(ctx, "revenue ledger unavailable; nothing to repair")
		return nil
	}

	backlog, err := j.orders.ListWithAdvanceMissingLedger(ctx, j.batchSize)
	if err != nil {
		return fmt.Errorf("list unrepaired orders: %w", err)
	}
	if len(backlog) == 0 {
		j.logg.Info(ctx, "no orders need ledger repair")
		return nil
	}

	repaired := 0
	for _, order := range backlog {
		if err := ctx.Err(); err != nil {
			return err
		}
		entry, err := j.ledger.RecordAdvance(ctx, ledger.RecordAdvanceInput{
			OrderID:         order.ID,
			BillID:          order.BillID,
			CustomerName:    order.CustomerName,
			Amount:          order.AdvanceAmount,
			TotalBillAmount: order.TotalAmount,
			PaymentDate:     j.backdateFor(order),
			Notes:           "backfilled by ledger repair job",
		})
		if err != nil {
			// A concurrent writer beat us to this order; the unique index
			// already guarantees at most one advance entry.
			if pkgerrors.IsUniqueViolation(err, "") {
				continue
			}
			orderCtx := j.logg.WithOrderID(ctx, order.ID)
			j.logg.Error(orderCtx, "ledger repair write failed", err)
			continue
		}
		if entry != nil {
			repaired++
			if j.metrics != nil {
				j.metrics.IncRepairedEntry()
			}
		}
	}

	summaryCtx := j.logg.WithFields(ctx, map[string]any{
		"backlog":  len(backlog),
		"repaired": repaired,
	})
	j.logg.Info(summaryCtx, "ledger repair batch complete")
	return nil
}

func (j *LedgerRepairJob) backdateFor(order models.Order) string {
	if date := shopdate.Normalize(order.OrderDate); date != "" {
		return date
	}
	if date := shopdate.Normalize(order.CreatedAt); date != "" {
		return date
	}
	return shopdate.Today()
}
