package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arjunmehta/stitchbook-backend/internal/ledger"
	"github.com/arjunmehta/stitchbook-backend/internal/shopdate"
	"github.com/arjunmehta/stitchbook-backend/pkg/db/models"
	"github.com/arjunmehta/stitchbook-backend/pkg/enums"
	pkgerrors "github.com/arjunmehta/stitchbook-backend/pkg/errors"
	"github.com/arjunmehta/stitchbook-backend/pkg/logger"
	"github.com/arjunmehta/stitchbook-backend/pkg/metrics"
)

// Service owns order state transitions. Marking an order paid is the only
// place final revenue entries are written; the status update is the sole
// mandatory effect, ledger writes are best-effort on top of it.
type Service interface {
	Get(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	ListByBillNumber(ctx context.Context, billNumber int64) ([]models.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID int64, status string) (*MarkPaidResult, error)
	UpdateDeliveryStatus(ctx context.Context, orderID int64, status string) error
	UpdateDetails(ctx context.Context, orderID int64, input UpdateDetailsInput) (*models.Order, error)
	MarkPaid(ctx context.Context, orderID int64) (*MarkPaidResult, error)
	MarkPaidForBill(ctx context.Context, billNumber int64) (*BulkMarkPaidResult, error)
}

// MarkPaidResult reports what a paid transition did beyond the status write.
type MarkPaidResult struct {
	OrderID            int64            `json:"order_id"`
	PaymentStatus      string           `json:"payment_status"`
	LedgerSkipped      bool             `json:"ledger_skipped,omitempty"`
	AdvanceRepaired    bool             `json:"advance_repaired,omitempty"`
	FinalPaymentAmount *decimal.Decimal `json:"final_payment_amount,omitempty"`
}

// BulkOrderOutcome is the per-order result of a bulk paid transition.
type BulkOrderOutcome struct {
	OrderID            int64            `json:"order_id"`
	Success            bool             `json:"success"`
	Error              string           `json:"error,omitempty"`
	FinalPaymentAmount *decimal.Decimal `json:"final_payment_amount,omitempty"`
}

// BulkMarkPaidResult aggregates a per-bill paid transition. AffectedCount is
// the number of orders whose mandatory status write succeeded.
type BulkMarkPaidResult struct {
	BillNumber    int64              `json:"billnumberinput2"`
	AffectedCount int                `json:"affected_count"`
	Outcomes      []BulkOrderOutcome `json:"orders"`
}

type service struct {
	repo    Repository
	ledger  ledger.Service
	log     *logger.Logger
	metrics *metrics.LedgerMetrics
}

// NewService builds an orders service with the required dependencies.
// Metrics may be nil.
func NewService(repo Repository, ledgerSvc ledger.Service, log *logger.Logger, m *metrics.LedgerMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if ledgerSvc == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		ledger:  ledgerSvc,
		log:     log,
		metrics: m,
	}, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Order, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context) ([]models.Order, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return rows, nil
}

func (s *service) ListByBillNumber(ctx context.Context, billNumber int64) ([]models.Order, error) {
	if billNumber <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bill number required")
	}
	rows, err := s.repo.ListByBillNumber(ctx, billNumber)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders for bill")
	}
	return rows, nil
}

func (s *service) UpdatePaymentStatus(ctx context.Context, orderID int64, status string) (*MarkPaidResult, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	parsed, err := enums.ParsePaymentStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	if parsed == enums.PaymentStatusPaid {
		return s.MarkPaid(ctx, orderID)
	}

	affected, err := s.repo.UpdatePaymentStatus(ctx, orderID, string(parsed))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update payment status")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return &MarkPaidResult{OrderID: orderID, PaymentStatus: string(parsed)}, nil
}

func (s *service) UpdateDeliveryStatus(ctx context.Context, orderID int64, status string) error {
	if orderID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	parsed, err := enums.ParseDeliveryStatus(status)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	affected, err := s.repo.UpdateDeliveryStatus(ctx, orderID, string(parsed))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update delivery status")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return nil
}

// UpdateDetailsInput carries the editable order fields. Nil fields are left
// untouched.
type UpdateDetailsInput struct {
	PaymentMode   *string
	TotalAmount   *decimal.Decimal
	AdvanceAmount *decimal.Decimal
	DueDate       *string
}

// UpdateDetails edits the bill-facing order fields. Amount edits are rejected
// once the order is paid; the ledger entries written at that point would no
// longer match the order.
func (s *service) UpdateDetails(ctx context.Context, orderID int64, input UpdateDetailsInput) (*models.Order, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.PaymentMode == nil && input.TotalAmount == nil && input.AdvanceAmount == nil && input.DueDate == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}

	if (input.TotalAmount != nil || input.AdvanceAmount != nil) && order.IsPaid() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "amounts cannot change on a paid order")
	}

	if input.PaymentMode != nil {
		order.PaymentMode = *input.PaymentMode
	}
	if input.TotalAmount != nil {
		if input.TotalAmount.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "total amount must not be negative")
		}
		order.TotalAmount = *input.TotalAmount
	}
	if input.AdvanceAmount != nil {
		if input.AdvanceAmount.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "advance amount must not be negative")
		}
		order.AdvanceAmount = *input.AdvanceAmount
	}
	if input.DueDate != nil {
		order.DueDate = *input.DueDate
	}
	if order.AdvanceAmount.GreaterThan(order.TotalAmount) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "advance amount cannot exceed total amount")
	}

	if err := s.repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save order")
	}
	return order, nil
}

// MarkPaid flips the order to paid and records revenue. The status write must
// succeed; every ledger step after it degrades to a logged warning so billing
// keeps working when the reporting infrastructure is missing or broken.
func (s *service) MarkPaid(ctx context.Context, orderID int64) (*MarkPaidResult, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	ctx = s.log.WithOrderID(ctx, orderID)

	affected, err := s.repo.UpdatePaymentStatus(ctx, orderID, string(enums.PaymentStatusPaid))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update payment status")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	result := &MarkPaidResult{OrderID: orderID, PaymentStatus: string(enums.PaymentStatusPaid)}

	if s.ledger.Available(ctx) != ledger.AvailabilityAvailable {
		s.log.Warn(ctx, "revenue ledger unavailable, skipping revenue tracking for paid order")
		result.LedgerSkipped = true
		return result, nil
	}

	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		s.log.Error(ctx, "loading order for revenue recording failed", err)
		result.LedgerSkipped = true
		return result, nil
	}

	s.recordRevenueForPaidOrder(ctx, order, result)
	return result, nil
}

func (s *service) recordRevenueForPaidOrder(ctx context.Context, order *models.Order, result *MarkPaidResult) {
	remaining := order.RemainingBalance()

	// Orders created before the ledger existed have no advance entry; write
	// one now, backdated to the order's own date so daily history stays right.
	if order.AdvanceAmount.IsPositive() {
		hasAdvance, err := s.ledger.HasEntry(ctx, order.ID, enums.PaymentTypeAdvance)
		if err != nil {
			s.log.Error(ctx, "advance entry lookup failed", err)
		} else if !hasAdvance {
			_, err := s.ledger.RecordAdvance(ctx, ledger.RecordAdvanceInput{
				OrderID:         order.ID,
				BillID:          order.BillID,
				CustomerName:    order.CustomerName,
				Amount:          order.AdvanceAmount,
				TotalBillAmount: order.TotalAmount,
				PaymentDate:     s.advanceBackdate(order),
				Notes:           "retroactive advance recorded at final payment",
			})
			switch {
			case err == nil:
				result.AdvanceRepaired = true
				if s.metrics != nil {
					s.metrics.IncRepairedEntry()
				}
				s.log.Info(ctx, "synthesized missing advance entry for pre-ledger order")
			case pkgerrors.IsUniqueViolation(err, ""):
				// A concurrent transition already wrote it.
			default:
				s.log.Error(ctx, "retroactive advance write failed", err)
			}
		}
	}

	if remaining.IsNegative() {
		if s.metrics != nil {
			s.metrics.IncAnomaly("overpayment")
		}
		s.log.Warn(ctx, "advance exceeds total amount, skipping final entry")
		return
	}
	if remaining.IsZero() {
		return
	}

	hasFinal, err := s.ledger.HasEntry(ctx, order.ID, enums.PaymentTypeFinal)
	if err != nil {
		s.log.Error(ctx, "final entry lookup failed", err)
		return
	}
	if hasFinal {
		return
	}

	entry, err := s.ledger.RecordFinal(ctx, ledger.RecordFinalInput{
		OrderID:         order.ID,
		BillID:          order.BillID,
		CustomerName:    order.CustomerName,
		Amount:          remaining,
		TotalBillAmount: order.TotalAmount,
		AdvanceAmount:   order.AdvanceAmount,
	})
	switch {
	case err == nil:
		if entry != nil {
			amount := entry.Amount
			result.FinalPaymentAmount = &amount
		}
	case pkgerrors.IsUniqueViolation(err, ""):
		// Double-tap from a second session; the first write won.
	default:
		s.log.Error(ctx, "final revenue write failed", err)
	}
}

func (s *service) advanceBackdate(order *models.Order) string {
	if date := shopdate.Normalize(order.OrderDate); date != "" {
		return date
	}
	if date := shopdate.Normalize(order.CreatedAt); date != "" {
		return date
	}
	return shopdate.Today()
}

// MarkPaidForBill applies the paid transition to every order on the bill,
// continuing past per-order failures. AffectedCount reflects the orders whose
// mandatory status write went through.
func (s *service) MarkPaidForBill(ctx context.Context, billNumber int64) (*BulkMarkPaidResult, error) {
	if billNumber <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bill number required")
	}
	ctx = s.log.WithBillNumber(ctx, billNumber)

	orders, err := s.repo.ListByBillNumber(ctx, billNumber)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders for bill")
	}
	if len(orders) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no orders for bill number")
	}

	result := &BulkMarkPaidResult{BillNumber: billNumber}
	for _, order := range orders {
		outcome := BulkOrderOutcome{OrderID: order.ID}
		single, err := s.MarkPaid(ctx, order.ID)
		if err != nil {
			outcome.Error = err.Error()
			s.log.Error(s.log.WithOrderID(ctx, order.ID), "bulk paid transition failed for order", err)
		} else {
			outcome.Success = true
			outcome.FinalPaymentAmount = single.FinalPaymentAmount
			result.AffectedCount++
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}
	return result, nil
}
