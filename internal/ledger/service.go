package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/arjunmehta/stitchbook-backend/internal/shopdate"
	"github.com/arjunmehta/stitchbook-backend/pkg/db/models"
	"github.com/arjunmehta/stitchbook-backend/pkg/enums"
	"github.com/arjunmehta/stitchbook-backend/pkg/metrics"
)

// Service records immutable revenue recognition entries. Advance entries are
// dated to the bill's creation date (or a supplied backdate for retroactive
// repair); final entries are always dated to the current shop day.
type Service interface {
	RecordAdvance(ctx context.Context, input RecordAdvanceInput) (*models.RevenueEntry, error)
	RecordFinal(ctx context.Context, input RecordFinalInput) (*models.RevenueEntry, error)
	HasEntry(ctx context.Context, orderID int64, paymentType enums.PaymentType) (bool, error)
	Available(ctx context.Context) Availability
	EntriesOn(ctx context.Context, date string) ([]models.RevenueEntry, error)
	EntriesBetween(ctx context.Context, start, end string) ([]models.RevenueEntry, error)
	EntriesAll(ctx context.Context) ([]models.RevenueEntry, error)
	EntriesForOrder(ctx context.Context, orderID int64) ([]models.RevenueEntry, error)
}

type service struct {
	repo    Repository
	metrics *metrics.LedgerMetrics
}

// RecordAdvanceInput captures the advance collected when a bill is created.
type RecordAdvanceInput struct {
	OrderID         int64
	BillID          *int64
	CustomerName    string
	Amount          decimal.Decimal
	TotalBillAmount decimal.Decimal
	PaymentDate     string
	Notes           string
}

// RecordFinalInput captures the balance collected when an order is marked paid.
type RecordFinalInput struct {
	OrderID         int64
	BillID          *int64
	CustomerName    string
	Amount          decimal.Decimal
	TotalBillAmount decimal.Decimal
	AdvanceAmount   decimal.Decimal
	Notes           string
}

// NewService wires a revenue ledger service with the provided repository.
// Metrics may be nil.
func NewService(repo Repository, m *metrics.LedgerMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo, metrics: m}, nil
}

func (s *service) RecordAdvance(ctx context.Context, input RecordAdvanceInput) (*models.RevenueEntry, error) {
	if input.OrderID <= 0 {
		return nil, fmt.Errorf("order id is required")
	}
	// A bill taken without an advance produces no revenue event.
	if !input.Amount.IsPositive() {
		return nil, nil
	}

	date := input.PaymentDate
	if date == "" {
		date = shopdate.Today()
	}

	remaining := input.TotalBillAmount.Sub(input.Amount)
	if remaining.IsNegative() {
		s.countAnomaly("advance_exceeds_total")
		remaining = decimal.Zero
	}

	entry := &models.RevenueEntry{
		OrderID:          input.OrderID,
		BillID:           input.BillID,
		CustomerName:     input.CustomerName,
		PaymentType:      enums.PaymentTypeAdvance,
		Amount:           input.Amount.Round(2),
		TotalBillAmount:  input.TotalBillAmount.Round(2),
		RemainingBalance: remaining.Round(2),
		PaymentDate:      date,
		Status:           "completed",
		Notes:            input.Notes,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.countWriteFailure(enums.PaymentTypeAdvance)
		return nil, err
	}
	s.countEntryWritten(enums.PaymentTypeAdvance)
	return entry, nil
}

func (s *service) RecordFinal(ctx context.Context, input RecordFinalInput) (*models.RevenueEntry, error) {
	if input.OrderID <= 0 {
		return nil, fmt.Errorf("order id is required")
	}
	// Fully prepaid orders have no remaining balance to recognize.
	if !input.Amount.IsPositive() {
		return nil, nil
	}

	advance := input.AdvanceAmount.Round(2)
	entry := &models.RevenueEntry{
		OrderID:              input.OrderID,
		BillID:               input.BillID,
		CustomerName:         input.CustomerName,
		PaymentType:          enums.PaymentTypeFinal,
		Amount:               input.Amount.Round(2),
		TotalBillAmount:      input.TotalBillAmount.Round(2),
		RemainingBalance:     decimal.Zero,
		PaymentDate:          shopdate.Today(),
		Status:               "completed",
		AdvancePaymentAmount: &advance,
		Notes:                input.Notes,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.countWriteFailure(enums.PaymentTypeFinal)
		return nil, err
	}
	s.countEntryWritten(enums.PaymentTypeFinal)
	return entry, nil
}

func (s *service) HasEntry(ctx context.Context, orderID int64, paymentType enums.PaymentType) (bool, error) {
	if orderID <= 0 {
		return false, fmt.Errorf("order id is required")
	}
	if !paymentType.IsValid() {
		return false, fmt.Errorf("invalid payment type %q", paymentType)
	}
	return s.repo.HasEntry(ctx, orderID, paymentType)
}

func (s *service) Available(ctx context.Context) Availability {
	if s.repo.TableExists(ctx) {
		return AvailabilityAvailable
	}
	return AvailabilityUnavailable
}

func (s *service) EntriesOn(ctx context.Context, date string) ([]models.RevenueEntry, error) {
	if date == "" {
		return nil, fmt.Errorf("date is required")
	}
	return s.repo.ListByPaymentDate(ctx, date)
}

func (s *service) EntriesBetween(ctx context.Context, start, end string) ([]models.RevenueEntry, error) {
	if start == "" || end == "" {
		return nil, fmt.Errorf("start and end dates are required")
	}
	return s.repo.ListBetweenDates(ctx, start, end)
}

func (s *service) EntriesAll(ctx context.Context) ([]models.RevenueEntry, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) EntriesForOrder(ctx context.Context, orderID int64) ([]models.RevenueEntry, error) {
	if orderID <= 0 {
		return nil, fmt.Errorf("order id is required")
	}
	return s.repo.ListByOrderID(ctx, orderID)
}

func (s *service) countEntryWritten(pt enums.PaymentType) {
	if s.metrics != nil {
		s.metrics.IncEntryWritten(string(pt))
	}
}

func (s *service) countWriteFailure(pt enums.PaymentType) {
	if s.metrics != nil {
		s.metrics.IncWriteFailure(string(pt))
	}
}

func (s *service) countAnomaly(kind string) {
	if s.metrics != nil {
		s.metrics.IncAnomaly(kind)
	}
}
