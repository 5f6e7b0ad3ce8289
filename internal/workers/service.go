package workers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arjunmehta/stitchbook-backend/internal/shopdate"
	"github.com/arjunmehta/stitchbook-backend/pkg/db/models"
	pkgerrors "github.com/arjunmehta/stitchbook-backend/pkg/errors"
)

const weeklyPayWindowDays = 7

type orderSource interface {
	Get(ctx context.Context, id int64) (*models.Order, error)
	Save(ctx context.Context, order *models.Order) error
}

type payoutSource interface {
	ListWorkerExpensesByWorker(ctx context.Context, workerID int64) ([]models.WorkerExpense, error)
}

// Service manages the shop's tailors: their rates, which orders they stitch,
// and the weekly pay owed to them.
type Service interface {
	Create(ctx context.Context, input CreateWorkerInput) (*models.Worker, error)
	Get(ctx context.Context, id int64) (*models.Worker, error)
	List(ctx context.Context) ([]models.Worker, error)
	Update(ctx context.Context, id int64, input UpdateWorkerInput) (*models.Worker, error)
	Delete(ctx context.Context, id int64) error
	AssignToOrder(ctx context.Context, orderID int64, workerIDs []int64) (*AssignmentResult, error)
	WorkersForOrder(ctx context.Context, orderID int64) ([]models.Worker, error)
	WeeklyPay(ctx context.Context, workerID int64) (*WeeklyPaySummary, error)
}

// CreateWorkerInput carries a new worker's details.
type CreateWorkerInput struct {
	Name         string          `json:"name" validate:"required"`
	MobileNumber string          `json:"mobile_number"`
	Rate         decimal.Decimal `json:"Rate"`
	SuitRate     decimal.Decimal `json:"Suit"`
	JacketRate   decimal.Decimal `json:"Jacket"`
	SadriRate    decimal.Decimal `json:"Sadri"`
	JoinedAt     string          `json:"joined_at"`
}

// UpdateWorkerInput updates only the fields that are set.
type UpdateWorkerInput struct {
	Name         *string          `json:"name"`
	MobileNumber *string          `json:"mobile_number"`
	Rate         *decimal.Decimal `json:"Rate"`
	SuitRate     *decimal.Decimal `json:"Suit"`
	JacketRate   *decimal.Decimal `json:"Jacket"`
	SadriRate    *decimal.Decimal `json:"Sadri"`
	IsActive     *bool            `json:"is_active"`
}

// AssignmentResult reports the derived work pay after an assignment change.
type AssignmentResult struct {
	OrderID   int64           `json:"order_id"`
	WorkerIDs []int64         `json:"worker_ids"`
	WorkPay   decimal.Decimal `json:"work_pay"`
}

// WeeklyPaySummary is the pay owed to one worker over the trailing week:
// assigned orders times their rate, minus payouts already made.
type WeeklyPaySummary struct {
	WorkerID     int64           `json:"worker_id"`
	OrderCount   int64           `json:"order_count"`
	TotalPay     decimal.Decimal `json:"total_worker_pay"`
	TotalPaid    decimal.Decimal `json:"total_amt_paid"`
	RemainingPay decimal.Decimal `json:"remaining_pay"`
}

type service struct {
	repo    Repository
	orders  orderSource
	payouts payoutSource
}

// NewService builds a workers service with the required dependencies.
func NewService(repo Repository, orderRepo orderSource, payoutRepo payoutSource) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("workers repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders source required")
	}
	if payoutRepo == nil {
		return nil, fmt.Errorf("payout source required")
	}
	return &service{repo: repo, orders: orderRepo, payouts: payoutRepo}, nil
}

func (s *service) Create(ctx context.Context, input CreateWorkerInput) (*models.Worker, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "worker name required")
	}
	for _, rate := range []decimal.Decimal{input.Rate, input.SuitRate, input.JacketRate, input.SadriRate} {
		if rate.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "rates cannot be negative")
		}
	}
	joined := shopdate.Normalize(input.JoinedAt)
	if joined == "" {
		joined = shopdate.Today()
	}

	worker := &models.Worker{
		Name:         name,
		MobileNumber: strings.TrimSpace(input.MobileNumber),
		Rate:         input.Rate.Round(2),
		SuitRate:     input.SuitRate.Round(2),
		JacketRate:   input.JacketRate.Round(2),
		SadriRate:    input.SadriRate.Round(2),
		JoinedAt:     joined,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, worker); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create worker")
	}
	return worker, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Worker, error) {
	worker, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, workerLoadError(err)
	}
	return worker, nil
}

func (s *service) List(ctx context.Context) ([]models.Worker, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list workers")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateWorkerInput) (*models.Worker, error) {
	worker, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, workerLoadError(err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "worker name required")
		}
		worker.Name = name
	}
	if input.MobileNumber != nil {
		worker.MobileNumber = strings.TrimSpace(*input.MobileNumber)
	}
	for _, pair := range []struct {
		src *decimal.Decimal
		dst *decimal.Decimal
	}{
		{input.Rate, &worker.Rate},
		{input.SuitRate, &worker.SuitRate},
		{input.JacketRate, &worker.JacketRate},
		{input.SadriRate, &worker.SadriRate},
	} {
		if pair.src == nil {
			continue
		}
		if pair.src.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "rates cannot be negative")
		}
		*pair.dst = pair.src.Round(2)
	}
	if input.IsActive != nil {
		worker.IsActive = *input.IsActive
	}

	if err := s.repo.Save(ctx, worker); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save worker")
	}
	return worker, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return workerLoadError(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete worker")
	}
	return nil
}

// AssignToOrder replaces the order's worker set and recomputes Work_pay from
// each worker's rate for the order's garment type.
func (s *service) AssignToOrder(ctx context.Context, orderID int64, workerIDs []int64) (*AssignmentResult, error) {
	if len(workerIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one worker required")
	}

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}

	assigned, err := s.repo.ListByIDs(ctx, workerIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load workers")
	}
	if len(assigned) != len(dedupe(workerIDs)) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "one or more workers not found")
	}

	workPay := decimal.Zero
	for _, worker := range assigned {
		workPay = workPay.Add(worker.RateFor(order.GarmentType))
	}
	workPay = workPay.Round(2)

	if err := s.repo.ReplaceAssignments(ctx, orderID, workerIDs); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace assignments")
	}

	order.WorkPay = workPay
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save order work pay")
	}

	return &AssignmentResult{
		OrderID:   orderID,
		WorkerIDs: workerIDs,
		WorkPay:   workPay,
	}, nil
}

func (s *service) WorkersForOrder(ctx context.Context, orderID int64) ([]models.Worker, error) {
	rows, err := s.repo.ListWorkersForOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list order workers")
	}
	return rows, nil
}

// WeeklyPay reports orders assigned in the trailing seven days at the worker's
// flat rate, against payouts dated inside the same window.
func (s *service) WeeklyPay(ctx context.Context, workerID int64) (*WeeklyPaySummary, error) {
	worker, err := s.repo.Get(ctx, workerID)
	if err != nil {
		return nil, workerLoadError(err)
	}

	since := shopdate.AddDays(shopdate.Today(), -weeklyPayWindowDays)
	orderCount, err := s.repo.CountOrdersForWorkerSince(ctx, workerID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count assigned orders")
	}
	totalPay := worker.Rate.Mul(decimal.NewFromInt(orderCount)).Round(2)

	payouts, err := s.payouts.ListWorkerExpensesByWorker(ctx, workerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list payouts")
	}
	totalPaid := decimal.Zero
	for _, payout := range payouts {
		if day := shopdate.Normalize(payout.Date); day >= since {
			totalPaid = totalPaid.Add(payout.AmountPaid)
		}
	}
	totalPaid = totalPaid.Round(2)

	return &WeeklyPaySummary{
		WorkerID:     workerID,
		OrderCount:   orderCount,
		TotalPay:     totalPay,
		TotalPaid:    totalPaid,
		RemainingPay: totalPay.Sub(totalPaid).Round(2),
	}, nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func workerLoadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "worker not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load worker")
}
