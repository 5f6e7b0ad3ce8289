package expenses

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arjunmehta/stitchbook-backend/internal/shopdate"
	"github.com/arjunmehta/stitchbook-backend/pkg/db/models"
	pkgerrors "github.com/arjunmehta/stitchbook-backend/pkg/errors"
)

// Service manages daily shop expenses and worker payouts, and exposes the
// date-range totals the profit reports subtract from revenue.
type Service interface {
	CreateDaily(ctx context.Context, input CreateDailyInput) (*models.DailyExpense, error)
	UpdateDaily(ctx context.Context, id int64, input UpdateDailyInput) (*models.DailyExpense, error)
	DeleteDaily(ctx context.Context, id int64) error
	ListDaily(ctx context.Context, start, end string) ([]models.DailyExpense, error)

	CreateWorkerExpense(ctx context.Context, input CreateWorkerExpenseInput) (*models.WorkerExpense, error)
	DeleteWorkerExpense(ctx context.Context, id int64) error
	ListWorkerExpenses(ctx context.Context, start, end string) ([]models.WorkerExpense, error)
	ListWorkerExpensesByWorker(ctx context.Context, workerID int64) ([]models.WorkerExpense, error)

	TotalsBetween(ctx context.Context, start, end string) (Totals, error)
	TotalsAllTime(ctx context.Context) (Totals, error)
}

type service struct {
	repo Repository
}

// CreateDailyInput captures one day's running costs.
type CreateDailyInput struct {
	Date              string          `json:"Date"`
	MaterialCost      decimal.Decimal `json:"material_cost"`
	MiscellaneousCost decimal.Decimal `json:"miscellaneous_Cost"`
	ChaiPaniCost      decimal.Decimal `json:"chai_pani_cost"`
	Notes             string          `json:"notes"`
}

// UpdateDailyInput carries the replaceable fields of a daily expense row.
type UpdateDailyInput struct {
	MaterialCost      *decimal.Decimal `json:"material_cost"`
	MiscellaneousCost *decimal.Decimal `json:"miscellaneous_Cost"`
	ChaiPaniCost      *decimal.Decimal `json:"chai_pani_cost"`
	Notes             *string          `json:"notes"`
}

// CreateWorkerExpenseInput captures a payout to a worker.
type CreateWorkerExpenseInput struct {
	WorkerID   *int64          `json:"worker_id"`
	WorkerName string          `json:"worker_name"`
	Date       string          `json:"date"`
	AmountPaid decimal.Decimal `json:"Amt_Paid"`
	Notes      string          `json:"notes"`
}

// Totals is the expense side of a profit window.
type Totals struct {
	Daily    decimal.Decimal `json:"daily_expenses"`
	Worker   decimal.Decimal `json:"worker_expenses"`
	Combined decimal.Decimal `json:"total_expenses"`
}

// NewService wires an expenses service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("expenses repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateDaily(ctx context.Context, input CreateDailyInput) (*models.DailyExpense, error) {
	if input.MaterialCost.IsNegative() || input.MiscellaneousCost.IsNegative() || input.ChaiPaniCost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expense amounts cannot be negative")
	}

	date := shopdate.Normalize(input.Date)
	if date == "" {
		date = shopdate.Today()
	}

	expense := &models.DailyExpense{
		Date:              date,
		MaterialCost:      input.MaterialCost.Round(2),
		MiscellaneousCost: input.MiscellaneousCost.Round(2),
		ChaiPaniCost:      input.ChaiPaniCost.Round(2),
		Notes:             input.Notes,
	}
	if err := s.repo.CreateDaily(ctx, expense); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create daily expense")
	}
	return expense, nil
}

func (s *service) UpdateDaily(ctx context.Context, id int64, input UpdateDailyInput) (*models.DailyExpense, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expense id required")
	}

	expense, err := s.repo.GetDaily(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "daily expense not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load daily expense")
	}

	if input.MaterialCost != nil {
		expense.MaterialCost = input.MaterialCost.Round(2)
	}
	if input.MiscellaneousCost != nil {
		expense.MiscellaneousCost = input.MiscellaneousCost.Round(2)
	}
	if input.ChaiPaniCost != nil {
		expense.ChaiPaniCost = input.ChaiPaniCost.Round(2)
	}
	if input.Notes != nil {
		expense.Notes = *input.Notes
	}
	if expense.MaterialCost.IsNegative() || expense.MiscellaneousCost.IsNegative() || expense.ChaiPaniCost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expense amounts cannot be negative")
	}

	if err := s.repo.SaveDaily(ctx, expense); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save daily expense")
	}
	return expense, nil
}

func (s *service) DeleteDaily(ctx context.Context, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "expense id required")
	}
	if err := s.repo.DeleteDaily(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete daily expense")
	}
	return nil
}

func (s *service) ListDaily(ctx context.Context, start, end string) ([]models.DailyExpense, error) {
	start, end, err := normalizeRange(start, end)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListDailyBetween(ctx, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list daily expenses")
	}
	return rows, nil
}

func (s *service) CreateWorkerExpense(ctx context.Context, input CreateWorkerExpenseInput) (*models.WorkerExpense, error) {
	if !input.AmountPaid.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payout amount must be positive")
	}

	date := shopdate.Normalize(input.Date)
	if date == "" {
		date = shopdate.Today()
	}

	expense := &models.WorkerExpense{
		WorkerID:   input.WorkerID,
		WorkerName: input.WorkerName,
		Date:       date,
		AmountPaid: input.AmountPaid.Round(2),
		Notes:      input.Notes,
	}
	if err := s.repo.CreateWorkerExpense(ctx, expense); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create worker expense")
	}
	return expense, nil
}

func (s *service) DeleteWorkerExpense(ctx context.Context, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "expense id required")
	}
	if err := s.repo.DeleteWorkerExpense(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete worker expense")
	}
	return nil
}

func (s *service) ListWorkerExpenses(ctx context.Context, start, end string) ([]models.WorkerExpense, error) {
	start, end, err := normalizeRange(start, end)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListWorkerExpensesBetween(ctx, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list worker expenses")
	}
	return rows, nil
}

func (s *service) ListWorkerExpensesByWorker(ctx context.Context, workerID int64) ([]models.WorkerExpense, error) {
	if workerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "worker id required")
	}
	rows, err := s.repo.ListWorkerExpensesByWorker(ctx, workerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list worker expenses")
	}
	return rows, nil
}

func (s *service) TotalsBetween(ctx context.Context, start, end string) (Totals, error) {
	start, end, err := normalizeRange(start, end)
	if err != nil {
		return Totals{}, err
	}

	daily, err := s.repo.ListDailyBetween(ctx, start, end)
	if err != nil {
		return Totals{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list daily expenses")
	}
	worker, err := s.repo.ListWorkerExpensesBetween(ctx, start, end)
	if err != nil {
		return Totals{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list worker expenses")
	}

	return sumTotals(daily, worker), nil
}

func (s *service) TotalsAllTime(ctx context.Context) (Totals, error) {
	daily, err := s.repo.ListDailyAll(ctx)
	if err != nil {
		return Totals{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list daily expenses")
	}
	worker, err := s.repo.ListWorkerExpensesAll(ctx)
	if err != nil {
		return Totals{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list worker expenses")
	}
	return sumTotals(daily, worker), nil
}

func sumTotals(daily []models.DailyExpense, worker []models.WorkerExpense) Totals {
	totals := Totals{Daily: decimal.Zero, Worker: decimal.Zero}
	for _, row := range daily {
		totals.Daily = totals.Daily.Add(row.Total())
	}
	for _, row := range worker {
		totals.Worker = totals.Worker.Add(row.AmountPaid)
	}
	totals.Daily = totals.Daily.Round(2)
	totals.Worker = totals.Worker.Round(2)
	totals.Combined = totals.Daily.Add(totals.Worker)
	return totals
}

func normalizeRange(start, end string) (string, string, error) {
	start = shopdate.Normalize(start)
	end = shopdate.Normalize(end)
	if start == "" || end == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "valid start and end dates required")
	}
	if start > end {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "start date must not be after end date")
	}
	return start, end, nil
}
