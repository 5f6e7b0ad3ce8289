package expenses

import (
	"context"

	"gorm.io/gorm"

	"github.com/arjunmehta/stitchbook-backend/pkg/db/models"
)

// Repository manages persistence for daily shop expenses and worker payouts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateDaily(ctx context.Context, expense *models.DailyExpense) error
	GetDaily(ctx context.Context, id int64) (*models.DailyExpense, error)
	ListDailyBetween(ctx context.Context, start, end string) ([]models.DailyExpense, error)
	ListDailyAll(ctx context.Context) ([]models.DailyExpense, error)
	SaveDaily(ctx context.Context, expense *models.DailyExpense) error
	DeleteDaily(ctx context.Context, id int64) error

	CreateWorkerExpense(ctx context.Context, expense *models.WorkerExpense) error
	GetWorkerExpense(ctx context.Context, id int64) (*models.WorkerExpense, error)
	ListWorkerExpensesBetween(ctx context.Context, start, end string) ([]models.WorkerExpense, error)
	ListWorkerExpensesAll(ctx context.Context) ([]models.WorkerExpense, error)
	ListWorkerExpensesByWorker(ctx context.Context, workerID int64) ([]models.WorkerExpense, error)
	DeleteWorkerExpense(ctx context.Context, id int64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an expenses repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateDaily(ctx context.Context, expense *models.DailyExpense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *repository) GetDaily(ctx context.Context, id int64) (*models.DailyExpense, error) {
	var expense models.DailyExpense
	if err := r.db.WithContext(ctx).First(&expense, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *repository) ListDailyBetween(ctx context.Context, start, end string) ([]models.DailyExpense, error) {
	var rows []models.DailyExpense
	if err := r.db.WithContext(ctx).
		Where(`"Date" >= ? AND "Date" <= ?`, start, end).
		Order(`"Date" ASC`).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListDailyAll(ctx context.Context) ([]models.DailyExpense, error) {
	var rows []models.DailyExpense
	if err := r.db.WithContext(ctx).
		Order(`"Date" ASC`).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) SaveDaily(ctx context.Context, expense *models.DailyExpense) error {
	return r.db.WithContext(ctx).Save(expense).Error
}

func (r *repository) DeleteDaily(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.DailyExpense{}, "id = ?", id).Error
}

func (r *repository) CreateWorkerExpense(ctx context.Context, expense *models.WorkerExpense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *repository) GetWorkerExpense(ctx context.Context, id int64) (*models.WorkerExpense, error) {
	var expense models.WorkerExpense
	if err := r.db.WithContext(ctx).First(&expense, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *repository) ListWorkerExpensesBetween(ctx context.Context, start, end string) ([]models.WorkerExpense, error) {
	var rows []models.WorkerExpense
	if err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", start, end).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListWorkerExpensesAll(ctx context.Context) ([]models.WorkerExpense, error) {
	var rows []models.WorkerExpense
	if err := r.db.WithContext(ctx).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListWorkerExpensesByWorker(ctx context.Context, workerID int64) ([]models.WorkerExpense, error) {
	var rows []models.WorkerExpense
	if err := r.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) DeleteWorkerExpense(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.WorkerExpense{}, "id = ?", id).Error
}
