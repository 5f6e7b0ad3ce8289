package workers

import (
	"context"

	"gorm.io/gorm"

	"github.com/arjunmehta/stitchbook-backend/pkg/db/models"
)

// Repository manages persistence for workers and their order assignments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, worker *models.Worker) error
	Get(ctx context.Context, id int64) (*models.Worker, error)
	List(ctx context.Context) ([]models.Worker, error)
	ListByIDs(ctx context.Context, ids []int64) ([]models.Worker, error)
	Save(ctx context.Context, worker *models.Worker) error
	Delete(ctx context.Context, id int64) error
	ReplaceAssignments(ctx context.Context, orderID int64, workerIDs []int64) error
	ListWorkersForOrder(ctx context.Context, orderID int64) ([]models.Worker, error)
	CountOrdersForWorkerSince(ctx context.Context, workerID int64, since string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a workers repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, worker *models.Worker) error {
	return r.db.WithContext(ctx).Create(worker).Error
}

func (r *repository) Get(ctx context.Context, id int64) (*models.Worker, error) {
	var worker models.Worker
	if err := r.db.WithContext(ctx).First(&worker, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &worker, nil
}

func (r *repository) List(ctx context.Context) ([]models.Worker, error) {
	var rows []models.Worker
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListByIDs(ctx context.Context, ids []int64) ([]models.Worker, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Worker
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Save(ctx context.Context, worker *models.Worker) error {
	return r.db.WithContext(ctx).Save(worker).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Worker{}, "id = ?", id).Error
}

// ReplaceAssignments swaps the full worker set for an order.
func (r *repository) ReplaceAssignments(ctx context.Context, orderID int64, workerIDs []int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Delete(&models.WorkerAssignment{}, "order_id = ?", orderID).Error; err != nil {
		return err
	}
	for _, workerID := range workerIDs {
		assignment := models.WorkerAssignment{OrderID: orderID, WorkerID: workerID}
		if err := db.Create(&assignment).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) ListWorkersForOrder(ctx context.Context, orderID int64) ([]models.Worker, error) {
	var rows []models.Worker
	if err := r.db.WithContext(ctx).
		Joins("JOIN order_worker_association ON order_worker_association.worker_id = workers.id").
		Where("order_worker_association.order_id = ?", orderID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CountOrdersForWorkerSince(ctx context.Context, workerID int64, since string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Joins("JOIN order_worker_association ON order_worker_association.order_id = orders.id").
		Where("order_worker_association.worker_id = ? AND orders.order_date >= ?", workerID, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
