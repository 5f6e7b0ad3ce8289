package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/arjunmehta/stitchbook-backend/pkg/db/models"
)

// Repository manages persistence for orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	ListByBillNumber(ctx context.Context, billNumber int64) ([]models.Order, error)
	ListPaid(ctx context.Context) ([]models.Order, error)
	ListWithAdvanceOn(ctx context.Context, date string) ([]models.Order, error)
	ListWithAdvanceBetween(ctx context.Context, start, end string) ([]models.Order, error)
	ListWithAdvanceMissingLedger(ctx context.Context, limit int) ([]models.Order, error)
	Save(ctx context.Context, order *models.Order) error
	UpdatePaymentStatus(ctx context.Context, id int64, status string) (int64, error)
	UpdateDeliveryStatus(ctx context.Context, id int64, status string) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an orders repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) Get(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context) ([]models.Order, error) {
	var rows []models.Order
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListByBillNumber(ctx context.Context, billNumber int64) ([]models.Order, error) {
	var rows []models.Order
	if err := r.db.WithContext(ctx).
		Where("billnumberinput2 = ?", billNumber).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListPaid(ctx context.Context) ([]models.Order, error) {
	var rows []models.Order
	if err := r.db.WithContext(ctx).
		Where("LOWER(payment_status) = ?", "paid").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListWithAdvanceOn(ctx context.Context, date string) ([]models.Order, error) {
	var rows []models.Order
	if err := r.db.WithContext(ctx).
		Where("order_date = ? AND payment_amount > 0", date).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListWithAdvanceBetween(ctx context.Context, start, end string) ([]models.Order, error) {
	var rows []models.Order
	if err := r.db.WithContext(ctx).
		Where("order_date >= ? AND order_date <= ? AND payment_amount > 0", start, end).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListWithAdvanceMissingLedger finds orders that collected an advance before
// the ledger existed, so the repair job can backfill their entries.
func (r *repository) ListWithAdvanceMissingLedger(ctx context.Context, limit int) ([]models.Order, error) {
	var rows []models.Order
	query := r.db.WithContext(ctx).
		Where("payment_amount > 0").
		Where("NOT EXISTS (SELECT 1 FROM revenue_tracking rt WHERE rt.order_id = orders.id AND rt.payment_type = ?)", "advance").
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Save(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// UpdatePaymentStatus writes only the status column and reports how many rows
// changed, so callers can distinguish a missing order from a successful write.
func (r *repository) UpdatePaymentStatus(ctx context.Context, id int64, status string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("payment_status", status)
	return result.RowsAffected, result.Error
}

func (r *repository) UpdateDeliveryStatus(ctx context.Context, id int64, status string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Order{}, "id = ?", id).Error
}
