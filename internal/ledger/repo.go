package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arjunmehta/stitchbook-backend/pkg/db/models"
	"github.com/arjunmehta/stitchbook-backend/pkg/enums"
)

// Repository manages persistence for revenue_tracking rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.RevenueEntry) error
	ListByOrderID(ctx context.Context, orderID int64) ([]models.RevenueEntry, error)
	ListByPaymentDate(ctx context.Context, date string) ([]models.RevenueEntry, error)
	ListBetweenDates(ctx context.Context, start, end string) ([]models.RevenueEntry, error)
	ListAll(ctx context.Context) ([]models.RevenueEntry, error)
	HasEntry(ctx context.Context, orderID int64, paymentType enums.PaymentType) (bool, error)
	TableExists(ctx context.Context) bool
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a revenue ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.RevenueEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListByOrderID(ctx context.Context, orderID int64) ([]models.RevenueEntry, error) {
	var entries []models.RevenueEntry
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("recorded_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ListByPaymentDate(ctx context.Context, date string) ([]models.RevenueEntry, error) {
	var entries []models.RevenueEntry
	if err := r.db.WithContext(ctx).
		Where("payment_date = ?", date).
		Order("recorded_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ListBetweenDates(ctx context.Context, start, end string) ([]models.RevenueEntry, error) {
	var entries []models.RevenueEntry
	if err := r.db.WithContext(ctx).
		Where("payment_date >= ? AND payment_date <= ?", start, end).
		Order("payment_date ASC, recorded_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.RevenueEntry, error) {
	var entries []models.RevenueEntry
	if err := r.db.WithContext(ctx).
		Order("payment_date ASC, recorded_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) HasEntry(ctx context.Context, orderID int64, paymentType enums.PaymentType) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.RevenueEntry{}).
		Where("order_id = ? AND payment_type = ?", orderID, paymentType).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// TableExists probes whether the revenue_tracking table has been migrated in.
// Deployments that never ran the ledger migration keep working on the legacy
// calculation path.
func (r *repository) TableExists(ctx context.Context) bool {
	return r.db.WithContext(ctx).Migrator().HasTable(&models.RevenueEntry{})
}
