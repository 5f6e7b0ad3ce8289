package measurements

import (
	"context"

	"gorm.io/gorm"

	"github.com/arjunmehta/stitchbook-backend/pkg/db/models"
)

// Repository manages persistence for customer measurements.
type Repository interface {
	Create(ctx context.Context, record *models.Measurement) error
	GetByPhone(ctx context.Context, phoneNumber string) (*models.Measurement, error)
	List(ctx context.Context) ([]models.Measurement, error)
	Save(ctx context.Context, record *models.Measurement) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a measurements repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, record *models.Measurement) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) GetByPhone(ctx context.Context, phoneNumber string) (*models.Measurement, error) {
	var record models.Measurement
	if err := r.db.WithContext(ctx).
		Where("phone_number = ?", phoneNumber).
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) List(ctx context.Context) ([]models.Measurement, error) {
	var rows []models.Measurement
	if err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Save(ctx context.Context, record *models.Measurement) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Measurement{}, "id = ?", id).Error
}
