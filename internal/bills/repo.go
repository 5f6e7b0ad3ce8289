package bills

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/arjunmehta/stitchbook-backend/pkg/db/models"
)

// Repository manages persistence for bills and the bill number counter.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, bill *models.Bill) error
	Get(ctx context.Context, id int64) (*models.Bill, error)
	GetByNumber(ctx context.Context, billNumber int64) (*models.Bill, error)
	List(ctx context.Context) ([]models.Bill, error)
	CurrentBillNumber(ctx context.Context) (int64, error)
	AllocateBillNumber(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a bills repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, bill *models.Bill) error {
	return r.db.WithContext(ctx).Create(bill).Error
}

func (r *repository) Get(ctx context.Context, id int64) (*models.Bill, error) {
	var bill models.Bill
	if err := r.db.WithContext(ctx).First(&bill, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *repository) GetByNumber(ctx context.Context, billNumber int64) (*models.Bill, error) {
	var bill models.Bill
	if err := r.db.WithContext(ctx).First(&bill, "billnumberinput2 = ?", billNumber).Error; err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *repository) List(ctx context.Context) ([]models.Bill, error) {
	var rows []models.Bill
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CurrentBillNumber(ctx context.Context) (int64, error) {
	var counter models.BillCounter
	err := r.db.WithContext(ctx).Order("id DESC").First(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return counter.BillNumber, nil
}

// AllocateBillNumber bumps the single counter row and returns the new value.
// The update-then-read runs on one connection, so concurrent transactions
// serialize on the row lock and never hand out the same number.
func (r *repository) AllocateBillNumber(ctx context.Context) (int64, error) {
	db := r.db.WithContext(ctx)

	var counter models.BillCounter
	err := db.Order("id DESC").First(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		counter = models.BillCounter{BillNumber: 1}
		if err := db.Create(&counter).Error; err != nil {
			return 0, err
		}
		return counter.BillNumber, nil
	}
	if err != nil {
		return 0, err
	}

	if err := db.Model(&models.BillCounter{}).
		Where("id = ?", counter.ID).
		Update("billno", gorm.Expr("billno + 1")).Error; err != nil {
		return 0, err
	}

	var updated models.BillCounter
	if err := db.First(&updated, "id = ?", counter.ID).Error; err != nil {
		return 0, err
	}
	return updated.BillNumber, nil
}
