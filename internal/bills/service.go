package bills

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arjunmehta/stitchbook-backend/internal/ledger"
	"github.com/arjunmehta/stitchbook-backend/internal/orders"
	"github.com/arjunmehta/stitchbook-backend/internal/shopdate"
	"github.com/arjunmehta/stitchbook-backend/pkg/db/models"
	"github.com/arjunmehta/stitchbook-backend/pkg/enums"
	pkgerrors "github.com/arjunmehta/stitchbook-backend/pkg/errors"
	"github.com/arjunmehta/stitchbook-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service creates bills with their orders and records the advance revenue.
// The bill and order writes are transactional; the ledger write happens after
// commit and is best-effort, so billing never fails on reporting problems.
type Service interface {
	Create(ctx context.Context, input CreateBillInput) (*CreateBillResult, error)
	Get(ctx context.Context, id int64) (*BillDetail, error)
	GetByNumber(ctx context.Context, billNumber int64) (*BillDetail, error)
	List(ctx context.Context) ([]models.Bill, error)
	CurrentBillNumber(ctx context.Context) (int64, error)
}

// OrderLine is one garment on a new bill.
type OrderLine struct {
	GarmentType string          `json:"garment_type" validate:"required"`
	TotalAmount decimal.Decimal `json:"total_amt"`
	WorkPay     decimal.Decimal `json:"Work_pay"`
	DueDate     string          `json:"due_date"`
}

// CreateBillInput captures a customer visit: the garments ordered and the
// advance collected up front.
type CreateBillInput struct {
	CustomerName  string          `json:"customer_name" validate:"required"`
	MobileNumber  string          `json:"mobile_number"`
	AdvanceAmount decimal.Decimal `json:"payment_amount"`
	PaymentMode   string          `json:"payment_mode"`
	IssueDate     string          `json:"today_date"`
	DueDate       string          `json:"due_date"`
	Orders        []OrderLine     `json:"orders" validate:"required,min=1"`
}

// CreateBillResult reports the created records and whether the advance made it
// into the revenue ledger.
type CreateBillResult struct {
	Bill            *models.Bill    `json:"bill"`
	Orders          []models.Order  `json:"orders"`
	AdvanceRecorded bool            `json:"advance_recorded"`
	AdvanceAmount   decimal.Decimal `json:"advance_amount"`
}

// BillDetail is a bill joined with its orders.
type BillDetail struct {
	Bill   models.Bill    `json:"bill"`
	Orders []models.Order `json:"orders"`
}

type service struct {
	repo   Repository
	orders orders.Repository
	ledger ledger.Service
	tx     txRunner
	log    *logger.Logger
}

// NewService builds a bills service with the required dependencies.
func NewService(repo Repository, orderRepo orders.Repository, ledgerSvc ledger.Service, tx txRunner, log *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("bills repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if ledgerSvc == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:   repo,
		orders: orderRepo,
		ledger: ledgerSvc,
		tx:     tx,
		log:    log,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateBillInput) (*CreateBillResult, error) {
	if input.CustomerName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	if len(input.Orders) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one order line required")
	}
	if input.AdvanceAmount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "advance amount cannot be negative")
	}

	total := decimal.Zero
	for _, line := range input.Orders {
		if line.TotalAmount.IsNegative() || line.WorkPay.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "order amounts cannot be negative")
		}
		total = total.Add(line.TotalAmount)
	}

	issueDate := shopdate.Normalize(input.IssueDate)
	if issueDate == "" {
		issueDate = shopdate.Today()
	}

	var (
		bill    *models.Bill
		created []models.Order
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		billRepo := s.repo.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)

		billNumber, err := billRepo.AllocateBillNumber(ctx)
		if err != nil {
			return err
		}

		bill = &models.Bill{
			BillNumber:   billNumber,
			CustomerName: input.CustomerName,
			MobileNumber: input.MobileNumber,
			TotalAmount:  total.Round(2),
			IssueDate:    issueDate,
			DueDate:      shopdate.Normalize(input.DueDate),
			Status:       "active",
		}
		if err := billRepo.Create(ctx, bill); err != nil {
			return err
		}

		for i, line := range input.Orders {
			order := models.Order{
				BillID:        &bill.ID,
				BillNumber:    billNumber,
				CustomerName:  input.CustomerName,
				GarmentType:   line.GarmentType,
				Status:        enums.DeliveryStatusPending,
				PaymentMode:   input.PaymentMode,
				PaymentStatus: string(enums.PaymentStatusPending),
				TotalAmount:   line.TotalAmount.Round(2),
				WorkPay:       line.WorkPay.Round(2),
				OrderDate:     issueDate,
				DueDate:       shopdate.Normalize(line.DueDate),
			}
			// The advance is collected once per visit; it rides on the first
			// order so ledger rows always reference a concrete order.
			if i == 0 {
				order.AdvanceAmount = input.AdvanceAmount.Round(2)
			}
			if err := orderRepo.Create(ctx, &order); err != nil {
				return err
			}
			created = append(created, order)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create bill")
	}

	result := &CreateBillResult{
		Bill:          bill,
		Orders:        created,
		AdvanceAmount: input.AdvanceAmount.Round(2),
	}

	// Best-effort revenue recognition outside the transaction. The bill is
	// already committed; a ledger failure only loses reporting data.
	if input.AdvanceAmount.IsPositive() && len(created) > 0 {
		ctx := s.log.WithBillNumber(ctx, bill.BillNumber)
		entry, err := s.ledger.RecordAdvance(ctx, ledger.RecordAdvanceInput{
			OrderID:         created[0].ID,
			BillID:          &bill.ID,
			CustomerName:    input.CustomerName,
			Amount:          input.AdvanceAmount,
			TotalBillAmount: total,
			PaymentDate:     issueDate,
		})
		if err != nil {
			s.log.Error(ctx, "advance revenue write failed, bill creation unaffected", err)
		} else if entry != nil {
			result.AdvanceRecorded = true
		}
	}

	return result, nil
}

func (s *service) Get(ctx context.Context, id int64) (*BillDetail, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bill id required")
	}
	bill, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, billLoadError(err)
	}
	return s.detail(ctx, bill)
}

func (s *service) GetByNumber(ctx context.Context, billNumber int64) (*BillDetail, error) {
	if billNumber <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bill number required")
	}
	bill, err := s.repo.GetByNumber(ctx, billNumber)
	if err != nil {
		return nil, billLoadError(err)
	}
	return s.detail(ctx, bill)
}

func (s *service) detail(ctx context.Context, bill *models.Bill) (*BillDetail, error) {
	billOrders, err := s.orders.ListByBillNumber(ctx, bill.BillNumber)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list bill orders")
	}
	return &BillDetail{Bill: *bill, Orders: billOrders}, nil
}

func (s *service) List(ctx context.Context) ([]models.Bill, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list bills")
	}
	return rows, nil
}

func (s *service) CurrentBillNumber(ctx context.Context) (int64, error) {
	current, err := s.repo.CurrentBillNumber(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read bill counter")
	}
	return current, nil
}

func billLoadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "bill not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load bill")
}
