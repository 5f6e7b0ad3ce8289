package bills

import (
	"context"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arjunmehta/stitchbook-backend/internal/ledger"
	"github.com/arjunmehta/stitchbook-backend/internal/orders"
	"github.com/arjunmehta/stitchbook-backend/pkg/enums"
	"github.com/arjunmehta/stitchbook-backend/pkg/logger"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (g *gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

func setupBillsTestDB(t *testing.T, withLedger bool) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A pooled second connection would see a different in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	statements := []string{`
CREATE TABLE IF NOT EXISTS bills (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  billnumberinput2 INTEGER,
  customer_name TEXT,
  mobile_number TEXT,
  total_amt NUMERIC,
  today_date TEXT,
  due_date TEXT,
  bill_status TEXT DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS billno (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  billno INTEGER
);`, `
CREATE TABLE IF NOT EXISTS orders (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  bill_id INTEGER,
  billnumberinput2 INTEGER,
  customer_name TEXT,
  garment_type TEXT,
  status TEXT DEFAULT 'pending',
  payment_mode TEXT,
  payment_status TEXT DEFAULT 'pending',
  total_amt NUMERIC,
  payment_amount NUMERIC,
  Work_pay NUMERIC,
  order_date TEXT,
  due_date TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`}
	if withLedger {
		statements = append(statements, `
CREATE TABLE IF NOT EXISTS revenue_tracking (
  id TEXT PRIMARY KEY,
  order_id INTEGER NOT NULL,
  bill_id INTEGER,
  customer_name TEXT,
  payment_type TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  total_bill_amount NUMERIC,
  remaining_balance NUMERIC,
  payment_date TEXT NOT NULL,
  recorded_at DATETIME,
  status TEXT DEFAULT 'completed',
  advance_payment_amount NUMERIC,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (order_id, payment_type)
);`)
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newBillsService(t *testing.T, db *gorm.DB) (Service, ledger.Service) {
	t.Helper()
	ledgerSvc, err := ledger.NewService(ledger.NewRepository(db), nil)
	require.NoError(t, err)
	log := logger.New(logger.Options{ServiceName: "bills-test", Output: io.Discard})
	svc, err := NewService(NewRepository(db), orders.NewRepository(db), ledgerSvc, &gormTxRunner{db: db}, log)
	require.NoError(t, err)
	return svc, ledgerSvc
}

func TestCreateBill(t *testing.T) {
	db := setupBillsTestDB(t, true)
	svc, ledgerSvc := newBillsService(t, db)
	ctx := context.Background()

	result, err := svc.Create(ctx, CreateBillInput{
		CustomerName:  "Asha",
		MobileNumber:  "9876543210",
		AdvanceAmount: decimal.NewFromInt(300),
		PaymentMode:   "cash",
		IssueDate:     "2025-09-01",
		Orders: []OrderLine{
			{GarmentType: "Pant", TotalAmount: decimal.NewFromInt(600), WorkPay: decimal.NewFromInt(120)},
			{GarmentType: "Shirt", TotalAmount: decimal.NewFromInt(400), WorkPay: decimal.NewFromInt(80)},
		},
	})
	require.NoError(t, err)

	assert.True(t, result.Bill.TotalAmount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "2025-09-01", result.Bill.IssueDate)
	require.Len(t, result.Orders, 2)

	// Advance rides on the first order only.
	assert.True(t, result.Orders[0].AdvanceAmount.Equal(decimal.NewFromInt(300)))
	assert.True(t, result.Orders[1].AdvanceAmount.IsZero())
	assert.True(t, result.AdvanceRecorded)

	entries, err := ledgerSvc.EntriesForOrder(ctx, result.Orders[0].ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, enums.PaymentTypeAdvance, entries[0].PaymentType)
	assert.Equal(t, "2025-09-01", entries[0].PaymentDate)
	assert.True(t, entries[0].RemainingBalance.Equal(decimal.NewFromInt(700)))
}

func TestCreateBill_SequentialNumbers(t *testing.T) {
	db := setupBillsTestDB(t, true)
	svc, _ := newBillsService(t, db)
	ctx := context.Background()

	input := CreateBillInput{
		CustomerName: "Asha",
		Orders:       []OrderLine{{GarmentType: "Kurta", TotalAmount: decimal.NewFromInt(500)}},
	}

	first, err := svc.Create(ctx, input)
	require.NoError(t, err)
	second, err := svc.Create(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, first.Bill.BillNumber+1, second.Bill.BillNumber)

	current, err := svc.CurrentBillNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.Bill.BillNumber, current)
}

func TestCreateBill_ZeroAdvance(t *testing.T) {
	db := setupBillsTestDB(t, true)
	svc, ledgerSvc := newBillsService(t, db)
	ctx := context.Background()

	result, err := svc.Create(ctx, CreateBillInput{
		CustomerName: "Asha",
		Orders:       []OrderLine{{GarmentType: "Pant", TotalAmount: decimal.NewFromInt(500)}},
	})
	require.NoError(t, err)
	assert.False(t, result.AdvanceRecorded)

	entries, err := ledgerSvc.EntriesForOrder(ctx, result.Orders[0].ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateBill_LedgerMissingStillSucceeds(t *testing.T) {
	db := setupBillsTestDB(t, false)
	svc, _ := newBillsService(t, db)

	result, err := svc.Create(context.Background(), CreateBillInput{
		CustomerName:  "Asha",
		AdvanceAmount: decimal.NewFromInt(200),
		Orders:        []OrderLine{{GarmentType: "Pant", TotalAmount: decimal.NewFromInt(500)}},
	})
	require.NoError(t, err)
	assert.False(t, result.AdvanceRecorded)
	assert.NotNil(t, result.Bill)
}

func TestCreateBill_Validation(t *testing.T) {
	db := setupBillsTestDB(t, true)
	svc, _ := newBillsService(t, db)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateBillInput{Orders: []OrderLine{{GarmentType: "Pant"}}})
	require.Error(t, err, "missing customer name")

	_, err = svc.Create(ctx, CreateBillInput{CustomerName: "Asha"})
	require.Error(t, err, "no order lines")

	_, err = svc.Create(ctx, CreateBillInput{
		CustomerName:  "Asha",
		AdvanceAmount: decimal.NewFromInt(-1),
		Orders:        []OrderLine{{GarmentType: "Pant"}},
	})
	require.Error(t, err, "negative advance")
}

func TestGetByNumber(t *testing.T) {
	db := setupBillsTestDB(t, true)
	svc, _ := newBillsService(t, db)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateBillInput{
		CustomerName: "Asha",
		Orders: []OrderLine{
			{GarmentType: "Pant", TotalAmount: decimal.NewFromInt(600)},
			{GarmentType: "Shirt", TotalAmount: decimal.NewFromInt(400)},
		},
	})
	require.NoError(t, err)

	detail, err := svc.GetByNumber(ctx, created.Bill.BillNumber)
	require.NoError(t, err)
	assert.Equal(t, created.Bill.ID, detail.Bill.ID)
	assert.Len(t, detail.Orders, 2)

	_, err = svc.GetByNumber(ctx, 424242)
	require.Error(t, err)
}
