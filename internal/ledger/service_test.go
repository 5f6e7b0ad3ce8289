package ledger

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arjunmehta/stitchbook-backend/internal/shopdate"
	"github.com/arjunmehta/stitchbook-backend/pkg/enums"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A pooled second connection would see a different in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	schema := `
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
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func newLedgerService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), nil)
	require.NoError(t, err)
	return svc
}

func TestRecordAdvance(t *testing.T) {
	db := setupLedgerTestDB(t)
	svc := newLedgerService(t, db)
	ctx := context.Background()

	entry, err := svc.RecordAdvance(ctx, RecordAdvanceInput{
		OrderID:         42,
		CustomerName:    "Asha",
		Amount:          decimal.NewFromInt(500),
		TotalBillAmount: decimal.NewFromInt(2000),
		PaymentDate:     "2025-09-01",
	})
	require.NoError(t, err)
	require.NotNil(t, entry)

	assert.Equal(t, enums.PaymentTypeAdvance, entry.PaymentType)
	assert.True(t, entry.Amount.Equal(decimal.NewFromInt(500)))
	assert.True(t, entry.RemainingBalance.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, "2025-09-01", entry.PaymentDate)
	assert.Equal(t, "completed", entry.Status)

	has, err := svc.HasEntry(ctx, 42, enums.PaymentTypeAdvance)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestRecordAdvance_ZeroAmountIsNoOp(t *testing.T) {
	db := setupLedgerTestDB(t)
	svc := newLedgerService(t, db)
	ctx := context.Background()

	entry, err := svc.RecordAdvance(ctx, RecordAdvanceInput{
		OrderID:         7,
		Amount:          decimal.Zero,
		TotalBillAmount: decimal.NewFromInt(900),
	})
	require.NoError(t, err)
	assert.Nil(t, entry)

	has, err := svc.HasEntry(ctx, 7, enums.PaymentTypeAdvance)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRecordAdvance_OverpaymentClampsRemaining(t *testing.T) {
	db := setupLedgerTestDB(t)
	svc := newLedgerService(t, db)

	entry, err := svc.RecordAdvance(context.Background(), RecordAdvanceInput{
		OrderID:         9,
		Amount:          decimal.NewFromInt(2500),
		TotalBillAmount: decimal.NewFromInt(2000),
		PaymentDate:     "2025-09-01",
	})
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.True(t, entry.RemainingBalance.IsZero(), "remaining = %s", entry.RemainingBalance)
}

func TestRecordAdvance_DefaultsToToday(t *testing.T) {
	db := setupLedgerTestDB(t)
	svc := newLedgerService(t, db)

	entry, err := svc.RecordAdvance(context.Background(), RecordAdvanceInput{
		OrderID:         11,
		Amount:          decimal.NewFromInt(100),
		TotalBillAmount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, shopdate.Today(), entry.PaymentDate)
}

func TestRecordFinal(t *testing.T) {
	db := setupLedgerTestDB(t)
	svc := newLedgerService(t, db)
	ctx := context.Background()

	entry, err := svc.RecordFinal(ctx, RecordFinalInput{
		OrderID:         42,
		CustomerName:    "Asha",
		Amount:          decimal.NewFromInt(1500),
		TotalBillAmount: decimal.NewFromInt(2000),
		AdvanceAmount:   decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	require.NotNil(t, entry)

	assert.Equal(t, enums.PaymentTypeFinal, entry.PaymentType)
	assert.True(t, entry.RemainingBalance.IsZero())
	assert.Equal(t, shopdate.Today(), entry.PaymentDate)
	require.NotNil(t, entry.AdvancePaymentAmount)
	assert.True(t, entry.AdvancePaymentAmount.Equal(decimal.NewFromInt(500)))
}

func TestRecordFinal_ZeroRemainingIsNoOp(t *testing.T) {
	db := setupLedgerTestDB(t)
	svc := newLedgerService(t, db)

	entry, err := svc.RecordFinal(context.Background(), RecordFinalInput{
		OrderID:         8,
		Amount:          decimal.Zero,
		TotalBillAmount: decimal.NewFromInt(300),
		AdvanceAmount:   decimal.NewFromInt(300),
	})
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestDuplicateEntryRejectedByUniqueIndex(t *testing.T) {
	db := setupLedgerTestDB(t)
	svc := newLedgerService(t, db)
	ctx := context.Background()

	_, err := svc.RecordAdvance(ctx, RecordAdvanceInput{
		OrderID:         5,
		Amount:          decimal.NewFromInt(100),
		TotalBillAmount: decimal.NewFromInt(400),
		PaymentDate:     "2025-09-01",
	})
	require.NoError(t, err)

	_, err = svc.RecordAdvance(ctx, RecordAdvanceInput{
		OrderID:         5,
		Amount:          decimal.NewFromInt(100),
		TotalBillAmount: decimal.NewFromInt(400),
		PaymentDate:     "2025-09-01",
	})
	assert.Error(t, err)
}

func TestEntriesQueries(t *testing.T) {
	db := setupLedgerTestDB(t)
	svc := newLedgerService(t, db)
	ctx := context.Background()

	seed := []RecordAdvanceInput{
		{OrderID: 1, Amount: decimal.NewFromInt(100), TotalBillAmount: decimal.NewFromInt(500), PaymentDate: "2025-09-01"},
		{OrderID: 2, Amount: decimal.NewFromInt(200), TotalBillAmount: decimal.NewFromInt(600), PaymentDate: "2025-09-02"},
		{OrderID: 3, Amount: decimal.NewFromInt(300), TotalBillAmount: decimal.NewFromInt(700), PaymentDate: "2025-09-05"},
	}
	for _, in := range seed {
		_, err := svc.RecordAdvance(ctx, in)
		require.NoError(t, err)
	}

	on, err := svc.EntriesOn(ctx, "2025-09-02")
	require.NoError(t, err)
	require.Len(t, on, 1)
	assert.Equal(t, int64(2), on[0].OrderID)

	between, err := svc.EntriesBetween(ctx, "2025-09-01", "2025-09-02")
	require.NoError(t, err)
	assert.Len(t, between, 2)

	forOrder, err := svc.EntriesForOrder(ctx, 3)
	require.NoError(t, err)
	require.Len(t, forOrder, 1)
	assert.Equal(t, "2025-09-05", forOrder[0].PaymentDate)
}

func TestAvailableProbe(t *testing.T) {
	db := setupLedgerTestDB(t)
	svc := newLedgerService(t, db)
	assert.Equal(t, AvailabilityAvailable, svc.Available(context.Background()))

	bare, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	bareSvc, err := NewService(NewRepository(bare), nil)
	require.NoError(t, err)
	assert.Equal(t, AvailabilityUnavailable, bareSvc.Available(context.Background()))
}
