package expenses

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/arjunmehta/stitchbook-backend/pkg/errors"
)

func setupExpensesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A pooled second connection would see a different in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	daily := `
CREATE TABLE IF NOT EXISTS Daily_Expenses (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  "Date" TEXT,
  material_cost NUMERIC,
  miscellaneous_Cost NUMERIC,
  chai_pani_cost NUMERIC,
  notes TEXT,
  created_at DATETIME
);`
	worker := `
CREATE TABLE IF NOT EXISTS Worker_Expense (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  worker_id INTEGER,
  worker_name TEXT,
  date TEXT,
  Amt_Paid NUMERIC,
  notes TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(daily).Error)
	require.NoError(t, db.Exec(worker).Error)
	return db
}

func newExpensesService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc
}

func TestCreateDaily(t *testing.T) {
	db := setupExpensesTestDB(t)
	svc := newExpensesService(t, db)

	expense, err := svc.CreateDaily(context.Background(), CreateDailyInput{
		Date:              "2025-09-01",
		MaterialCost:      decimal.NewFromInt(250),
		MiscellaneousCost: decimal.NewFromInt(50),
		ChaiPaniCost:      decimal.NewFromInt(30),
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-09-01", expense.Date)
	assert.True(t, expense.Total().Equal(decimal.NewFromInt(330)))
}

func TestCreateDaily_RejectsNegative(t *testing.T) {
	db := setupExpensesTestDB(t)
	svc := newExpensesService(t, db)

	_, err := svc.CreateDaily(context.Background(), CreateDailyInput{
		Date:         "2025-09-01",
		MaterialCost: decimal.NewFromInt(-5),
	})
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestUpdateDaily(t *testing.T) {
	db := setupExpensesTestDB(t)
	svc := newExpensesService(t, db)
	ctx := context.Background()

	expense, err := svc.CreateDaily(ctx, CreateDailyInput{
		Date:         "2025-09-01",
		MaterialCost: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	newMisc := decimal.NewFromInt(40)
	updated, err := svc.UpdateDaily(ctx, expense.ID, UpdateDailyInput{MiscellaneousCost: &newMisc})
	require.NoError(t, err)
	assert.True(t, updated.MaterialCost.Equal(decimal.NewFromInt(100)))
	assert.True(t, updated.MiscellaneousCost.Equal(newMisc))

	_, err = svc.UpdateDaily(ctx, 9999, UpdateDailyInput{})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestWorkerExpenseLifecycle(t *testing.T) {
	db := setupExpensesTestDB(t)
	svc := newExpensesService(t, db)
	ctx := context.Background()

	workerID := int64(3)
	expense, err := svc.CreateWorkerExpense(ctx, CreateWorkerExpenseInput{
		WorkerID:   &workerID,
		WorkerName: "Ravi",
		Date:       "2025-09-02",
		AmountPaid: decimal.NewFromInt(700),
	})
	require.NoError(t, err)

	byWorker, err := svc.ListWorkerExpensesByWorker(ctx, workerID)
	require.NoError(t, err)
	require.Len(t, byWorker, 1)

	require.NoError(t, svc.DeleteWorkerExpense(ctx, expense.ID))
	byWorker, err = svc.ListWorkerExpensesByWorker(ctx, workerID)
	require.NoError(t, err)
	assert.Empty(t, byWorker)
}

func TestCreateWorkerExpense_RequiresPositiveAmount(t *testing.T) {
	db := setupExpensesTestDB(t)
	svc := newExpensesService(t, db)

	_, err := svc.CreateWorkerExpense(context.Background(), CreateWorkerExpenseInput{
		WorkerName: "Ravi",
		AmountPaid: decimal.Zero,
	})
	require.Error(t, err)
}

func TestTotalsBetween(t *testing.T) {
	db := setupExpensesTestDB(t)
	svc := newExpensesService(t, db)
	ctx := context.Background()

	_, err := svc.CreateDaily(ctx, CreateDailyInput{
		Date:              "2025-09-01",
		MaterialCost:      decimal.NewFromInt(200),
		MiscellaneousCost: decimal.NewFromInt(50),
		ChaiPaniCost:      decimal.NewFromInt(25),
	})
	require.NoError(t, err)
	_, err = svc.CreateDaily(ctx, CreateDailyInput{
		Date:         "2025-09-03",
		MaterialCost: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	// Outside the window.
	_, err = svc.CreateDaily(ctx, CreateDailyInput{
		Date:         "2025-09-10",
		MaterialCost: decimal.NewFromInt(999),
	})
	require.NoError(t, err)

	_, err = svc.CreateWorkerExpense(ctx, CreateWorkerExpenseInput{
		WorkerName: "Ravi",
		Date:       "2025-09-02",
		AmountPaid: decimal.NewFromInt(400),
	})
	require.NoError(t, err)

	totals, err := svc.TotalsBetween(ctx, "2025-09-01", "2025-09-07")
	require.NoError(t, err)
	assert.True(t, totals.Daily.Equal(decimal.NewFromInt(375)), "daily = %s", totals.Daily)
	assert.True(t, totals.Worker.Equal(decimal.NewFromInt(400)))
	assert.True(t, totals.Combined.Equal(decimal.NewFromInt(775)))
}

func TestTotalsBetween_InvalidRange(t *testing.T) {
	db := setupExpensesTestDB(t)
	svc := newExpensesService(t, db)

	_, err := svc.TotalsBetween(context.Background(), "2025-09-07", "2025-09-01")
	require.Error(t, err)

	_, err = svc.TotalsBetween(context.Background(), "garbage", "2025-09-01")
	require.Error(t, err)
}
