package profit

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arjunmehta/stitchbook-backend/internal/expenses"
	"github.com/arjunmehta/stitchbook-backend/internal/ledger"
	"github.com/arjunmehta/stitchbook-backend/internal/orders"
	"github.com/arjunmehta/stitchbook-backend/internal/shopdate"
	"github.com/arjunmehta/stitchbook-backend/pkg/db/models"
	"github.com/arjunmehta/stitchbook-backend/pkg/enums"
)

func setupProfitTestDB(t *testing.T, withLedger bool) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A pooled second connection would see a different in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	statements := []string{`
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
);`, `
CREATE TABLE IF NOT EXISTS Daily_Expenses (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  "Date" TEXT,
  material_cost NUMERIC,
  miscellaneous_Cost NUMERIC,
  chai_pani_cost NUMERIC,
  notes TEXT,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS Worker_Expense (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  worker_id INTEGER,
  worker_name TEXT,
  date TEXT,
  Amt_Paid NUMERIC,
  notes TEXT,
  created_at DATETIME
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

func newCalculator(t *testing.T, db *gorm.DB) (Calculator, ledger.Service, expenses.Service) {
	t.Helper()
	ledgerSvc, err := ledger.NewService(ledger.NewRepository(db), nil)
	require.NoError(t, err)
	expenseSvc, err := expenses.NewService(expenses.NewRepository(db))
	require.NoError(t, err)
	calc, err := NewCalculator(ledgerSvc, expenseSvc, orders.NewRepository(db), nil, nil)
	require.NoError(t, err)
	return calc, ledgerSvc, expenseSvc
}

func strPtr(s string) *string { return &s }

func TestCalculate_TwoStageDaily(t *testing.T) {
	db := setupProfitTestDB(t, true)
	calc, ledgerSvc, expenseSvc := newCalculator(t, db)
	ctx := context.Background()

	// Advance of 500 recognized on day one.
	_, err := ledgerSvc.RecordAdvance(ctx, ledger.RecordAdvanceInput{
		OrderID:         1,
		Amount:          decimal.NewFromInt(500),
		TotalBillAmount: decimal.NewFromInt(1200),
		PaymentDate:     "2025-09-01",
	})
	require.NoError(t, err)

	// Final of 700 recognized today (day seven in the scenario).
	_, err = ledgerSvc.RecordFinal(ctx, ledger.RecordFinalInput{
		OrderID:         1,
		Amount:          decimal.NewFromInt(700),
		TotalBillAmount: decimal.NewFromInt(1200),
		AdvanceAmount:   decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	_, err = expenseSvc.CreateDaily(ctx, expenses.CreateDailyInput{
		Date:         "2025-09-01",
		MaterialCost: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	dayOne, err := calc.Calculate(ctx, strPtr("2025-09-01"))
	require.NoError(t, err)
	assert.Equal(t, enums.CalculationMethodTwoStage, dayOne.Method)
	assert.True(t, dayOne.TotalRevenue.Equal(decimal.NewFromInt(500)))
	assert.True(t, dayOne.NetProfit.Equal(decimal.NewFromInt(400)))
	require.NotNil(t, dayOne.Breakdown)
	assert.True(t, dayOne.Breakdown.AdvancePayments.Equal(decimal.NewFromInt(500)))
	assert.True(t, dayOne.Breakdown.FinalPayments.IsZero())

	today, err := calc.Calculate(ctx, strPtr(shopdate.Today()))
	require.NoError(t, err)
	assert.True(t, today.TotalRevenue.Equal(decimal.NewFromInt(700)))
	require.NotNil(t, today.Breakdown)
	assert.True(t, today.Breakdown.FinalPayments.Equal(decimal.NewFromInt(700)))

	// Day one is unchanged after the final payment was recorded.
	dayOneAgain, err := calc.Calculate(ctx, strPtr("2025-09-01"))
	require.NoError(t, err)
	assert.True(t, dayOneAgain.TotalRevenue.Equal(decimal.NewFromInt(500)))
}

func TestCalculate_TwoStageAllTime(t *testing.T) {
	db := setupProfitTestDB(t, true)
	calc, ledgerSvc, _ := newCalculator(t, db)
	ctx := context.Background()

	_, err := ledgerSvc.RecordAdvance(ctx, ledger.RecordAdvanceInput{
		OrderID:         1,
		Amount:          decimal.NewFromInt(500),
		TotalBillAmount: decimal.NewFromInt(1200),
		PaymentDate:     "2025-09-01",
	})
	require.NoError(t, err)
	_, err = ledgerSvc.RecordFinal(ctx, ledger.RecordFinalInput{
		OrderID:         1,
		Amount:          decimal.NewFromInt(700),
		TotalBillAmount: decimal.NewFromInt(1200),
		AdvanceAmount:   decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	summary, err := calc.Calculate(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, AllTimeLabel, summary.Date)
	assert.Equal(t, enums.CalculationMethodTwoStage, summary.Method)
	assert.True(t, summary.TotalRevenue.Equal(decimal.NewFromInt(1200)))
}

func TestCalculate_LegacyFallbackAllTime(t *testing.T) {
	db := setupProfitTestDB(t, false)
	calc, _, _ := newCalculator(t, db)
	ctx := context.Background()

	// All orders fully paid, none created today.
	for _, total := range []int64{800, 1200} {
		order := &models.Order{
			PaymentStatus: "Paid",
			TotalAmount:   decimal.NewFromInt(total),
			AdvanceAmount: decimal.NewFromInt(total),
			OrderDate:     "2025-08-01",
		}
		require.NoError(t, db.Create(order).Error)
	}

	summary, err := calc.Calculate(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, enums.CalculationMethodLegacy, summary.Method)
	assert.Nil(t, summary.Breakdown)
	assert.True(t, summary.TotalRevenue.Equal(decimal.NewFromInt(2000)), "revenue = %s", summary.TotalRevenue)
}

func TestCalculate_LegacyDaily(t *testing.T) {
	db := setupProfitTestDB(t, false)
	calc, _, _ := newCalculator(t, db)
	ctx := context.Background()

	paidOld := &models.Order{
		PaymentStatus: "paid",
		TotalAmount:   decimal.NewFromInt(900),
		OrderDate:     "2025-08-20",
	}
	require.NoError(t, db.Create(paidOld).Error)
	// Pin the status change to a known shop-local day.
	d1 := time.Date(2025, 9, 1, 10, 0, 0, 0, shopdate.Location)
	require.NoError(t, db.Exec("UPDATE orders SET updated_at = ? WHERE id = ?", d1, paidOld.ID).Error)

	paidOther := &models.Order{
		PaymentStatus: "paid",
		TotalAmount:   decimal.NewFromInt(400),
		OrderDate:     "2025-08-21",
	}
	require.NoError(t, db.Create(paidOther).Error)
	d2 := time.Date(2025, 9, 2, 10, 0, 0, 0, shopdate.Location)
	require.NoError(t, db.Exec("UPDATE orders SET updated_at = ? WHERE id = ?", d2, paidOther.ID).Error)

	// Advance taken on the target day for a still-pending order.
	pendingWithAdvance := &models.Order{
		PaymentStatus: "pending",
		TotalAmount:   decimal.NewFromInt(1000),
		AdvanceAmount: decimal.NewFromInt(200),
		OrderDate:     "2025-09-01",
	}
	require.NoError(t, db.Create(pendingWithAdvance).Error)

	summary, err := calc.Calculate(ctx, strPtr("2025-09-01"))
	require.NoError(t, err)
	assert.Equal(t, enums.CalculationMethodLegacy, summary.Method)
	// 900 from the order marked paid that day plus the 200 advance.
	assert.True(t, summary.TotalRevenue.Equal(decimal.NewFromInt(1100)), "revenue = %s", summary.TotalRevenue)
}

func TestCalculate_ZeroActivityDay(t *testing.T) {
	db := setupProfitTestDB(t, true)
	calc, _, _ := newCalculator(t, db)

	summary, err := calc.Calculate(context.Background(), strPtr("2025-09-03"))
	require.NoError(t, err)
	assert.True(t, summary.TotalRevenue.IsZero())
	assert.True(t, summary.NetProfit.IsZero())
	assert.Equal(t, "2025-09-03", summary.Date)
}

func TestCalculate_InvalidDate(t *testing.T) {
	db := setupProfitTestDB(t, true)
	calc, _, _ := newCalculator(t, db)

	_, err := calc.Calculate(context.Background(), strPtr("not-a-date"))
	require.Error(t, err)
}
