package measurements

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/arjunmehta/stitchbook-backend/pkg/errors"
)

func setupMeasurementsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A pooled second connection would see a different in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec(`
CREATE TABLE IF NOT EXISTS measurements (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  phone_number TEXT NOT NULL,
  customer_name TEXT,
  pant_measurements TEXT,
  shirt_measurements TEXT,
  extra_measurements TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`).Error)
	return db
}

func newMeasurementsService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc
}

func TestUpsertCreatesThenUpdates(t *testing.T) {
	db := setupMeasurementsTestDB(t)
	svc := newMeasurementsService(t, db)
	ctx := context.Background()

	created, err := svc.Upsert(ctx, UpsertInput{
		PhoneNumber:      " 9876543210 ",
		CustomerName:     "Asha",
		PantMeasurements: `{"waist":32,"length":40}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "9876543210", created.PhoneNumber)

	updated, err := svc.Upsert(ctx, UpsertInput{
		PhoneNumber:       "9876543210",
		CustomerName:      "Asha",
		PantMeasurements:  `{"waist":33,"length":40}`,
		ShirtMeasurements: `{"chest":38}`,
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, `{"waist":33,"length":40}`, updated.PantMeasurements)

	var count int64
	require.NoError(t, db.Table("measurements").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetByPhone(t *testing.T) {
	db := setupMeasurementsTestDB(t)
	svc := newMeasurementsService(t, db)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, UpsertInput{PhoneNumber: "9876543210", CustomerName: "Asha"})
	require.NoError(t, err)

	record, err := svc.GetByPhone(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, "Asha", record.CustomerName)

	_, err = svc.GetByPhone(ctx, "0000000000")
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())

	_, err = svc.GetByPhone(ctx, "  ")
	require.Error(t, err)
}
