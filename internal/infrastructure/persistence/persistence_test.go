package persistence

import (
	"testing"

	"github.com/dms/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_"+t.Name()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.TripCategoryModel{},
		&models.AllowanceModel{},
		&models.RemunerationModel{},
		&models.TripModel{},
		&models.ExpenseModel{},
		&models.PaymentModel{},
		&models.ExpenditureModel{},
		&models.JournalTypeModel{},
		&models.TransactionModel{},
	))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}
