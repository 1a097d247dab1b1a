package persistence

import (
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
		sqlmock.MonitorPingsOption(true),
	)
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 mockDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)

	return &Database{DB: db}, mock
}

func TestDatabase_Ping(t *testing.T) {
	db, mock := newMockDatabase(t)
	mock.ExpectPing()

	assert.NoError(t, db.Ping())
}

func TestDatabase_Stats(t *testing.T) {
	db, _ := newMockDatabase(t)

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)
}

func TestDatabase_Transaction_RollsBackOnError(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	wantErr := errors.New("posting rejected")
	err := db.Transaction(func(tx *gorm.DB) error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Transaction_Commits(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := db.Transaction(func(tx *gorm.DB) error { return nil })
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, GormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, GormLogLevel("info"))
	assert.Equal(t, gormlogger.Error, GormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, GormLogLevel(""))
}
