package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	applease "github.com/saifghl/lms/internal/application/lease"
	"github.com/saifghl/lms/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	gormDB, mock, _ := newMockDB(t)
	return &Database{DB: gormDB}, mock
}

func TestDatabase_Ping(t *testing.T) {
	db, mock := newMockDatabase(t)
	mock.ExpectPing()

	assert.NoError(t, db.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Close(t *testing.T) {
	db, mock := newMockDatabase(t)
	mock.ExpectClose()

	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Stats(t *testing.T) {
	db, _ := newMockDatabase(t)

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)
	assert.Equal(t, stats.OpenConnections, stats.InUse+stats.Idle)
}

func TestNewDatabase_SQLite(t *testing.T) {
	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	defer db.Close()

	var fk int
	require.NoError(t, db.DB.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}

func TestNewDatabase_UnknownDriver(t *testing.T) {
	_, err := NewDatabase(&config.DatabaseConfig{Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestWithSQLiteForeignKeys(t *testing.T) {
	assert.Equal(t, "lms.db?_foreign_keys=on", withSQLiteForeignKeys("lms.db"))
	assert.Equal(t, "lms.db?cache=shared&_foreign_keys=on", withSQLiteForeignKeys("lms.db?cache=shared"))
	assert.Equal(t, "lms.db?_fk=1", withSQLiteForeignKeys("lms.db?_fk=1"))
}

func TestGormLeaseTransactionScope_ReleasesOnEarlyReturn(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	scope := NewGormLeaseTransactionScope(gormDB)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := scope.Execute(context.Background(), func(applease.TransactionalRepositories) error {
		return assert.AnError
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormLeaseTransactionScope_CommitsOnSuccess(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	scope := NewGormLeaseTransactionScope(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "units" SET "status"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WithArgs("occupied", sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := scope.Execute(context.Background(), func(repos applease.TransactionalRepositories) error {
		return repos.Occupancy().MarkOccupied(context.Background(), 5)
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
