package persistence

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/saifghl/lms/internal/domain/lease"
	"github.com/saifghl/lms/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory SQLite database with the full schema.
// A single connection keeps every query on the same in-memory database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

// newMockDB opens GORM on the postgres dialector backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gormDB, mock, mockDB
}

type fixture struct {
	ProjectID int64
	OwnerID   int64
	TenantID  int64
	TenantB   int64
	UnitIDs   []int64
}

// seedFixture inserts one project with three vacant units, an owner and two tenants
func seedFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	project := &models.ProjectModel{Name: "Phoenix Mall", Location: "Pune"}
	require.NoError(t, db.Create(project).Error)

	owner := &models.OwnerModel{Name: "R. Mehta"}
	require.NoError(t, db.Create(owner).Error)

	tenantA := &models.TenantModel{CompanyName: "Acme Retail"}
	tenantB := &models.TenantModel{CompanyName: "Blue Cafe"}
	require.NoError(t, db.Create(tenantA).Error)
	require.NoError(t, db.Create(tenantB).Error)

	f := fixture{ProjectID: project.ID, OwnerID: owner.ID, TenantID: tenantA.ID, TenantB: tenantB.ID}
	for _, number := range []string{"G-01", "G-02", "F1-10"} {
		u := &models.UnitModel{
			ProjectID:  project.ID,
			UnitNumber: number,
			AreaSqft:   decimal.NewFromInt(1200),
			Status:     "vacant",
		}
		require.NoError(t, db.Create(u).Error)
		f.UnitIDs = append(f.UnitIDs, u.ID)
	}
	return f
}

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

// newTestLease builds a valid draft lease on the fixture's first unit
func newTestLease(t *testing.T, f fixture, escalations ...lease.EscalationInput) *lease.Lease {
	t.Helper()
	l, err := lease.NewLease(lease.CreateInput{
		ProjectID:            f.ProjectID,
		UnitID:               f.UnitIDs[0],
		OwnerID:              &f.OwnerID,
		TenantID:             f.TenantID,
		LeaseStart:           date("2025-01-01"),
		LeaseEnd:             date("2027-12-31"),
		RentCommencementDate: date("2025-02-01"),
		MonthlyRent:          decimal.NewFromInt(50000),
		CamCharges:           decimal.NewFromInt(4000),
		SecurityDeposit:      decimal.NewFromInt(300000),
		LeaseType:            lease.LeaseTypeDirect,
		Escalations:          escalations,
	})
	require.NoError(t, err)
	return l
}

func unitStatus(t *testing.T, db *gorm.DB, unitID int64) string {
	t.Helper()
	var u models.UnitModel
	require.NoError(t, db.First(&u, unitID).Error)
	return u.Status
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func sqlmockResult(rows int64) sql.Result {
	return sqlmock.NewResult(0, rows)
}
