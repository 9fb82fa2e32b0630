package staking

import (
	"testing"
	"time"

	"stakevault/utils"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	return db, mock
}

func onStakeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "package_name", "amount", "daily_roi", "cap",
		"max_earning", "total_earned", "status",
	}).AddRow(42, 7, "Bronze", 100.0, 1.0, 1.8, 180.0, 10.0, "active")
}

const guardedEntryUpdate = `UPDATE .staking_entries. SET .+ WHERE id = \? AND \(last_credited_at IS NULL OR last_credited_at < \?\)`

// A sweep that loaded its snapshot before a concurrent sweep committed must
// not credit the entry a second time: the period predicate on the entry
// update matches no row, the transaction rolls back, and the entry is
// neither credited nor counted as failed.
func TestDistributeDailySkipsEntryCreditedConcurrently(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM .staking_entries. WHERE status IN`).
		WillReturnRows(onStakeRows())
	mock.ExpectBegin()
	mock.ExpectExec(guardedEntryUpdate).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	d := &Distributor{DB: db, Now: func() time.Time {
		return time.Date(2026, 3, 10, 12, 0, 0, 0, utils.BusinessZone)
	}}
	summary := d.DistributeDaily()

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 0, summary.Credited)
	assert.Equal(t, 0, summary.Completed)
	assert.Equal(t, 0, summary.Failed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDistributeDailyCountsUpdateErrorAsFailed(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM .staking_entries. WHERE status IN`).
		WillReturnRows(onStakeRows())
	mock.ExpectBegin()
	mock.ExpectExec(guardedEntryUpdate).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	d := &Distributor{DB: db, Now: func() time.Time {
		return time.Date(2026, 3, 10, 12, 0, 0, 0, utils.BusinessZone)
	}}
	summary := d.DistributeDaily()

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Failed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
