package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockTxManager(t *testing.T) (*GormTransactionManager, *gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormTransactionManager(gormDB), gormDB, mock, mockDB
}

func TestGormTransactionManager_InTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("commits when the callback succeeds", func(t *testing.T) {
		manager, db, mock, sqlDB := newMockTxManager(t)
		defer sqlDB.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "users"`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := manager.InTransaction(ctx, func(txCtx context.Context) error {
			return DBFrom(txCtx, db).Exec(`UPDATE "users" SET credits = credits`).Error
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the callback fails", func(t *testing.T) {
		manager, db, mock, sqlDB := newMockTxManager(t)
		defer sqlDB.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "users"`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectRollback()

		err := manager.InTransaction(ctx, func(txCtx context.Context) error {
			if execErr := DBFrom(txCtx, db).Exec(`UPDATE "users" SET credits = credits`).Error; execErr != nil {
				return execErr
			}
			return assert.AnError
		})

		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("context without a transaction falls back to the base handle", func(t *testing.T) {
		_, db, _, sqlDB := newMockTxManager(t)
		defer sqlDB.Close()

		handle := DBFrom(ctx, db)
		require.NotNil(t, handle)
	})
}
