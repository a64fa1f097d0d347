package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockAccountLedger creates a GormAccountLedger with a mocked SQL connection
func newMockAccountLedger(t *testing.T) (*GormAccountLedger, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormAccountLedger(gormDB, nil), mock, mockDB
}

func TestGormAccountLedger_Adjust(t *testing.T) {
	t.Run("moves the balance of a known account", func(t *testing.T) {
		ledger, mock, mockDB := newMockAccountLedger(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		accountID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "name", "serial_no", "current_balance"}).
			AddRow(accountID, tenantID, "Operating", "ACC001", "1000")

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .* FOR UPDATE`).
			WithArgs(tenantID, accountID, 1).
			WillReturnRows(rows)
		mock.ExpectExec(`UPDATE "accounts" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := ledger.Adjust(context.Background(), tenantID, []finance.Adjustment{
			{AccountID: accountID, Amount: decimal.NewFromInt(-300)},
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("skips unknown accounts with a warning", func(t *testing.T) {
		ledger, mock, mockDB := newMockAccountLedger(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE .* FOR UPDATE`).
			WillReturnError(gorm.ErrRecordNotFound)
		mock.ExpectCommit()

		err := ledger.Adjust(context.Background(), uuid.New(), []finance.Adjustment{
			{AccountID: uuid.New(), Amount: decimal.NewFromInt(50)},
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("skips zero adjustments", func(t *testing.T) {
		ledger, mock, mockDB := newMockAccountLedger(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		err := ledger.Adjust(context.Background(), uuid.New(), []finance.Adjustment{
			{AccountID: uuid.New(), Amount: decimal.Zero},
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no-ops on an empty adjustment list", func(t *testing.T) {
		ledger, _, mockDB := newMockAccountLedger(t)
		defer mockDB.Close()

		assert.NoError(t, ledger.Adjust(context.Background(), uuid.New(), nil))
	})
}

func TestGormAccountLedger_Balance(t *testing.T) {
	t.Run("returns the current balance", func(t *testing.T) {
		ledger, mock, mockDB := newMockAccountLedger(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		accountID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "name", "serial_no", "current_balance"}).
			AddRow(accountID, tenantID, "Operating", "ACC001", "750.25")

		mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, accountID, 1).
			WillReturnRows(rows)

		balance, err := ledger.Balance(context.Background(), tenantID, accountID)

		assert.NoError(t, err)
		assert.True(t, balance.Equal(decimal.RequireFromString("750.25")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrAccountNotFound for an unknown account", func(t *testing.T) {
		ledger, mock, mockDB := newMockAccountLedger(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE .*`).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := ledger.Balance(context.Background(), uuid.New(), uuid.New())

		assert.ErrorIs(t, err, finance.ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
