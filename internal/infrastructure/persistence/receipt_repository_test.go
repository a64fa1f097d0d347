package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/backoffice/internal/domain/receipt"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockReceiptRepository creates a GormReceiptRepository with a mocked SQL connection
func newMockReceiptRepository(t *testing.T) (*GormReceiptRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormReceiptRepository(gormDB), mock, mockDB
}

func TestNewGormReceiptRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockReceiptRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormReceiptRepository_FindByID(t *testing.T) {
	t.Run("finds live receipt", func(t *testing.T) {
		repo, mock, mockDB := newMockReceiptRepository(t)
		defer mockDB.Close()

		receiptID := uuid.New()
		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "kind", "receipt_number", "status", "delete_flag"}).
			AddRow(receiptID, tenantID, "PURCHASE_STORAGE", "CGRK20260829000001", "UNAUDITED", false)

		mock.ExpectQuery(`SELECT \* FROM "receipt_mains" WHERE tenant_id = \$1 AND id = \$2 AND delete_flag = \$3 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, receiptID, false, 1).
			WillReturnRows(rows)

		main, err := repo.FindByID(context.Background(), tenantID, receiptID)

		assert.NoError(t, err)
		assert.NotNil(t, main)
		assert.Equal(t, receiptID, main.ID)
		assert.Equal(t, receipt.KindPurchaseStorage, main.Kind)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing receipt", func(t *testing.T) {
		repo, mock, mockDB := newMockReceiptRepository(t)
		defer mockDB.Close()

		receiptID := uuid.New()
		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "receipt_mains" WHERE tenant_id = \$1 AND id = \$2 AND delete_flag = \$3 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, receiptID, false, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		main, err := repo.FindByID(context.Background(), tenantID, receiptID)

		assert.Nil(t, main)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormReceiptRepository_FindByNumber(t *testing.T) {
	t.Run("finds receipt by number", func(t *testing.T) {
		repo, mock, mockDB := newMockReceiptRepository(t)
		defer mockDB.Close()

		receiptID := uuid.New()
		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "kind", "receipt_number", "status", "delete_flag"}).
			AddRow(receiptID, tenantID, "SALE_SHIPMENT", "XSCK20260829000007", "AUDITED", false)

		mock.ExpectQuery(`SELECT \* FROM "receipt_mains" WHERE tenant_id = \$1 AND receipt_number = \$2 AND delete_flag = \$3 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, "XSCK20260829000007", false, 1).
			WillReturnRows(rows)

		main, err := repo.FindByNumber(context.Background(), tenantID, "XSCK20260829000007")

		assert.NoError(t, err)
		require.NotNil(t, main)
		assert.Equal(t, "XSCK20260829000007", main.ReceiptNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormReceiptRepository_SoftDelete(t *testing.T) {
	t.Run("flags header and lines in one transaction", func(t *testing.T) {
		repo, mock, mockDB := newMockReceiptRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		receiptID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "receipt_mains" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "receipt_subs" SET`).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		err := repo.SoftDelete(context.Background(), tenantID, []uuid.UUID{receiptID})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when nothing matches", func(t *testing.T) {
		repo, mock, mockDB := newMockReceiptRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "receipt_mains" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.SoftDelete(context.Background(), tenantID, []uuid.UUID{uuid.New()})

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects empty id list", func(t *testing.T) {
		repo, _, mockDB := newMockReceiptRepository(t)
		defer mockDB.Close()

		err := repo.SoftDelete(context.Background(), uuid.New(), nil)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestGormReceiptRepository_UpdateStatus(t *testing.T) {
	t.Run("updates matched receipts", func(t *testing.T) {
		repo, mock, mockDB := newMockReceiptRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectExec(`UPDATE "receipt_mains" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(context.Background(), tenantID, []uuid.UUID{uuid.New()}, receipt.StatusAudited)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when nothing matches", func(t *testing.T) {
		repo, mock, mockDB := newMockReceiptRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "receipt_mains" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(context.Background(), uuid.New(), []uuid.UUID{uuid.New()}, receipt.StatusAudited)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormReceiptRepository_NextSequence(t *testing.T) {
	t.Run("increments existing counter under lock", func(t *testing.T) {
		repo, mock, mockDB := newMockReceiptRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"tenant_id", "kind", "next_value", "updated_at"}).
			AddRow(tenantID, "PURCHASE_STORAGE", int64(42), time.Now())

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "receipt_sequences" WHERE tenant_id = \$1 AND kind = \$2 ORDER BY .* LIMIT .* FOR UPDATE`).
			WithArgs(tenantID, "PURCHASE_STORAGE", 1).
			WillReturnRows(rows)
		mock.ExpectExec(`UPDATE "receipt_sequences" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		value, err := repo.NextSequence(context.Background(), tenantID, receipt.KindPurchaseStorage)

		assert.NoError(t, err)
		assert.Equal(t, int64(42), value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormReceiptRepository_FindPage(t *testing.T) {
	t.Run("counts and pages live receipts", func(t *testing.T) {
		repo, mock, mockDB := newMockReceiptRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		countRows := sqlmock.NewRows([]string{"count"}).AddRow(int64(1))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "receipt_mains" WHERE tenant_id = \$1 AND delete_flag = \$2 AND kind = \$3`).
			WithArgs(tenantID, false, "PURCHASE_STORAGE").
			WillReturnRows(countRows)

		dataRows := sqlmock.NewRows([]string{"id", "tenant_id", "kind", "receipt_number", "status", "delete_flag"}).
			AddRow(uuid.New(), tenantID, "PURCHASE_STORAGE", "CGRK20260829000001", "UNAUDITED", false)
		mock.ExpectQuery(`SELECT \* FROM "receipt_mains" WHERE tenant_id = \$1 AND delete_flag = \$2 AND kind = \$3 ORDER BY created_at DESC LIMIT .*`).
			WithArgs(tenantID, false, "PURCHASE_STORAGE", 20).
			WillReturnRows(dataRows)

		page, err := repo.FindPage(context.Background(), tenantID,
			receipt.QueryParams{Kind: receipt.KindPurchaseStorage},
			shared.Filter{Page: 1, PageSize: 20})

		assert.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "CGRK20260829000001", page.Items[0].ReceiptNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
