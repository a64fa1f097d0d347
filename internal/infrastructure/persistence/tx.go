package persistence

import (
	"context"

	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/receipt"
	"github.com/erp/backoffice/internal/domain/stock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Stores bundles the repositories a document write touches, all bound
// to the same transaction.
type Stores struct {
	Receipts receipt.Repository
	Stock    stock.Ledger
	Accounts finance.Ledger
}

// TxManager runs a function with transaction-bound stores so a header
// write and its ledger postings commit or roll back together.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}

// GormTxManager implements TxManager on a GORM connection
type GormTxManager struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormTxManager creates a new GormTxManager
func NewGormTxManager(db *gorm.DB, logger *zap.Logger) *GormTxManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormTxManager{db: db, logger: logger}
}

// Do opens a transaction and hands the callback stores bound to it.
// Returning an error rolls everything back.
func (m *GormTxManager) Do(ctx context.Context, fn func(ctx context.Context, s Stores) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stores := Stores{
			Receipts: NewGormReceiptRepository(tx),
			Stock:    NewGormStockLedger(tx),
			Accounts: NewGormAccountLedger(tx, m.logger),
		}
		return fn(ctx, stores)
	})
}

// Ensure GormTxManager implements TxManager
var _ TxManager = (*GormTxManager)(nil)
