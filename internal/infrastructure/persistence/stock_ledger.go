package persistence

import (
	"context"
	"errors"

	"github.com/erp/backoffice/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockLedger implements stock.Ledger using GORM
type GormStockLedger struct {
	db *gorm.DB
}

// NewGormStockLedger creates a new GormStockLedger
func NewGormStockLedger(db *gorm.DB) *GormStockLedger {
	return &GormStockLedger{db: db}
}

// Apply accumulates the deltas into the per-warehouse balances. Rows
// are locked for update so concurrent documents against the same SKU
// serialize instead of losing increments. Missing rows are created on
// first touch.
func (l *GormStockLedger) Apply(ctx context.Context, tenantID uuid.UUID, deltas []stock.Delta) error {
	if len(deltas) == 0 {
		return nil
	}
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, delta := range deltas {
			if delta.Quantity.IsZero() {
				continue
			}
			var record stock.Record
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("tenant_id = ? AND warehouse_id = ? AND sku_id = ?",
					tenantID, delta.WarehouseID, delta.SkuID).
				First(&record).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				record = *stock.NewRecord(tenantID, delta.WarehouseID, delta.SkuID)
				record.Quantity = delta.Quantity
				if err := tx.Create(&record).Error; err != nil {
					return err
				}
				continue
			}
			if err != nil {
				return err
			}
			if err := tx.Model(&stock.Record{}).
				Where("id = ?", record.ID).
				Update("quantity", record.Quantity.Add(delta.Quantity)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Quantity returns the current balance for a warehouse/SKU pair. A pair
// the ledger has never seen reads as zero.
func (l *GormStockLedger) Quantity(ctx context.Context, tenantID, warehouseID, skuID uuid.UUID) (decimal.Decimal, error) {
	var record stock.Record
	err := l.db.WithContext(ctx).
		Where("tenant_id = ? AND warehouse_id = ? AND sku_id = ?", tenantID, warehouseID, skuID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return record.Quantity, nil
}

// Ensure GormStockLedger implements stock.Ledger
var _ stock.Ledger = (*GormStockLedger)(nil)
