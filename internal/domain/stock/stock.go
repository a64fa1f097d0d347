package stock

import (
	"context"

	"github.com/erp/backoffice/internal/domain/receipt"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientStock = shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock for operation")
)

// Record tracks the on-hand quantity of one SKU in one warehouse
type Record struct {
	shared.BaseEntity
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_tenant_wh_sku"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_tenant_wh_sku"`
	SkuID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_tenant_wh_sku"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Record) TableName() string {
	return "stock_records"
}

// NewRecord creates a stock record with zero on-hand quantity
func NewRecord(tenantID, warehouseID, skuID uuid.UUID) *Record {
	return &Record{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		WarehouseID: warehouseID,
		SkuID:       skuID,
		Quantity:    decimal.Zero,
	}
}

// Delta is an aggregated quantity change for one warehouse/SKU pair
type Delta struct {
	WarehouseID uuid.UUID
	SkuID       uuid.UUID
	Quantity    decimal.Decimal
}

// Accumulate folds document lines into one delta per warehouse/SKU
// pair, applying the direction of the document kind. Lines without a
// warehouse are skipped; callers decide whether that deserves a log.
func Accumulate(subs []receipt.ReceiptSub, direction receipt.StockDirection) []Delta {
	if direction == receipt.StockNone {
		return nil
	}
	factor := decimal.NewFromInt(int64(direction))

	type key struct {
		warehouseID uuid.UUID
		skuID       uuid.UUID
	}
	totals := make(map[key]decimal.Decimal)
	order := make([]key, 0, len(subs))
	for _, sub := range subs {
		if sub.WarehouseID == nil || sub.SkuID == uuid.Nil {
			continue
		}
		k := key{warehouseID: *sub.WarehouseID, skuID: sub.SkuID}
		if _, ok := totals[k]; !ok {
			order = append(order, k)
		}
		totals[k] = totals[k].Add(sub.Quantity.Mul(factor))
	}

	deltas := make([]Delta, 0, len(order))
	for _, k := range order {
		deltas = append(deltas, Delta{WarehouseID: k.warehouseID, SkuID: k.skuID, Quantity: totals[k]})
	}
	return deltas
}

// Invert flips the sign of every delta, producing the exact reversal
// of a previously applied set of changes.
func Invert(deltas []Delta) []Delta {
	inverted := make([]Delta, len(deltas))
	for i, d := range deltas {
		inverted[i] = Delta{WarehouseID: d.WarehouseID, SkuID: d.SkuID, Quantity: d.Quantity.Neg()}
	}
	return inverted
}

// Ledger applies aggregated quantity changes to stock records
type Ledger interface {
	// Apply adjusts on-hand quantities by the given deltas, creating
	// records for unseen warehouse/SKU pairs. One write per pair.
	Apply(ctx context.Context, tenantID uuid.UUID, deltas []Delta) error
	// Quantity returns the current on-hand quantity, zero when the
	// pair has no record yet.
	Quantity(ctx context.Context, tenantID, warehouseID, skuID uuid.UUID) (decimal.Decimal, error)
}
