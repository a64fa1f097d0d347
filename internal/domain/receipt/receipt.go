package receipt

import (
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind-level errors
var (
	ErrUnknownKind      = shared.NewDomainError("UNKNOWN_KIND", "Unknown document kind")
	ErrReceiptNotFound  = shared.NewDomainError("RECEIPT_NOT_FOUND", "Receipt not found")
	ErrReceiptImmutable = shared.NewDomainError("RECEIPT_IMMUTABLE", "Receipt cannot be modified in its current status")
)

// ReceiptMain is the header of a business document. Monetary totals of
// the lines are never stored here; they are derived from the subs when
// a document is read back.
type ReceiptMain struct {
	shared.TenantEntity
	Kind          DocumentKind `gorm:"type:varchar(30);not null;index"`
	ReceiptNumber string       `gorm:"type:varchar(50);not null;uniqueIndex:idx_receipt_tenant_number"`
	// InitReceiptNumber keeps the number the document was first created
	// under. It is written once on create and never updated, so a
	// renumbered document stays traceable to its original number.
	InitReceiptNumber string    `gorm:"type:varchar(50)"`
	LinkNumber        string    `gorm:"type:varchar(50);index"` // source order number, empty when standalone
	CounterpartyID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ReceiptDate       time.Time `gorm:"not null;index"`
	OperatorIDs       UUIDList  `gorm:"type:text"`
	// AccountID is the settlement account whose balance the document
	// moves. AccountIDs/AccountAmounts pair by position and break the
	// payment down for reporting; they never move balances themselves.
	AccountID      *uuid.UUID  `gorm:"type:uuid;index"`
	AccountIDs     UUIDList    `gorm:"type:text"`
	AccountAmounts DecimalList `gorm:"type:text"`
	DiscountRate   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	// DiscountLastAmount is the payable total after discount, as
	// entered on the document.
	DiscountLastAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OtherAmount        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Deposit            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	// ChangeAmount is the payment recorded on the document, stored with
	// its ledger sign already applied. Reversal on update and reapply
	// both read this stored value.
	ChangeAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	FileIDs      UUIDList        `gorm:"type:text"`
	Remark       string          `gorm:"type:varchar(500)"`
	Status       Status          `gorm:"type:varchar(30);not null;index"`
	DeleteFlag   bool            `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (ReceiptMain) TableName() string {
	return "receipt_mains"
}

// NewReceiptMain creates a new receipt header in the unaudited state
func NewReceiptMain(tenantID uuid.UUID, kind DocumentKind, receiptNumber string, counterpartyID uuid.UUID, receiptDate time.Time) (*ReceiptMain, error) {
	if !kind.IsValid() {
		return nil, ErrUnknownKind
	}
	if receiptNumber == "" {
		return nil, shared.NewDomainError("INVALID_RECEIPT_NUMBER", "Receipt number cannot be empty")
	}
	if counterpartyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COUNTERPARTY", "Counterparty ID cannot be empty")
	}
	if receiptDate.IsZero() {
		receiptDate = time.Now()
	}

	return &ReceiptMain{
		TenantEntity:      shared.NewTenantEntity(tenantID),
		Kind:              kind,
		ReceiptNumber:     receiptNumber,
		InitReceiptNumber: receiptNumber,
		CounterpartyID:    counterpartyID,
		ReceiptDate:       receiptDate,
		DiscountRate:      decimal.Zero,
		DiscountAmount:    decimal.Zero,
		OtherAmount:       decimal.Zero,
		Deposit:           decimal.Zero,
		ChangeAmount:      decimal.Zero,
		Status:            StatusUnaudited,
	}, nil
}

// SetAccounts records the settlement accounts of the document: the
// account the payment posts against, plus an optional breakdown of how
// the payment splits across accounts. The breakdown pairs account and
// amount by position and is kept for reporting only.
func (r *ReceiptMain) SetAccounts(accountID *uuid.UUID, accountIDs UUIDList, accountAmounts DecimalList) error {
	if len(accountIDs) != len(accountAmounts) {
		return shared.NewDomainError("INVALID_ACCOUNTS", "Account list and amount list must have the same length")
	}
	r.AccountID = accountID
	r.AccountIDs = accountIDs
	r.AccountAmounts = accountAmounts
	return nil
}

// ArrearsAmount returns the amount still owed on the document:
// payable total plus other charges minus the absolute payment recorded.
func (r *ReceiptMain) ArrearsAmount() decimal.Decimal {
	return r.DiscountLastAmount.Add(r.OtherAmount).Sub(r.ChangeAmount.Abs())
}

// CanBeModified reports whether the document still accepts edits
func (r *ReceiptMain) CanBeModified() bool {
	return !r.DeleteFlag && r.Status == StatusUnaudited
}

// MarkDeleted soft-deletes the header
func (r *ReceiptMain) MarkDeleted() {
	r.DeleteFlag = true
	r.UpdatedAt = time.Now()
}

// ReceiptSub is a single line of a business document
type ReceiptSub struct {
	shared.BaseEntity
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	ReceiptID uuid.UUID `gorm:"type:uuid;not null;index"`
	SkuID     uuid.UUID `gorm:"type:uuid;not null;index"`
	// WarehouseID is nil on order lines, which reserve no stock.
	WarehouseID *uuid.UUID      `gorm:"type:uuid;index"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Remark      string          `gorm:"type:varchar(500)"`
	DeleteFlag  bool            `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (ReceiptSub) TableName() string {
	return "receipt_subs"
}

// NewReceiptSub creates a new document line
func NewReceiptSub(tenantID, receiptID, skuID uuid.UUID, warehouseID *uuid.UUID, quantity, unitPrice decimal.Decimal) (*ReceiptSub, error) {
	if skuID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &ReceiptSub{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		ReceiptID:   receiptID,
		SkuID:       skuID,
		WarehouseID: warehouseID,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      quantity.Mul(unitPrice).Round(4),
		TaxRate:     decimal.Zero,
		TaxAmount:   decimal.Zero,
		TaxTotal:    decimal.Zero,
	}, nil
}

// SetTax records tax figures on the line
func (s *ReceiptSub) SetTax(rate, amount, total decimal.Decimal) {
	s.TaxRate = rate
	s.TaxAmount = amount
	s.TaxTotal = total
}

// TotalAmount sums the line amounts of a document. Header totals are
// always derived this way rather than read from a stored column.
func TotalAmount(subs []ReceiptSub) decimal.Decimal {
	total := decimal.Zero
	for _, sub := range subs {
		total = total.Add(sub.Amount)
	}
	return total
}

// TotalTax sums the line tax amounts of a document
func TotalTax(subs []ReceiptSub) decimal.Decimal {
	total := decimal.Zero
	for _, sub := range subs {
		total = total.Add(sub.TaxAmount)
	}
	return total
}
