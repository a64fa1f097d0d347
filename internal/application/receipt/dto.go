package receipt

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/backoffice/internal/domain/receipt"
)

// Actor identifies the user performing an operation, as extracted from
// the authenticated request.
type Actor struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Language string
}

// LineInput is one document line as submitted by the client
type LineInput struct {
	SkuID       uuid.UUID       `json:"sku_id"`
	WarehouseID *uuid.UUID      `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	TaxTotal    decimal.Decimal `json:"tax_total"`
	Remark      string          `json:"remark"`
}

// ReceiptInput is the add-or-update payload for one document. Amounts
// arrive unsigned; the processor applies the kind's ledger sign before
// anything is stored.
type ReceiptInput struct {
	ID             *uuid.UUID        `json:"id"`
	ReceiptNumber  string            `json:"receipt_number"`
	LinkNumber     string            `json:"link_number"`
	CounterpartyID uuid.UUID         `json:"counterparty_id"`
	ReceiptDate    time.Time         `json:"receipt_date"`
	OperatorIDs    []uuid.UUID       `json:"operator_ids"`
	AccountID      *uuid.UUID        `json:"account_id"`
	AccountIDs     []uuid.UUID       `json:"account_ids"`
	AccountAmounts []decimal.Decimal `json:"account_amounts"`
	DiscountRate   decimal.Decimal   `json:"discount_rate"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	// DiscountLastAmount is the payable total after discount.
	DiscountLastAmount decimal.Decimal `json:"discount_last_amount"`
	OtherAmount        decimal.Decimal `json:"other_amount"`
	Deposit            decimal.Decimal `json:"deposit"`
	// ChangeAmount is the payment made or collected on this document.
	ChangeAmount decimal.Decimal `json:"change_amount"`
	FileIDs      []uuid.UUID     `json:"file_ids"`
	Remark       string          `json:"remark"`
	Lines        []LineInput     `json:"lines"`
}

// LineDetail is one document line enriched with live master data
type LineDetail struct {
	ID            uuid.UUID       `json:"id"`
	SkuID         uuid.UUID       `json:"sku_id"`
	ProductName   string          `json:"product_name"`
	SkuCode       string          `json:"sku_code"`
	Unit          string          `json:"unit"`
	WarehouseID   *uuid.UUID      `json:"warehouse_id"`
	WarehouseName string          `json:"warehouse_name"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Amount        decimal.Decimal `json:"amount"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	TaxTotal      decimal.Decimal `json:"tax_total"`
	Remark        string          `json:"remark"`
}

// AttachmentDetail is the metadata of one attached file
type AttachmentDetail struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
}

// Detail is the full read model of one document. Display fields are
// resolved live at read time, never persisted redundantly.
type Detail struct {
	ID                 uuid.UUID            `json:"id"`
	Kind               receipt.DocumentKind `json:"kind"`
	ReceiptNumber      string               `json:"receipt_number"`
	LinkNumber         string               `json:"link_number"`
	CounterpartyID     uuid.UUID            `json:"counterparty_id"`
	CounterpartyName   string               `json:"counterparty_name"`
	ReceiptDate        time.Time            `json:"receipt_date"`
	OperatorIDs        []uuid.UUID          `json:"operator_ids"`
	OperatorNames      []string             `json:"operator_names"`
	AccountDisplay     string               `json:"account_display"`
	DiscountRate       decimal.Decimal      `json:"discount_rate"`
	DiscountAmount     decimal.Decimal      `json:"discount_amount"`
	DiscountLastAmount decimal.Decimal      `json:"discount_last_amount"`
	OtherAmount        decimal.Decimal      `json:"other_amount"`
	Deposit            decimal.Decimal      `json:"deposit"`
	ChangeAmount       decimal.Decimal      `json:"change_amount"`
	ArrearsAmount      decimal.Decimal      `json:"arrears_amount"`
	TotalAmount        decimal.Decimal      `json:"total_amount"`
	TotalTax           decimal.Decimal      `json:"total_tax"`
	Status             receipt.Status       `json:"status"`
	Remark             string               `json:"remark"`
	Lines              []LineDetail         `json:"lines"`
	Attachments        []AttachmentDetail   `json:"attachments"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

// ListRow is one row of a document listing with derived totals
type ListRow struct {
	ID               uuid.UUID            `json:"id"`
	Kind             receipt.DocumentKind `json:"kind"`
	ReceiptNumber    string               `json:"receipt_number"`
	CounterpartyName string               `json:"counterparty_name"`
	ReceiptDate      time.Time            `json:"receipt_date"`
	OperatorNames    []string             `json:"operator_names"`
	ProductCount     decimal.Decimal      `json:"product_count"`
	TotalAmount      decimal.Decimal      `json:"total_amount"`
	TotalTax         decimal.Decimal      `json:"total_tax"`
	// PaymentAmount is the money moved by this document, always shown
	// unsigned.
	PaymentAmount decimal.Decimal `json:"payment_amount"`
	ArrearsAmount decimal.Decimal `json:"arrears_amount"`
	// TotalPayment is arrears plus the payment already made.
	TotalPayment decimal.Decimal `json:"total_payment"`
	Status       receipt.Status  `json:"status"`
	Remark       string          `json:"remark"`
	CreatedAt    time.Time       `json:"created_at"`
}

// PageQuery combines document filters with pagination for listings
type PageQuery struct {
	ReceiptNumber  string
	Remark         string
	CounterpartyID *uuid.UUID
	OperatorID     *uuid.UUID
	CreatedBy      *uuid.UUID
	Status         *receipt.Status
	BeginDate      *time.Time
	EndDate        *time.Time
	Page           int
	PageSize       int
}
