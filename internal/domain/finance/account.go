package finance

import (
	"context"

	"github.com/erp/backoffice/internal/domain/receipt"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrAccountNotFound = shared.NewDomainError("ACCOUNT_NOT_FOUND", "Settlement account not found")
)

// Account is a settlement account whose balance moves with payments
// recorded on execution documents
type Account struct {
	shared.TenantEntity
	Name           string          `gorm:"type:varchar(100);not null"`
	SerialNo       string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_account_tenant_serial"`
	InitialBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Remark         string          `gorm:"type:varchar(500)"`
	Enabled        bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Account) TableName() string {
	return "accounts"
}

// NewAccount creates a settlement account
func NewAccount(tenantID uuid.UUID, name, serialNo string, initialBalance decimal.Decimal) (*Account, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	if serialNo == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_SERIAL", "Account serial number cannot be empty")
	}
	return &Account{
		TenantEntity:   shared.NewTenantEntity(tenantID),
		Name:           name,
		SerialNo:       serialNo,
		InitialBalance: initialBalance,
		CurrentBalance: initialBalance,
		Enabled:        true,
	}, nil
}

// Adjustment is a signed balance change against one account
type Adjustment struct {
	AccountID uuid.UUID
	Amount    decimal.Decimal
}

// Adjustments derives the balance change a receipt header carries. The
// stored payment already has its ledger sign applied, so applying a
// header adds it and reversing subtracts it. Only the primary account
// moves; the split breakdown on the header is a reporting detail and
// never reaches a balance.
func Adjustments(main *receipt.ReceiptMain) []Adjustment {
	if main == nil {
		return nil
	}
	if main.AccountID != nil && !main.ChangeAmount.IsZero() {
		return []Adjustment{{AccountID: *main.AccountID, Amount: main.ChangeAmount}}
	}
	return nil
}

// Invert flips the sign of every adjustment
func Invert(adjustments []Adjustment) []Adjustment {
	inverted := make([]Adjustment, len(adjustments))
	for i, a := range adjustments {
		inverted[i] = Adjustment{AccountID: a.AccountID, Amount: a.Amount.Neg()}
	}
	return inverted
}

// Ledger applies balance adjustments to settlement accounts
type Ledger interface {
	// Adjust moves account balances by the given signed amounts.
	// Unknown accounts are skipped, never created.
	Adjust(ctx context.Context, tenantID uuid.UUID, adjustments []Adjustment) error
	// Balance returns an account's current balance
	Balance(ctx context.Context, tenantID, accountID uuid.UUID) (decimal.Decimal, error)
}

// Repository reads settlement account master data
type Repository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Account, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Account, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[Account], error)
	Save(ctx context.Context, account *Account) error
}
