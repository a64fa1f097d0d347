package masterdata

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// CounterpartyKind distinguishes suppliers from customers
type CounterpartyKind string

const (
	KindSupplier CounterpartyKind = "SUPPLIER"
	KindCustomer CounterpartyKind = "CUSTOMER"
)

// Counterparty is a supplier or customer referenced by receipts
type Counterparty struct {
	shared.TenantEntity
	Kind    CounterpartyKind `gorm:"type:varchar(20);not null;index"`
	Name    string           `gorm:"type:varchar(200);not null"`
	Contact string           `gorm:"type:varchar(100)"`
	Phone   string           `gorm:"type:varchar(50)"`
	Enabled bool             `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Counterparty) TableName() string {
	return "counterparties"
}

// Warehouse is a stock location
type Warehouse struct {
	shared.TenantEntity
	Name    string `gorm:"type:varchar(100);not null"`
	Address string `gorm:"type:varchar(200)"`
	Enabled bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// ProductSku is the sellable unit of a product
type ProductSku struct {
	shared.TenantEntity
	ProductName string `gorm:"type:varchar(200);not null"`
	SkuCode     string `gorm:"type:varchar(50);not null;uniqueIndex:idx_sku_tenant_code"`
	Unit        string `gorm:"type:varchar(20)"`
	Enabled     bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductSku) TableName() string {
	return "product_skus"
}

// User is the minimal account record the engine needs: recipients for
// notifications and display names for operators.
type User struct {
	shared.BaseEntity
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Username  string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_user_tenant_name"`
	Realname  string    `gorm:"type:varchar(100)"`
	Language  string    `gorm:"type:varchar(10);not null;default:'en_US'"`
	IsAuditor bool      `gorm:"not null;default:false"`
	Enabled   bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// Resolver looks up master data for display and validation. Lookups by
// unknown ID return shared.ErrNotFound; batch lookups skip unknown IDs.
type Resolver interface {
	Counterparty(ctx context.Context, tenantID, id uuid.UUID) (*Counterparty, error)
	Warehouse(ctx context.Context, tenantID, id uuid.UUID) (*Warehouse, error)
	Warehouses(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]Warehouse, error)
	Sku(ctx context.Context, tenantID, id uuid.UUID) (*ProductSku, error)
	Skus(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]ProductSku, error)
	User(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	Users(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]User, error)
	// Auditors returns the enabled users who review documents.
	Auditors(ctx context.Context, tenantID uuid.UUID) ([]User, error)
}
