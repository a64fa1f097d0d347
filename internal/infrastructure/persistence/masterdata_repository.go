package persistence

import (
	"context"
	"errors"

	"github.com/erp/backoffice/internal/domain/masterdata"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMasterDataResolver implements masterdata.Resolver using GORM
type GormMasterDataResolver struct {
	db *gorm.DB
}

// NewGormMasterDataResolver creates a new GormMasterDataResolver
func NewGormMasterDataResolver(db *gorm.DB) *GormMasterDataResolver {
	return &GormMasterDataResolver{db: db}
}

// Counterparty finds a counterparty by ID within a tenant
func (r *GormMasterDataResolver) Counterparty(ctx context.Context, tenantID, id uuid.UUID) (*masterdata.Counterparty, error) {
	var counterparty masterdata.Counterparty
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&counterparty).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &counterparty, nil
}

// Warehouse finds a warehouse by ID within a tenant
func (r *GormMasterDataResolver) Warehouse(ctx context.Context, tenantID, id uuid.UUID) (*masterdata.Warehouse, error) {
	var warehouse masterdata.Warehouse
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&warehouse).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &warehouse, nil
}

// Warehouses returns the warehouses matching the given IDs, keyed by
// ID. Unknown IDs are skipped.
func (r *GormMasterDataResolver) Warehouses(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]masterdata.Warehouse, error) {
	result := make(map[uuid.UUID]masterdata.Warehouse, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var warehouses []masterdata.Warehouse
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&warehouses).Error; err != nil {
		return nil, err
	}
	for _, warehouse := range warehouses {
		result[warehouse.ID] = warehouse
	}
	return result, nil
}

// Sku finds a product SKU by ID within a tenant
func (r *GormMasterDataResolver) Sku(ctx context.Context, tenantID, id uuid.UUID) (*masterdata.ProductSku, error) {
	var sku masterdata.ProductSku
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sku, nil
}

// Skus returns the SKUs matching the given IDs, keyed by ID. Unknown
// IDs are skipped.
func (r *GormMasterDataResolver) Skus(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]masterdata.ProductSku, error) {
	result := make(map[uuid.UUID]masterdata.ProductSku, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var skus []masterdata.ProductSku
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&skus).Error; err != nil {
		return nil, err
	}
	for _, sku := range skus {
		result[sku.ID] = sku
	}
	return result, nil
}

// User finds a user by ID within a tenant
func (r *GormMasterDataResolver) User(ctx context.Context, tenantID, id uuid.UUID) (*masterdata.User, error) {
	var user masterdata.User
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Users returns the users matching the given IDs, keyed by ID. Unknown
// IDs are skipped.
func (r *GormMasterDataResolver) Users(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]masterdata.User, error) {
	result := make(map[uuid.UUID]masterdata.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var users []masterdata.User
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&users).Error; err != nil {
		return nil, err
	}
	for _, user := range users {
		result[user.ID] = user
	}
	return result, nil
}

// Auditors returns the enabled users who review documents
func (r *GormMasterDataResolver) Auditors(ctx context.Context, tenantID uuid.UUID) ([]masterdata.User, error) {
	var users []masterdata.User
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_auditor = ? AND enabled = ?", tenantID, true, true).
		Order("username ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Ensure GormMasterDataResolver implements masterdata.Resolver
var _ masterdata.Resolver = (*GormMasterDataResolver)(nil)
