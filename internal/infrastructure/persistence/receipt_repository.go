package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/backoffice/internal/domain/receipt"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReceiptSequence holds the per-kind counter used when generating
// receipt numbers. Rows are locked for update so concurrent creators
// never see the same value.
type ReceiptSequence struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind      string    `gorm:"type:varchar(30);primaryKey"`
	NextValue int64     `gorm:"not null;default:1"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (ReceiptSequence) TableName() string {
	return "receipt_sequences"
}

// GormReceiptRepository implements receipt.Repository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// Create inserts a header together with its lines
func (r *GormReceiptRepository) Create(ctx context.Context, main *receipt.ReceiptMain, subs []receipt.ReceiptSub) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(main).Error; err != nil {
			return err
		}
		if len(subs) > 0 {
			if err := tx.Create(&subs).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Replace updates a header and swaps its full line set. The old lines
// are removed and the new set inserted, mirroring how document edits
// arrive as a complete replacement.
func (r *GormReceiptRepository) Replace(ctx context.Context, main *receipt.ReceiptMain, subs []receipt.ReceiptSub) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&receipt.ReceiptMain{}).
			Where("tenant_id = ? AND id = ? AND delete_flag = ?", main.TenantID, main.ID, false).
			Select("*").
			Omit("id", "tenant_id", "created_at", "created_by").
			Updates(main)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if err := tx.Where("receipt_id = ?", main.ID).
			Delete(&receipt.ReceiptSub{}).Error; err != nil {
			return err
		}
		if len(subs) > 0 {
			if err := tx.Create(&subs).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SoftDelete flags headers and all of their lines as deleted. Ledger
// entries already applied by the documents are left untouched.
func (r *GormReceiptRepository) SoftDelete(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return shared.ErrInvalidInput
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&receipt.ReceiptMain{}).
			Where("tenant_id = ? AND id IN ? AND delete_flag = ?", tenantID, ids, false).
			Updates(map[string]any{"delete_flag": true, "updated_at": time.Now()})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		return tx.Model(&receipt.ReceiptSub{}).
			Where("receipt_id IN ?", ids).
			Updates(map[string]any{"delete_flag": true, "updated_at": time.Now()}).Error
	})
}

// FindByID finds a live receipt header by its ID within a tenant
func (r *GormReceiptRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*receipt.ReceiptMain, error) {
	var main receipt.ReceiptMain
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ? AND delete_flag = ?", tenantID, id, false).
		First(&main).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &main, nil
}

// FindByNumber finds a live receipt header by its receipt number
func (r *GormReceiptRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, receiptNumber string) (*receipt.ReceiptMain, error) {
	var main receipt.ReceiptMain
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND receipt_number = ? AND delete_flag = ?", tenantID, receiptNumber, false).
		First(&main).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &main, nil
}

// FindSubs returns the live lines of a receipt, oldest first
func (r *GormReceiptRepository) FindSubs(ctx context.Context, tenantID, receiptID uuid.UUID) ([]receipt.ReceiptSub, error) {
	var subs []receipt.ReceiptSub
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND receipt_id = ? AND delete_flag = ?", tenantID, receiptID, false).
		Order("created_at ASC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// FindPage returns a page of live receipt headers matching the params
func (r *GormReceiptRepository) FindPage(ctx context.Context, tenantID uuid.UUID, params receipt.QueryParams, filter shared.Filter) (shared.Paginated[receipt.ReceiptMain], error) {
	base := r.db.WithContext(ctx).Model(&receipt.ReceiptMain{}).
		Where("tenant_id = ? AND delete_flag = ?", tenantID, false)
	base = r.applyParams(base, params)

	var total int64
	if err := r.applyFilterWithoutPagination(base.Session(&gorm.Session{}), filter).
		Count(&total).Error; err != nil {
		return shared.Paginated[receipt.ReceiptMain]{}, err
	}

	var mains []receipt.ReceiptMain
	query := r.applyFilter(base.Session(&gorm.Session{}), filter)
	if err := query.Find(&mains).Error; err != nil {
		return shared.Paginated[receipt.ReceiptMain]{}, err
	}

	page := filter.Page
	pageSize := filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return shared.NewPaginated(mains, total, page, pageSize), nil
}

// UpdateStatus sets the status of the given receipts
func (r *GormReceiptRepository) UpdateStatus(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID, status receipt.Status) error {
	if len(ids) == 0 {
		return shared.ErrInvalidInput
	}
	result := r.db.WithContext(ctx).Model(&receipt.ReceiptMain{}).
		Where("tenant_id = ? AND id IN ? AND delete_flag = ?", tenantID, ids, false).
		Updates(map[string]any{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// NextSequence reserves the next per-kind sequence number. The counter
// row is locked for the duration of the transaction.
func (r *GormReceiptRepository) NextSequence(ctx context.Context, tenantID uuid.UUID, kind receipt.DocumentKind) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq ReceiptSequence
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tenant_id = ? AND kind = ?", tenantID, kind.String()).
			First(&seq).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			seq = ReceiptSequence{TenantID: tenantID, Kind: kind.String(), NextValue: 2}
			value = 1
			return tx.Create(&seq).Error
		}
		if err != nil {
			return err
		}
		value = seq.NextValue
		return tx.Model(&ReceiptSequence{}).
			Where("tenant_id = ? AND kind = ?", tenantID, kind.String()).
			Update("next_value", seq.NextValue+1).Error
	})
	if err != nil {
		return 0, err
	}
	return value, nil
}

// applyParams narrows a listing query by the domain-level params
func (r *GormReceiptRepository) applyParams(query *gorm.DB, params receipt.QueryParams) *gorm.DB {
	if params.Kind != "" {
		query = query.Where("kind = ?", params.Kind)
	}
	if params.ReceiptNumber != "" {
		query = query.Where("receipt_number = ?", params.ReceiptNumber)
	}
	if params.Remark != "" {
		query = query.Where("remark LIKE ?", "%"+params.Remark+"%")
	}
	if params.CounterpartyID != nil {
		query = query.Where("counterparty_id = ?", *params.CounterpartyID)
	}
	if params.CreatedBy != nil {
		query = query.Where("created_by = ?", *params.CreatedBy)
	}
	if params.OperatorID != nil {
		// Operator lists are stored as JSON text.
		query = query.Where("operator_ids LIKE ?", "%"+params.OperatorID.String()+"%")
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	// The date range filters on when the document was entered, not on
	// its business date.
	if params.BeginDate != nil {
		query = query.Where("created_at >= ?", *params.BeginDate)
	}
	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}
	return query
}

// applyFilter applies filter options including pagination to a query
func (r *GormReceiptRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query.Order(filter.OrderClause("created_at DESC"))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormReceiptRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("receipt_number LIKE ? OR remark LIKE ?", searchPattern, searchPattern)
	}
	return query
}

// Ensure GormReceiptRepository implements receipt.Repository
var _ receipt.Repository = (*GormReceiptRepository)(nil)
