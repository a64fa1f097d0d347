package persistence

import (
	"context"
	"errors"

	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAccountLedger implements finance.Ledger using GORM
type GormAccountLedger struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormAccountLedger creates a new GormAccountLedger
func NewGormAccountLedger(db *gorm.DB, logger *zap.Logger) *GormAccountLedger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormAccountLedger{db: db, logger: logger}
}

// Adjust moves account balances by the given signed amounts. The rows
// are locked for update. An adjustment against an unknown account is
// skipped with a warning rather than failing the batch.
func (l *GormAccountLedger) Adjust(ctx context.Context, tenantID uuid.UUID, adjustments []finance.Adjustment) error {
	if len(adjustments) == 0 {
		return nil
	}
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, adj := range adjustments {
			if adj.Amount.IsZero() {
				continue
			}
			var account finance.Account
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("tenant_id = ? AND id = ?", tenantID, adj.AccountID).
				First(&account).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				l.logger.Warn("skipping balance adjustment for unknown account",
					zap.String("account_id", adj.AccountID.String()),
					zap.String("tenant_id", tenantID.String()))
				continue
			}
			if err != nil {
				return err
			}
			if err := tx.Model(&finance.Account{}).
				Where("id = ?", account.ID).
				Update("current_balance", account.CurrentBalance.Add(adj.Amount)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Balance returns an account's current balance
func (l *GormAccountLedger) Balance(ctx context.Context, tenantID, accountID uuid.UUID) (decimal.Decimal, error) {
	var account finance.Account
	err := l.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, accountID).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, finance.ErrAccountNotFound
	}
	if err != nil {
		return decimal.Zero, err
	}
	return account.CurrentBalance, nil
}

// GormAccountRepository implements finance.Repository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds an account by its ID within a tenant
func (r *GormAccountRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.Account, error) {
	var account finance.Account
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, finance.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindByIDs returns the accounts matching the given IDs. Unknown IDs
// are skipped rather than reported.
func (r *GormAccountRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]finance.Account, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var accounts []finance.Account
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// FindAll returns a page of accounts for a tenant
func (r *GormAccountRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[finance.Account], error) {
	base := r.db.WithContext(ctx).Model(&finance.Account{}).
		Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		base = base.Where("name LIKE ? OR serial_no LIKE ?", searchPattern, searchPattern)
	}
	if enabled, ok := filter.Filters["enabled"].(bool); ok {
		base = base.Where("enabled = ?", enabled)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return shared.Paginated[finance.Account]{}, err
	}

	page := filter.Page
	pageSize := filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	paged := shared.Filter{Page: page, PageSize: pageSize, OrderBy: filter.OrderBy, OrderDir: filter.OrderDir}
	query := base.Session(&gorm.Session{}).
		Offset(paged.Offset()).Limit(pageSize).
		Order(paged.OrderClause("serial_no ASC"))

	var accounts []finance.Account
	if err := query.Find(&accounts).Error; err != nil {
		return shared.Paginated[finance.Account]{}, err
	}
	return shared.NewPaginated(accounts, total, page, pageSize), nil
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, account *finance.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

// Ensure the GORM implementations satisfy the finance interfaces
var (
	_ finance.Ledger     = (*GormAccountLedger)(nil)
	_ finance.Repository = (*GormAccountRepository)(nil)
)
