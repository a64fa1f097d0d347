package persistence

import (
	"context"
	"errors"

	"github.com/erp/backoffice/internal/domain/attachment"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAttachmentRepository implements attachment.Repository using GORM
type GormAttachmentRepository struct {
	db *gorm.DB
}

// NewGormAttachmentRepository creates a new GormAttachmentRepository
func NewGormAttachmentRepository(db *gorm.DB) *GormAttachmentRepository {
	return &GormAttachmentRepository{db: db}
}

// Save creates or updates a stored file record
func (r *GormAttachmentRepository) Save(ctx context.Context, file *attachment.StoredFile) error {
	return r.db.WithContext(ctx).Save(file).Error
}

// FindByID finds a stored file by its ID within a tenant
func (r *GormAttachmentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*attachment.StoredFile, error) {
	var file attachment.StoredFile
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &file, nil
}

// FindByIDs returns the stored files matching the given IDs. Unknown
// IDs are skipped.
func (r *GormAttachmentRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]attachment.StoredFile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var files []attachment.StoredFile
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

// Delete removes a stored file record
func (r *GormAttachmentRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&attachment.StoredFile{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormAttachmentRepository implements attachment.Repository
var _ attachment.Repository = (*GormAttachmentRepository)(nil)
