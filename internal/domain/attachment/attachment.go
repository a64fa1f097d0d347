package attachment

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// StoredFile is an uploaded attachment referenced by receipts via
// their FileIDs list. The binary lives in object storage under
// ObjectKey; this row is the metadata.
type StoredFile struct {
	shared.TenantEntity
	Name        string `gorm:"type:varchar(200);not null"`
	ObjectKey   string `gorm:"type:varchar(300);not null"`
	ContentType string `gorm:"type:varchar(100)"`
	Size        int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (StoredFile) TableName() string {
	return "stored_files"
}

// NewStoredFile creates attachment metadata
func NewStoredFile(tenantID uuid.UUID, name, objectKey, contentType string, size int64) (*StoredFile, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if objectKey == "" {
		return nil, shared.NewDomainError("INVALID_OBJECT_KEY", "Object key cannot be empty")
	}
	return &StoredFile{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
		ObjectKey:    objectKey,
		ContentType:  contentType,
		Size:         size,
	}, nil
}

// Repository persists attachment metadata
type Repository interface {
	Save(ctx context.Context, file *StoredFile) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*StoredFile, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]StoredFile, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
