// Package storage provides object storage implementations for receipt
// attachments.
package storage

import (
	"context"
	"time"
)

// ObjectStorage abstracts the attachment object store. Receipts
// reference attachments by metadata rows; the binaries live behind
// this interface.
type ObjectStorage interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}
