package receipt

import (
	"context"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// QueryParams narrows a paged receipt listing. BeginDate and EndDate
// bound the creation time of the document, inclusively.
type QueryParams struct {
	Kind           DocumentKind
	ReceiptNumber  string
	Remark         string
	CounterpartyID *uuid.UUID
	OperatorID     *uuid.UUID
	CreatedBy      *uuid.UUID
	Status         *Status
	BeginDate      *time.Time
	EndDate        *time.Time
}

// Repository persists receipt headers and lines
type Repository interface {
	// Create inserts a header together with its lines
	Create(ctx context.Context, main *ReceiptMain, subs []ReceiptSub) error
	// Replace updates a header and swaps its full line set
	Replace(ctx context.Context, main *ReceiptMain, subs []ReceiptSub) error
	// SoftDelete flags a header and all of its lines as deleted
	SoftDelete(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ReceiptMain, error)
	FindByNumber(ctx context.Context, tenantID uuid.UUID, receiptNumber string) (*ReceiptMain, error)
	// FindSubs returns the live lines of a receipt
	FindSubs(ctx context.Context, tenantID, receiptID uuid.UUID) ([]ReceiptSub, error)
	FindPage(ctx context.Context, tenantID uuid.UUID, params QueryParams, filter shared.Filter) (shared.Paginated[ReceiptMain], error)
	UpdateStatus(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID, status Status) error
	// NextSequence reserves the next per-kind sequence number used when
	// generating receipt numbers.
	NextSequence(ctx context.Context, tenantID uuid.UUID, kind DocumentKind) (int64, error)
}
