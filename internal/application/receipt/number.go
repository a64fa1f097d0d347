package receipt

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erp/backoffice/internal/domain/receipt"
)

// NumberGenerator produces receipt numbers when the client supplies
// none: kind prefix, date, then a per-kind sequence.
type NumberGenerator struct {
	receipts receipt.Repository
}

// NewNumberGenerator creates a new NumberGenerator
func NewNumberGenerator(receipts receipt.Repository) *NumberGenerator {
	return &NumberGenerator{receipts: receipts}
}

// Generate returns the next receipt number for a kind, e.g.
// CGRK20260829000042.
func (g *NumberGenerator) Generate(ctx context.Context, tenantID uuid.UUID, kind receipt.DocumentKind) (string, error) {
	descriptor, err := receipt.Descriptor(kind)
	if err != nil {
		return "", err
	}
	sequence, err := g.receipts.NextSequence(ctx, tenantID, kind)
	if err != nil {
		return "", fmt.Errorf("failed to reserve receipt sequence: %w", err)
	}
	return fmt.Sprintf("%s%s%06d", descriptor.NumberPrefix, time.Now().Format("20060102"), sequence), nil
}
