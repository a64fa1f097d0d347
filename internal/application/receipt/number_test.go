package receipt

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/backoffice/internal/domain/receipt"
	"github.com/erp/backoffice/internal/domain/shared"
)

func TestNumberGeneratorGenerate(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("combines prefix, date, and padded sequence", func(t *testing.T) {
		repo := new(MockReceiptRepository)
		repo.On("NextSequence", ctx, tenantID, receipt.KindSaleShipment).Return(int64(42), nil)

		number, err := NewNumberGenerator(repo).Generate(ctx, tenantID, receipt.KindSaleShipment)

		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("XSCK%s000042", time.Now().Format("20060102")), number)
		repo.AssertExpectations(t)
	})

	t.Run("rejects unknown kinds", func(t *testing.T) {
		repo := new(MockReceiptRepository)

		_, err := NewNumberGenerator(repo).Generate(ctx, tenantID, receipt.DocumentKind("BOGUS"))

		assert.ErrorIs(t, err, receipt.ErrUnknownKind)
		repo.AssertNotCalled(t, "NextSequence", ctx, tenantID, receipt.DocumentKind("BOGUS"))
	})

	t.Run("wraps sequence failures", func(t *testing.T) {
		repo := new(MockReceiptRepository)
		repo.On("NextSequence", ctx, tenantID, receipt.KindPurchaseRefund).Return(int64(0), shared.ErrOperationFailed)

		_, err := NewNumberGenerator(repo).Generate(ctx, tenantID, receipt.KindPurchaseRefund)

		assert.ErrorIs(t, err, shared.ErrOperationFailed)
	})
}
