package receipt

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/erp/backoffice/internal/domain/attachment"
	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/masterdata"
	"github.com/erp/backoffice/internal/domain/notification"
	"github.com/erp/backoffice/internal/domain/receipt"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/stock"
	"github.com/erp/backoffice/internal/infrastructure/persistence"
)

// MockReceiptRepository is a mock implementation of receipt.Repository
type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) Create(ctx context.Context, main *receipt.ReceiptMain, subs []receipt.ReceiptSub) error {
	args := m.Called(ctx, main, subs)
	return args.Error(0)
}

func (m *MockReceiptRepository) Replace(ctx context.Context, main *receipt.ReceiptMain, subs []receipt.ReceiptSub) error {
	args := m.Called(ctx, main, subs)
	return args.Error(0)
}

func (m *MockReceiptRepository) SoftDelete(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) error {
	args := m.Called(ctx, tenantID, ids)
	return args.Error(0)
}

func (m *MockReceiptRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*receipt.ReceiptMain, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receipt.ReceiptMain), args.Error(1)
}

func (m *MockReceiptRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, receiptNumber string) (*receipt.ReceiptMain, error) {
	args := m.Called(ctx, tenantID, receiptNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receipt.ReceiptMain), args.Error(1)
}

func (m *MockReceiptRepository) FindSubs(ctx context.Context, tenantID, receiptID uuid.UUID) ([]receipt.ReceiptSub, error) {
	args := m.Called(ctx, tenantID, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]receipt.ReceiptSub), args.Error(1)
}

func (m *MockReceiptRepository) FindPage(ctx context.Context, tenantID uuid.UUID, params receipt.QueryParams, filter shared.Filter) (shared.Paginated[receipt.ReceiptMain], error) {
	args := m.Called(ctx, tenantID, params, filter)
	return args.Get(0).(shared.Paginated[receipt.ReceiptMain]), args.Error(1)
}

func (m *MockReceiptRepository) UpdateStatus(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID, status receipt.Status) error {
	args := m.Called(ctx, tenantID, ids, status)
	return args.Error(0)
}

func (m *MockReceiptRepository) NextSequence(ctx context.Context, tenantID uuid.UUID, kind receipt.DocumentKind) (int64, error) {
	args := m.Called(ctx, tenantID, kind)
	return args.Get(0).(int64), args.Error(1)
}

// MockStockLedger is a mock implementation of stock.Ledger
type MockStockLedger struct {
	mock.Mock
}

func (m *MockStockLedger) Apply(ctx context.Context, tenantID uuid.UUID, deltas []stock.Delta) error {
	args := m.Called(ctx, tenantID, deltas)
	return args.Error(0)
}

func (m *MockStockLedger) Quantity(ctx context.Context, tenantID, warehouseID, skuID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, warehouseID, skuID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockAccountLedger is a mock implementation of finance.Ledger
type MockAccountLedger struct {
	mock.Mock
}

func (m *MockAccountLedger) Adjust(ctx context.Context, tenantID uuid.UUID, adjustments []finance.Adjustment) error {
	args := m.Called(ctx, tenantID, adjustments)
	return args.Error(0)
}

func (m *MockAccountLedger) Balance(ctx context.Context, tenantID, accountID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockAccountRepository is a mock implementation of finance.Repository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.Account, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]finance.Account, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[finance.Account], error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(shared.Paginated[finance.Account]), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *finance.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockAttachmentRepository is a mock implementation of attachment.Repository
type MockAttachmentRepository struct {
	mock.Mock
}

func (m *MockAttachmentRepository) Save(ctx context.Context, file *attachment.StoredFile) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *MockAttachmentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*attachment.StoredFile, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attachment.StoredFile), args.Error(1)
}

func (m *MockAttachmentRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]attachment.StoredFile, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]attachment.StoredFile), args.Error(1)
}

func (m *MockAttachmentRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockResolver is a mock implementation of masterdata.Resolver
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Counterparty(ctx context.Context, tenantID, id uuid.UUID) (*masterdata.Counterparty, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*masterdata.Counterparty), args.Error(1)
}

func (m *MockResolver) Warehouse(ctx context.Context, tenantID, id uuid.UUID) (*masterdata.Warehouse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*masterdata.Warehouse), args.Error(1)
}

func (m *MockResolver) Warehouses(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]masterdata.Warehouse, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]masterdata.Warehouse), args.Error(1)
}

func (m *MockResolver) Sku(ctx context.Context, tenantID, id uuid.UUID) (*masterdata.ProductSku, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*masterdata.ProductSku), args.Error(1)
}

func (m *MockResolver) Skus(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]masterdata.ProductSku, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]masterdata.ProductSku), args.Error(1)
}

func (m *MockResolver) User(ctx context.Context, tenantID, id uuid.UUID) (*masterdata.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*masterdata.User), args.Error(1)
}

func (m *MockResolver) Users(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]masterdata.User, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]masterdata.User), args.Error(1)
}

func (m *MockResolver) Auditors(ctx context.Context, tenantID uuid.UUID) ([]masterdata.User, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]masterdata.User), args.Error(1)
}

// MockDispatcher is a mock implementation of notification.Dispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, msg *notification.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockDispatcher) Retract(ctx context.Context, tenantID uuid.UUID, correlationTag string) (int64, error) {
	args := m.Called(ctx, tenantID, correlationTag)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDispatcher) Pending(ctx context.Context, tenantID, recipientID uuid.UUID, limit int) ([]notification.Message, error) {
	args := m.Called(ctx, tenantID, recipientID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notification.Message), args.Error(1)
}

func (m *MockDispatcher) MarkRead(ctx context.Context, tenantID, recipientID, messageID uuid.UUID) error {
	args := m.Called(ctx, tenantID, recipientID, messageID)
	return args.Error(0)
}

// fakeTxManager runs the callback immediately with the given stores,
// standing in for a real transaction in tests.
type fakeTxManager struct {
	stores persistence.Stores
}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context, s persistence.Stores) error) error {
	return fn(ctx, f.stores)
}
