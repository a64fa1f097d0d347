package receipt

// DocumentFamily groups document kinds by business direction
type DocumentFamily string

const (
	FamilyPurchase DocumentFamily = "PURCHASE"
	FamilySale     DocumentFamily = "SALE"
)

// String returns the string representation of DocumentFamily
func (f DocumentFamily) String() string {
	return string(f)
}

// DocumentKind identifies the concrete document type of a receipt
type DocumentKind string

const (
	KindPurchaseOrder   DocumentKind = "PURCHASE_ORDER"
	KindPurchaseStorage DocumentKind = "PURCHASE_STORAGE"
	KindPurchaseRefund  DocumentKind = "PURCHASE_REFUND"
	KindSaleOrder       DocumentKind = "SALE_ORDER"
	KindSaleShipment    DocumentKind = "SALE_SHIPMENT"
	KindSaleRefund      DocumentKind = "SALE_REFUND"
)

// IsValid checks if the kind is a known DocumentKind
func (k DocumentKind) IsValid() bool {
	switch k {
	case KindPurchaseOrder, KindPurchaseStorage, KindPurchaseRefund,
		KindSaleOrder, KindSaleShipment, KindSaleRefund:
		return true
	}
	return false
}

// String returns the string representation of DocumentKind
func (k DocumentKind) String() string {
	return string(k)
}

// StockDirection describes how a document kind moves warehouse stock
type StockDirection int

const (
	StockNone     StockDirection = 0
	StockIncrease StockDirection = 1
	StockDecrease StockDirection = -1
)

// KindDescriptor captures the per-kind behaviour of the engine: which
// family the kind belongs to, how its lines move stock, the sign its
// payment amount carries against the settlement account, and the prefix
// used when generating receipt numbers.
type KindDescriptor struct {
	Kind           DocumentKind
	Family         DocumentFamily
	StockDirection StockDirection
	// BalanceSign is the factor applied to the payment amount when
	// adjusting the settlement account balance. Money paid out
	// (storage, sale refund) carries -1, money received (shipment,
	// purchase refund) carries +1, orders carry 0.
	BalanceSign  int
	NumberPrefix string
	// IsOrder is true for order documents, which never touch stock or
	// account balances and can be linked from execution documents.
	IsOrder bool
}

var kindDescriptors = map[DocumentKind]KindDescriptor{
	KindPurchaseOrder: {
		Kind:           KindPurchaseOrder,
		Family:         FamilyPurchase,
		StockDirection: StockNone,
		BalanceSign:    0,
		NumberPrefix:   "CGDD",
		IsOrder:        true,
	},
	KindPurchaseStorage: {
		Kind:           KindPurchaseStorage,
		Family:         FamilyPurchase,
		StockDirection: StockIncrease,
		BalanceSign:    -1,
		NumberPrefix:   "CGRK",
	},
	KindPurchaseRefund: {
		Kind:           KindPurchaseRefund,
		Family:         FamilyPurchase,
		StockDirection: StockDecrease,
		BalanceSign:    1,
		NumberPrefix:   "CGTH",
	},
	KindSaleOrder: {
		Kind:           KindSaleOrder,
		Family:         FamilySale,
		StockDirection: StockNone,
		BalanceSign:    0,
		NumberPrefix:   "XSDD",
		IsOrder:        true,
	},
	KindSaleShipment: {
		Kind:           KindSaleShipment,
		Family:         FamilySale,
		StockDirection: StockDecrease,
		BalanceSign:    1,
		NumberPrefix:   "XSCK",
	},
	KindSaleRefund: {
		Kind:           KindSaleRefund,
		Family:         FamilySale,
		StockDirection: StockIncrease,
		BalanceSign:    -1,
		NumberPrefix:   "XSTH",
	},
}

// Descriptor returns the behaviour descriptor for a document kind
func Descriptor(kind DocumentKind) (KindDescriptor, error) {
	d, ok := kindDescriptors[kind]
	if !ok {
		return KindDescriptor{}, ErrUnknownKind
	}
	return d, nil
}

// SourceOrderKind returns the order kind an execution document of the
// given kind may link back to, or false if the kind has no source order.
func SourceOrderKind(kind DocumentKind) (DocumentKind, bool) {
	switch kind {
	case KindPurchaseStorage:
		return KindPurchaseOrder, true
	case KindSaleShipment:
		return KindSaleOrder, true
	}
	return "", false
}
