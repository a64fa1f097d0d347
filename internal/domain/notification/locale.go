package notification

import (
	"fmt"

	"github.com/erp/backoffice/internal/domain/receipt"
)

// Locale identifies a message catalog
type Locale string

const (
	LocaleZhCN Locale = "zh_CN"
	LocaleEnUS Locale = "en_US"
)

// ParseLocale maps a user language tag to a supported locale,
// defaulting to en_US.
func ParseLocale(tag string) Locale {
	switch tag {
	case "zh_CN", "zh", "zh-CN":
		return LocaleZhCN
	default:
		return LocaleEnUS
	}
}

// Message catalog keys follow "<kind>.<event>".
const (
	EventCreated  = "created"
	EventAudited  = "audited"
	EventExecuted = "executed"
)

// ContentKey builds the catalog key for a document kind and event
func ContentKey(kind receipt.DocumentKind, event string) string {
	return string(kind) + "." + event
}

var kindNames = map[Locale]map[receipt.DocumentKind]string{
	LocaleZhCN: {
		receipt.KindPurchaseOrder:   "采购订单",
		receipt.KindPurchaseStorage: "采购入库单",
		receipt.KindPurchaseRefund:  "采购退货单",
		receipt.KindSaleOrder:       "销售订单",
		receipt.KindSaleShipment:    "销售出库单",
		receipt.KindSaleRefund:      "销售退货单",
	},
	LocaleEnUS: {
		receipt.KindPurchaseOrder:   "purchase order",
		receipt.KindPurchaseStorage: "purchase storage receipt",
		receipt.KindPurchaseRefund:  "purchase refund receipt",
		receipt.KindSaleOrder:       "sale order",
		receipt.KindSaleShipment:    "sale shipment receipt",
		receipt.KindSaleRefund:      "sale refund receipt",
	},
}

var eventTemplates = map[Locale]map[string]string{
	LocaleZhCN: {
		EventCreated:  "您有新的%s %s 待审核",
		EventAudited:  "您的%s %s 已审核通过",
		EventExecuted: "您的%s %s 已执行完毕",
	},
	LocaleEnUS: {
		EventCreated:  "A new %s %s is awaiting review",
		EventAudited:  "Your %s %s has been approved",
		EventExecuted: "Your %s %s has been fulfilled",
	},
}

// Render produces the localized message text for a catalog key. The
// key carries the document kind and event; args is the receipt number.
// Unknown keys fall back to the key itself so nothing is silently lost.
func Render(locale Locale, contentKey, contentArgs string) string {
	templates, ok := eventTemplates[locale]
	if !ok {
		templates = eventTemplates[LocaleEnUS]
		locale = LocaleEnUS
	}
	kind, event, ok := splitKey(contentKey)
	if !ok {
		return contentKey
	}
	template, ok := templates[event]
	if !ok {
		return contentKey
	}
	name, ok := kindNames[locale][kind]
	if !ok {
		return contentKey
	}
	return fmt.Sprintf(template, name, contentArgs)
}

func splitKey(contentKey string) (receipt.DocumentKind, string, bool) {
	for i := len(contentKey) - 1; i >= 0; i-- {
		if contentKey[i] == '.' {
			kind := receipt.DocumentKind(contentKey[:i])
			if !kind.IsValid() {
				return "", "", false
			}
			return kind, contentKey[i+1:], true
		}
	}
	return "", "", false
}
