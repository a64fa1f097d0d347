package receipt

import (
	"context"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/erp/backoffice/internal/domain/notification"
)

var exportHeaders = map[notification.Locale][]string{
	notification.LocaleEnUS: {
		"Receipt Number", "Counterparty", "Receipt Date", "Operators",
		"Product Count", "Total Amount", "Total Tax", "Payment",
		"Arrears", "Total Payment", "Status", "Remark",
	},
	notification.LocaleZhCN: {
		"单据编号", "往来单位", "单据日期", "经办人",
		"商品数量", "合计金额", "合计税额", "本次付款",
		"欠款金额", "应付总额", "状态", "备注",
	},
}

// exportPageSize bounds how many rows a single listing query assembles
// while exporting.
const exportPageSize = 500

// Export renders the filtered listing to an xlsx workbook with a
// localized header row. The same row model as GetPage backs the sheet;
// the caller's pagination is ignored and every matching row is
// fetched, page by page.
func (p *Processor) Export(ctx context.Context, tenantID uuid.UUID, query PageQuery, locale notification.Locale) (*excelize.File, error) {
	query.Page = 1
	query.PageSize = exportPageSize

	var rows []ListRow
	for {
		page, err := p.GetPage(ctx, tenantID, query)
		if err != nil {
			return nil, err
		}
		rows = append(rows, page.Items...)
		if len(page.Items) < query.PageSize || int64(len(rows)) >= page.Total {
			break
		}
		query.Page++
	}

	headers, ok := exportHeaders[locale]
	if !ok {
		headers = exportHeaders[notification.LocaleEnUS]
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for rowIdx, row := range rows {
		values := []interface{}{
			row.ReceiptNumber,
			row.CounterpartyName,
			row.ReceiptDate.Format("2006-01-02"),
			joinNames(row.OperatorNames),
			row.ProductCount.String(),
			row.TotalAmount.String(),
			row.TotalTax.String(),
			row.PaymentAmount.String(),
			row.ArrearsAmount.String(),
			row.TotalPayment.String(),
			row.Status.String(),
			row.Remark,
		}
		cell, err := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func joinNames(names []string) string {
	result := ""
	for i, name := range names {
		if i > 0 {
			result += ", "
		}
		result += name
	}
	return result
}
