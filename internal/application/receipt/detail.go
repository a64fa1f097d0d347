package receipt

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/erp/backoffice/internal/domain/receipt"
	"github.com/erp/backoffice/internal/domain/shared"
)

// GetDetail assembles the full read model of one document
func (p *Processor) GetDetail(ctx context.Context, tenantID, id uuid.UUID) (*Detail, error) {
	main, err := p.receipts.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return p.assembleDetail(ctx, tenantID, main)
}

// GetDetailByNumber assembles the read model of a document found by its
// receipt number.
func (p *Processor) GetDetailByNumber(ctx context.Context, tenantID uuid.UUID, receiptNumber string) (*Detail, error) {
	main, err := p.receipts.FindByNumber(ctx, tenantID, receiptNumber)
	if err != nil {
		return nil, err
	}
	return p.assembleDetail(ctx, tenantID, main)
}

func (p *Processor) assembleDetail(ctx context.Context, tenantID uuid.UUID, main *receipt.ReceiptMain) (*Detail, error) {
	if main.Kind != p.descriptor.Kind {
		return nil, shared.ErrNotFound
	}
	subs, err := p.receipts.FindSubs(ctx, tenantID, main.ID)
	if err != nil {
		return nil, err
	}

	lines, err := p.assembleLines(ctx, tenantID, subs)
	if err != nil {
		return nil, err
	}

	detail := &Detail{
		ID:                 main.ID,
		Kind:               main.Kind,
		ReceiptNumber:      main.ReceiptNumber,
		LinkNumber:         main.LinkNumber,
		CounterpartyID:     main.CounterpartyID,
		CounterpartyName:   p.counterpartyName(ctx, tenantID, main.CounterpartyID),
		ReceiptDate:        main.ReceiptDate,
		OperatorIDs:        main.OperatorIDs,
		OperatorNames:      p.operatorNames(ctx, tenantID, main.OperatorIDs),
		AccountDisplay:     p.accountDisplay(ctx, tenantID, main),
		DiscountRate:       main.DiscountRate,
		DiscountAmount:     main.DiscountAmount,
		DiscountLastAmount: main.DiscountLastAmount,
		OtherAmount:        main.OtherAmount,
		Deposit:            main.Deposit,
		ChangeAmount:       main.ChangeAmount,
		ArrearsAmount:      main.ArrearsAmount(),
		TotalAmount:        receipt.TotalAmount(subs),
		TotalTax:           receipt.TotalTax(subs),
		Status:             main.Status,
		Remark:             main.Remark,
		Lines:              lines,
		CreatedAt:          main.CreatedAt,
		UpdatedAt:          main.UpdatedAt,
	}

	if len(main.FileIDs) > 0 {
		files, err := p.files.FindByIDs(ctx, tenantID, main.FileIDs)
		if err != nil {
			return nil, err
		}
		detail.Attachments = make([]AttachmentDetail, 0, len(files))
		for _, file := range files {
			detail.Attachments = append(detail.Attachments, AttachmentDetail{
				ID:          file.ID,
				Name:        file.Name,
				ContentType: file.ContentType,
				Size:        file.Size,
			})
		}
	}
	return detail, nil
}

// assembleLines resolves live SKU, warehouse, and stock display fields
// for every line. A line whose SKU or warehouse no longer resolves
// keeps its identifiers with empty display fields.
func (p *Processor) assembleLines(ctx context.Context, tenantID uuid.UUID, subs []receipt.ReceiptSub) ([]LineDetail, error) {
	skuIDs := make([]uuid.UUID, 0, len(subs))
	warehouseIDs := make([]uuid.UUID, 0, len(subs))
	for _, sub := range subs {
		skuIDs = append(skuIDs, sub.SkuID)
		if sub.WarehouseID != nil {
			warehouseIDs = append(warehouseIDs, *sub.WarehouseID)
		}
	}
	skus, err := p.resolver.Skus(ctx, tenantID, skuIDs)
	if err != nil {
		return nil, err
	}
	warehouses, err := p.resolver.Warehouses(ctx, tenantID, warehouseIDs)
	if err != nil {
		return nil, err
	}

	lines := make([]LineDetail, 0, len(subs))
	for _, sub := range subs {
		line := LineDetail{
			ID:          sub.ID,
			SkuID:       sub.SkuID,
			WarehouseID: sub.WarehouseID,
			Quantity:    sub.Quantity,
			UnitPrice:   sub.UnitPrice,
			Amount:      sub.Amount,
			TaxRate:     sub.TaxRate,
			TaxAmount:   sub.TaxAmount,
			TaxTotal:    sub.TaxTotal,
			Remark:      sub.Remark,
		}
		if sku, ok := skus[sub.SkuID]; ok {
			line.ProductName = sku.ProductName
			line.SkuCode = sku.SkuCode
			line.Unit = sku.Unit
		}
		if sub.WarehouseID != nil {
			if warehouse, ok := warehouses[*sub.WarehouseID]; ok {
				line.WarehouseName = warehouse.Name
			}
			quantity, err := p.stocks.Quantity(ctx, tenantID, *sub.WarehouseID, sub.SkuID)
			if err != nil {
				return nil, err
			}
			line.CurrentStock = quantity
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// GetPage returns a filtered page of list rows with derived totals
func (p *Processor) GetPage(ctx context.Context, tenantID uuid.UUID, query PageQuery) (shared.Paginated[ListRow], error) {
	params := receipt.QueryParams{
		Kind:           p.descriptor.Kind,
		ReceiptNumber:  query.ReceiptNumber,
		Remark:         query.Remark,
		CounterpartyID: query.CounterpartyID,
		OperatorID:     query.OperatorID,
		CreatedBy:      query.CreatedBy,
		Status:         query.Status,
		BeginDate:      query.BeginDate,
		EndDate:        query.EndDate,
	}
	filter := shared.Filter{Page: query.Page, PageSize: query.PageSize}

	page, err := p.receipts.FindPage(ctx, tenantID, params, filter)
	if err != nil {
		return shared.Paginated[ListRow]{}, err
	}

	rows := make([]ListRow, 0, len(page.Items))
	for i := range page.Items {
		row, err := p.assembleRow(ctx, tenantID, &page.Items[i])
		if err != nil {
			return shared.Paginated[ListRow]{}, err
		}
		rows = append(rows, row)
	}
	return shared.Paginated[ListRow]{
		Items:      rows,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

func (p *Processor) assembleRow(ctx context.Context, tenantID uuid.UUID, main *receipt.ReceiptMain) (ListRow, error) {
	subs, err := p.receipts.FindSubs(ctx, tenantID, main.ID)
	if err != nil {
		return ListRow{}, err
	}

	productCount := decimal.Zero
	for _, sub := range subs {
		productCount = productCount.Add(sub.Quantity)
	}
	payment := main.ChangeAmount.Abs()
	arrears := main.ArrearsAmount()

	return ListRow{
		ID:               main.ID,
		Kind:             main.Kind,
		ReceiptNumber:    main.ReceiptNumber,
		CounterpartyName: p.counterpartyName(ctx, tenantID, main.CounterpartyID),
		ReceiptDate:      main.ReceiptDate,
		OperatorNames:    p.operatorNames(ctx, tenantID, main.OperatorIDs),
		ProductCount:     productCount,
		TotalAmount:      receipt.TotalAmount(subs),
		TotalTax:         receipt.TotalTax(subs),
		PaymentAmount:    payment,
		ArrearsAmount:    arrears,
		TotalPayment:     arrears.Add(payment),
		Status:           main.Status,
		Remark:           main.Remark,
		CreatedAt:        main.CreatedAt,
	}, nil
}

// counterpartyName resolves the display name, empty when the
// counterparty no longer exists.
func (p *Processor) counterpartyName(ctx context.Context, tenantID, id uuid.UUID) string {
	counterparty, err := p.resolver.Counterparty(ctx, tenantID, id)
	if err != nil {
		return ""
	}
	return counterparty.Name
}

func (p *Processor) operatorNames(ctx context.Context, tenantID uuid.UUID, ids receipt.UUIDList) []string {
	if len(ids) == 0 {
		return nil
	}
	users, err := p.resolver.Users(ctx, tenantID, ids)
	if err != nil {
		p.logger.Warn("failed to resolve operator names", zap.Error(err))
		return nil
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if user, ok := users[id]; ok {
			if user.Realname != "" {
				names = append(names, user.Realname)
			} else {
				names = append(names, user.Username)
			}
		}
	}
	return names
}

// accountDisplay renders the settlement accounts for display: the
// split breakdown as "name(amount)" joined by ", " with unsigned
// amounts when one was recorded, otherwise the primary account's name.
func (p *Processor) accountDisplay(ctx context.Context, tenantID uuid.UUID, main *receipt.ReceiptMain) string {
	if len(main.AccountIDs) == 0 {
		if main.AccountID == nil {
			return ""
		}
		account, err := p.accounts.FindByID(ctx, tenantID, *main.AccountID)
		if err != nil {
			return ""
		}
		return account.Name
	}

	accounts, err := p.accounts.FindByIDs(ctx, tenantID, main.AccountIDs)
	if err != nil {
		return ""
	}
	names := make(map[uuid.UUID]string, len(accounts))
	for _, account := range accounts {
		names[account.ID] = account.Name
	}

	parts := make([]string, 0, len(main.AccountIDs))
	for i, accountID := range main.AccountIDs {
		name, ok := names[accountID]
		if !ok || i >= len(main.AccountAmounts) {
			continue
		}
		parts = append(parts, name+"("+main.AccountAmounts[i].Abs().String()+")")
	}
	return strings.Join(parts, ", ")
}
