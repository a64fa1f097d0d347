package receipt

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/erp/backoffice/internal/domain/attachment"
	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/masterdata"
	"github.com/erp/backoffice/internal/domain/notification"
	"github.com/erp/backoffice/internal/domain/receipt"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/stock"
	"github.com/erp/backoffice/internal/infrastructure/persistence"
)

// Processor orchestrates all operations of one document kind: header
// and line persistence, both ledger postings, and notifications. The
// purchase and sale families share this code; behaviour that differs
// per kind lives in the kind descriptor.
type Processor struct {
	descriptor receipt.KindDescriptor
	tx         persistence.TxManager
	receipts   receipt.Repository
	stocks     stock.Ledger
	accounts   finance.Repository
	files      attachment.Repository
	resolver   masterdata.Resolver
	dispatcher notification.Dispatcher
	logger     *zap.Logger
}

// NewProcessor creates a Processor for one document kind
func NewProcessor(
	kind receipt.DocumentKind,
	tx persistence.TxManager,
	receipts receipt.Repository,
	stocks stock.Ledger,
	accounts finance.Repository,
	files attachment.Repository,
	resolver masterdata.Resolver,
	dispatcher notification.Dispatcher,
	logger *zap.Logger,
) (*Processor, error) {
	descriptor, err := receipt.Descriptor(kind)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		descriptor: descriptor,
		tx:         tx,
		receipts:   receipts,
		stocks:     stocks,
		accounts:   accounts,
		files:      files,
		resolver:   resolver,
		dispatcher: dispatcher,
		logger:     logger,
	}, nil
}

// Kind returns the document kind this processor handles
func (p *Processor) Kind() receipt.DocumentKind {
	return p.descriptor.Kind
}

// AddOrUpdate creates a document or replaces an existing one. Header,
// lines, and both ledger postings commit in a single transaction; on
// update the previous posting is reversed from its stored effect before
// the new one is applied. Todo notifications go out after commit, on
// create only.
func (p *Processor) AddOrUpdate(ctx context.Context, actor Actor, input ReceiptInput) (shared.OpResult, error) {
	if len(input.Lines) == 0 || input.CounterpartyID == uuid.Nil {
		return shared.NewOpResult(shared.OutcomeFailed), shared.ErrInvalidInput
	}

	isUpdate := input.ID != nil
	var staleFileIDs []uuid.UUID
	var committed *receipt.ReceiptMain

	err := p.tx.Do(ctx, func(ctx context.Context, s persistence.Stores) error {
		var main *receipt.ReceiptMain
		if isUpdate {
			existing, err := s.Receipts.FindByID(ctx, actor.TenantID, *input.ID)
			if err != nil {
				return err
			}
			if !existing.CanBeModified() {
				return receipt.ErrReceiptImmutable
			}

			// Undo the previous posting from its own stored effect.
			oldSubs, err := s.Receipts.FindSubs(ctx, actor.TenantID, existing.ID)
			if err != nil {
				return err
			}
			if err := s.Stock.Apply(ctx, actor.TenantID,
				stock.Invert(stock.Accumulate(oldSubs, p.descriptor.StockDirection))); err != nil {
				return err
			}
			if err := s.Accounts.Adjust(ctx, actor.TenantID,
				finance.Invert(finance.Adjustments(existing))); err != nil {
				return err
			}

			staleFileIDs = removedFileIDs(existing.FileIDs, input.FileIDs)
			main = existing
		} else {
			number := input.ReceiptNumber
			if number == "" {
				generated, err := NewNumberGenerator(s.Receipts).Generate(ctx, actor.TenantID, p.descriptor.Kind)
				if err != nil {
					return err
				}
				number = generated
			}
			created, err := receipt.NewReceiptMain(actor.TenantID, p.descriptor.Kind, number, input.CounterpartyID, input.ReceiptDate)
			if err != nil {
				return err
			}
			created.SetCreatedBy(actor.UserID)
			main = created
		}

		if err := p.populate(main, actor, input); err != nil {
			return err
		}
		subs, err := p.buildSubs(actor.TenantID, main.ID, input.Lines)
		if err != nil {
			return err
		}

		if isUpdate {
			if err := s.Receipts.Replace(ctx, main, subs); err != nil {
				return err
			}
		} else {
			if err := s.Receipts.Create(ctx, main, subs); err != nil {
				return err
			}
		}

		if err := s.Stock.Apply(ctx, actor.TenantID,
			stock.Accumulate(subs, p.descriptor.StockDirection)); err != nil {
			return err
		}
		if err := s.Accounts.Adjust(ctx, actor.TenantID, finance.Adjustments(main)); err != nil {
			return err
		}
		committed = main
		return nil
	})
	if err != nil {
		return shared.NewOpResult(shared.OutcomeFailed), err
	}

	p.cleanStaleFiles(ctx, actor.TenantID, staleFileIDs)

	if isUpdate {
		return shared.NewOpResult(shared.OutcomeUpdateSuccess), nil
	}
	p.notifyCreated(ctx, actor.TenantID, committed)
	return shared.NewOpResult(shared.OutcomeAddSuccess), nil
}

// Delete soft-deletes documents and their lines. Ledger postings are
// deliberately left in place; a delete hides the document but does not
// unwind its stock or balance effects.
func (p *Processor) Delete(ctx context.Context, actor Actor, ids []uuid.UUID) (shared.OpResult, error) {
	if len(ids) == 0 {
		return shared.NewOpResult(shared.OutcomeFailed), shared.ErrInvalidInput
	}
	err := p.tx.Do(ctx, func(ctx context.Context, s persistence.Stores) error {
		return s.Receipts.SoftDelete(ctx, actor.TenantID, ids)
	})
	if err != nil {
		return shared.NewOpResult(shared.OutcomeFailed), err
	}
	return shared.NewOpResult(shared.OutcomeDeleteSuccess), nil
}

// UpdateStatus moves documents to a new status. On audit, each
// document's pending todo is retracted and every assigned operator
// receives a completion notice, todo or not.
func (p *Processor) UpdateStatus(ctx context.Context, actor Actor, ids []uuid.UUID, status receipt.Status) (shared.OpResult, error) {
	if len(ids) == 0 || !status.IsValid() {
		return shared.NewOpResult(shared.OutcomeFailed), shared.ErrInvalidInput
	}

	var audited []*receipt.ReceiptMain
	err := p.tx.Do(ctx, func(ctx context.Context, s persistence.Stores) error {
		for _, id := range ids {
			main, err := s.Receipts.FindByID(ctx, actor.TenantID, id)
			if err != nil {
				return err
			}
			if !main.Status.CanTransitionTo(status) {
				return shared.NewDomainError("INVALID_STATUS_TRANSITION",
					fmt.Sprintf("Cannot move receipt %s from %s to %s", main.ReceiptNumber, main.Status, status))
			}
			if status == receipt.StatusAudited {
				audited = append(audited, main)
			}
		}
		return s.Receipts.UpdateStatus(ctx, actor.TenantID, ids, status)
	})
	if err != nil {
		return shared.NewOpResult(shared.OutcomeFailed), err
	}

	for _, main := range audited {
		p.notifyAudited(ctx, actor.TenantID, main)
	}
	return shared.NewOpResult(shared.OutcomeAuditSuccess), nil
}

// populate writes the input fields onto the header, applying the
// kind's ledger sign to every payment amount before storage.
func (p *Processor) populate(main *receipt.ReceiptMain, actor Actor, input ReceiptInput) error {
	sign := decimal.NewFromInt(int64(p.descriptor.BalanceSign))

	amounts := make(receipt.DecimalList, len(input.AccountAmounts))
	for i, amount := range input.AccountAmounts {
		amounts[i] = amount.Mul(sign)
	}
	if err := main.SetAccounts(input.AccountID, input.AccountIDs, amounts); err != nil {
		return err
	}

	main.LinkNumber = input.LinkNumber
	main.CounterpartyID = input.CounterpartyID
	if !input.ReceiptDate.IsZero() {
		main.ReceiptDate = input.ReceiptDate
	}
	// An omitted operator list keeps the existing assignment.
	if len(input.OperatorIDs) > 0 {
		main.OperatorIDs = receipt.UUIDList(input.OperatorIDs)
	}
	main.DiscountRate = input.DiscountRate
	main.DiscountAmount = input.DiscountAmount
	main.DiscountLastAmount = input.DiscountLastAmount
	main.OtherAmount = input.OtherAmount
	main.Deposit = input.Deposit
	main.ChangeAmount = input.ChangeAmount.Mul(sign)
	main.FileIDs = receipt.UUIDList(input.FileIDs)
	main.Remark = input.Remark
	main.SetUpdatedBy(actor.UserID)
	return nil
}

// buildSubs turns line inputs into persisted lines. Lines without a
// warehouse are kept on the document but never reach the stock ledger;
// for stock-moving kinds that is worth a warning.
func (p *Processor) buildSubs(tenantID, receiptID uuid.UUID, lines []LineInput) ([]receipt.ReceiptSub, error) {
	subs := make([]receipt.ReceiptSub, 0, len(lines))
	for _, line := range lines {
		sub, err := receipt.NewReceiptSub(tenantID, receiptID, line.SkuID, line.WarehouseID, line.Quantity, line.UnitPrice)
		if err != nil {
			return nil, err
		}
		sub.SetTax(line.TaxRate, line.TaxAmount, line.TaxTotal)
		sub.Remark = line.Remark
		if line.WarehouseID == nil && p.descriptor.StockDirection != receipt.StockNone {
			p.logger.Warn("document line has no warehouse and will not move stock",
				zap.String("sku_id", line.SkuID.String()),
				zap.String("kind", p.descriptor.Kind.String()))
		}
		subs = append(subs, *sub)
	}
	return subs, nil
}

// notifyCreated dispatches a todo to every assigned operator. Dispatch
// runs after the transaction committed; a failure loses a notification
// but never the posting, so it is only logged.
func (p *Processor) notifyCreated(ctx context.Context, tenantID uuid.UUID, main *receipt.ReceiptMain) {
	if main == nil {
		return
	}
	contentKey := notification.ContentKey(p.descriptor.Kind, notification.EventCreated)
	number := main.ReceiptNumber
	for _, operatorID := range main.OperatorIDs {
		msg, err := notification.NewMessage(tenantID, operatorID, notification.TypeTodo, contentKey, number, number)
		if err != nil {
			p.logger.Warn("failed to build todo notification", zap.Error(err))
			continue
		}
		if err := p.dispatcher.Dispatch(ctx, msg); err != nil {
			p.logger.Warn("failed to dispatch todo notification",
				zap.String("receipt_number", number),
				zap.String("operator_id", operatorID.String()),
				zap.Error(err))
		}
	}
}

// notifyAudited retracts the document's pending todos and sends a
// notice to every assigned operator.
func (p *Processor) notifyAudited(ctx context.Context, tenantID uuid.UUID, main *receipt.ReceiptMain) {
	if _, err := p.dispatcher.Retract(ctx, tenantID, main.ReceiptNumber); err != nil {
		p.logger.Warn("failed to retract pending todos",
			zap.String("receipt_number", main.ReceiptNumber),
			zap.Error(err))
	}
	contentKey := notification.ContentKey(p.descriptor.Kind, notification.EventAudited)
	for _, operatorID := range main.OperatorIDs {
		msg, err := notification.NewMessage(tenantID, operatorID, notification.TypeNotice, contentKey, main.ReceiptNumber, main.ReceiptNumber)
		if err != nil {
			p.logger.Warn("failed to build audit notice", zap.Error(err))
			continue
		}
		if err := p.dispatcher.Dispatch(ctx, msg); err != nil {
			p.logger.Warn("failed to dispatch audit notice",
				zap.String("receipt_number", main.ReceiptNumber),
				zap.String("operator_id", operatorID.String()),
				zap.Error(err))
		}
	}
}

// cleanStaleFiles removes attachment rows dropped by an update. The
// document no longer references them, so failures only leak metadata
// rows and are logged.
func (p *Processor) cleanStaleFiles(ctx context.Context, tenantID uuid.UUID, fileIDs []uuid.UUID) {
	for _, fileID := range fileIDs {
		if err := p.files.Delete(ctx, tenantID, fileID); err != nil {
			p.logger.Warn("failed to delete replaced attachment",
				zap.String("file_id", fileID.String()),
				zap.Error(err))
		}
	}
}

// removedFileIDs returns the IDs present before the update but absent
// from the new attachment list.
func removedFileIDs(before receipt.UUIDList, after []uuid.UUID) []uuid.UUID {
	keep := make(map[uuid.UUID]bool, len(after))
	for _, id := range after {
		keep[id] = true
	}
	var removed []uuid.UUID
	for _, id := range before {
		if !keep[id] {
			removed = append(removed, id)
		}
	}
	return removed
}
