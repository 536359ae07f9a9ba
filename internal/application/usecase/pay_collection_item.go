package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/coopandina/teller/internal/application/dto"
	"github.com/coopandina/teller/internal/domain/event"
	"github.com/coopandina/teller/internal/domain/model"
	"github.com/coopandina/teller/internal/domain/money"
	"github.com/coopandina/teller/internal/domain/port"
)

// PayCollectionItemUseCase applies partial or full payments against
// outstanding collection items (cobranzas).
type PayCollectionItemUseCase struct {
	collections port.CollectionRepository
	members     port.MemberRepository
	ids         port.IDGenerator
	publisher   port.EventPublisher
	printer     port.ReceiptPrinter
	logger      *slog.Logger
}

// NewPayCollectionItemUseCase wires dependencies.
func NewPayCollectionItemUseCase(
	collections port.CollectionRepository,
	members port.MemberRepository,
	ids port.IDGenerator,
	publisher port.EventPublisher,
	printer port.ReceiptPrinter,
	logger *slog.Logger,
) *PayCollectionItemUseCase {
	return &PayCollectionItemUseCase{
		collections: collections,
		members:     members,
		ids:         ids,
		publisher:   publisher,
		printer:     printer,
		logger:      logger,
	}
}

// Execute reduces the item's outstanding amount and posts the COLLECTION
// transaction as one unit. A payment settling the item transitions it to
// PAID; a payment exceeding the outstanding amount is rejected with nothing
// mutated.
func (uc *PayCollectionItemUseCase) Execute(ctx context.Context, req dto.PayCollectionItemRequest) (dto.PayCollectionItemResponse, error) {
	if !req.Amount.IsPositive() {
		return dto.PayCollectionItemResponse{}, model.ErrInvalidAmount
	}

	amount := money.New(req.Amount, money.PEN)
	receiptNumber := uc.ids.ReceiptNumber()

	var (
		item model.CollectionItem
		txn  model.Transaction
	)

	for attempt := 1; ; attempt++ {
		var err error
		item, err = uc.collections.FindByID(ctx, req.CollectionItemID)
		if err != nil {
			return dto.PayCollectionItemResponse{}, fmt.Errorf("find collection item %s: %w", req.CollectionItemID, err)
		}

		item, err = item.ApplyPayment(amount)
		if err != nil {
			return dto.PayCollectionItemResponse{}, fmt.Errorf("apply payment to %s: %w", req.CollectionItemID, err)
		}

		now := time.Now().UTC()
		itemID := item.ID()
		// A standalone loan collection may have no linked account; the
		// transaction then carries only the collection reference.
		txn, err = model.NewTransaction(
			uc.ids.NewID(), item.AccountID(), model.TransactionKindCollection,
			amount, req.TellerID, receiptNumber, req.Note, &itemID, now,
		)
		if err != nil {
			return dto.PayCollectionItemResponse{}, fmt.Errorf("create collection transaction: %w", err)
		}

		err = uc.collections.SaveWithTransaction(ctx, item, txn)
		if err == nil {
			break
		}
		if errors.Is(err, model.ErrVersionConflict) && attempt < maxSaveAttempts {
			uc.logger.Debug("collection payment retry after version conflict",
				"collection_item_id", req.CollectionItemID, "attempt", attempt)
			continue
		}
		return dto.PayCollectionItemResponse{}, fmt.Errorf("save collection payment: %w", err)
	}

	settled := item.Status() == model.CollectionStatusPaid
	uc.publishEvents(ctx, []event.DomainEvent{
		event.NewCollectionPaymentApplied(
			item.ID(), item.MemberID(),
			amount.Amount().StringFixed(2),
			item.Outstanding().Amount().StringFixed(2),
			settled, req.TellerID,
		),
		transactionPosted(txn),
	})
	uc.printReceipt(ctx, req, item, txn)

	uc.logger.Info("collection payment applied",
		"collection_item_id", item.ID(),
		"amount", amount.String(),
		"outstanding", item.Outstanding().String(),
		"settled", settled,
	)

	return dto.PayCollectionItemResponse{
		TransactionID: txn.ID(),
		Outstanding:   item.Outstanding().Amount(),
		Status:        string(item.Status()),
		ReceiptNumber: receiptNumber,
		PostedAt:      txn.PostedAt(),
	}, nil
}

func (uc *PayCollectionItemUseCase) printReceipt(ctx context.Context, req dto.PayCollectionItemRequest, item model.CollectionItem, txn model.Transaction) {
	if uc.printer == nil {
		return
	}

	memberName := ""
	if member, err := uc.members.FindByID(ctx, item.MemberID()); err == nil {
		memberName = member.FullName()
	}

	receipt := port.Receipt{
		ReceiptNumber: txn.ReceiptNumber(),
		Date:          txn.PostedAt(),
		MemberName:    memberName,
		Concept:       item.Concept(),
		Amount:        txn.Amount().String(),
		TellerName:    req.TellerName,
		Kind:          string(txn.Kind()),
	}
	if err := uc.printer.Print(ctx, receipt); err != nil {
		uc.logger.Warn("receipt print failed", "error", err, "receipt_number", txn.ReceiptNumber())
	}
}

func (uc *PayCollectionItemUseCase) publishEvents(ctx context.Context, events []event.DomainEvent) {
	if uc.publisher == nil || len(events) == 0 {
		return
	}
	if err := uc.publisher.Publish(ctx, tellerEventsTopic, events...); err != nil {
		uc.logger.Warn("failed to publish domain events", "error", err, "event_count", len(events))
	}
}
