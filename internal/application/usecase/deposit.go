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

// maxSaveAttempts bounds the optimistic-concurrency retry loop. Two tellers
// hitting the same account reload and retry; past this bound the conflict is
// surfaced to the caller.
const maxSaveAttempts = 3

// DepositUseCase posts cash deposits against active accounts.
type DepositUseCase struct {
	accounts  port.AccountRepository
	members   port.MemberRepository
	ids       port.IDGenerator
	publisher port.EventPublisher
	printer   port.ReceiptPrinter
	logger    *slog.Logger
}

// NewDepositUseCase wires dependencies.
func NewDepositUseCase(
	accounts port.AccountRepository,
	members port.MemberRepository,
	ids port.IDGenerator,
	publisher port.EventPublisher,
	printer port.ReceiptPrinter,
	logger *slog.Logger,
) *DepositUseCase {
	return &DepositUseCase{
		accounts:  accounts,
		members:   members,
		ids:       ids,
		publisher: publisher,
		printer:   printer,
		logger:    logger,
	}
}

// Execute credits the account and appends the DEPOSIT transaction as one
// unit. The balance update and the transaction record commit together or
// not at all; concurrent deposits are serialized by the account version.
func (uc *DepositUseCase) Execute(ctx context.Context, req dto.DepositRequest) (dto.DepositResponse, error) {
	if !req.Amount.IsPositive() {
		return dto.DepositResponse{}, model.ErrInvalidAmount
	}

	amount := money.New(req.Amount, money.PEN)
	receiptNumber := uc.ids.ReceiptNumber()

	var (
		account model.Account
		txn     model.Transaction
	)

	for attempt := 1; ; attempt++ {
		var err error
		account, err = uc.accounts.FindByID(ctx, req.AccountID)
		if err != nil {
			return dto.DepositResponse{}, fmt.Errorf("find account %s: %w", req.AccountID, err)
		}

		now := time.Now().UTC()

		account, err = account.Credit(amount, now)
		if err != nil {
			return dto.DepositResponse{}, fmt.Errorf("credit account %s: %w", req.AccountID, err)
		}

		accountID := account.ID()
		txn, err = model.NewTransaction(
			uc.ids.NewID(), &accountID, model.TransactionKindDeposit,
			amount, req.TellerID, receiptNumber, req.Note, nil, now,
		)
		if err != nil {
			return dto.DepositResponse{}, fmt.Errorf("create deposit transaction: %w", err)
		}

		err = uc.accounts.SaveWithTransaction(ctx, account, txn)
		if err == nil {
			break
		}
		if errors.Is(err, model.ErrVersionConflict) && attempt < maxSaveAttempts {
			uc.logger.Debug("deposit retry after version conflict",
				"account_id", req.AccountID, "attempt", attempt)
			continue
		}
		return dto.DepositResponse{}, fmt.Errorf("save deposit: %w", err)
	}

	uc.publishEvents(ctx, []event.DomainEvent{transactionPosted(txn)})
	uc.printReceipt(ctx, req, account, txn)

	uc.logger.Info("deposit posted",
		"account_id", account.ID(),
		"amount", amount.String(),
		"receipt_number", receiptNumber,
	)

	return dto.DepositResponse{
		TransactionID: txn.ID(),
		AccountID:     account.ID(),
		NewBalance:    account.Balance().Amount(),
		ReceiptNumber: receiptNumber,
		PostedAt:      txn.PostedAt(),
	}, nil
}

func (uc *DepositUseCase) printReceipt(ctx context.Context, req dto.DepositRequest, account model.Account, txn model.Transaction) {
	if uc.printer == nil {
		return
	}

	memberName := ""
	if member, err := uc.members.FindByID(ctx, account.MemberID()); err == nil {
		memberName = member.FullName()
	}

	receipt := port.Receipt{
		ReceiptNumber: txn.ReceiptNumber(),
		Date:          txn.PostedAt(),
		MemberName:    memberName,
		AccountNumber: account.Number().String(),
		Concept:       "depósito de ahorros",
		Amount:        txn.Amount().String(),
		TellerName:    req.TellerName,
		Kind:          string(txn.Kind()),
	}
	if err := uc.printer.Print(ctx, receipt); err != nil {
		uc.logger.Warn("receipt print failed", "error", err, "receipt_number", txn.ReceiptNumber())
	}
}

func (uc *DepositUseCase) publishEvents(ctx context.Context, events []event.DomainEvent) {
	if uc.publisher == nil || len(events) == 0 {
		return
	}
	if err := uc.publisher.Publish(ctx, tellerEventsTopic, events...); err != nil {
		uc.logger.Warn("failed to publish domain events", "error", err, "event_count", len(events))
	}
}

// transactionPosted builds the TransactionPosted event for a committed
// transaction.
func transactionPosted(txn model.Transaction) event.TransactionPosted {
	return event.NewTransactionPosted(
		txn.ID(),
		txn.AccountID(),
		string(txn.Kind()),
		txn.Amount().Amount().StringFixed(2),
		txn.ReceiptNumber(),
		txn.TellerID(),
	)
}
