package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/coopandina/teller/internal/application/dto"
	"github.com/coopandina/teller/internal/domain/event"
	"github.com/coopandina/teller/internal/domain/model"
	"github.com/coopandina/teller/internal/domain/money"
	"github.com/coopandina/teller/internal/domain/port"
	"github.com/coopandina/teller/internal/domain/valueobject"
)

const tellerEventsTopic = "teller-events"

// OpenAccountUseCase handles the creation of new member accounts in any of
// the three savings variants.
type OpenAccountUseCase struct {
	accounts  port.AccountRepository
	members   port.MemberRepository
	ids       port.IDGenerator
	publisher port.EventPublisher
	location  port.LocationProvider
	printer   port.ReceiptPrinter
	logger    *slog.Logger
}

// NewOpenAccountUseCase wires dependencies. Location provider and printer
// may be nil when the device has neither.
func NewOpenAccountUseCase(
	accounts port.AccountRepository,
	members port.MemberRepository,
	ids port.IDGenerator,
	publisher port.EventPublisher,
	location port.LocationProvider,
	printer port.ReceiptPrinter,
	logger *slog.Logger,
) *OpenAccountUseCase {
	return &OpenAccountUseCase{
		accounts:  accounts,
		members:   members,
		ids:       ids,
		publisher: publisher,
		location:  location,
		printer:   printer,
		logger:    logger,
	}
}

// Execute validates the request, creates the account, and posts the OPENING
// transaction when an initial amount was handed over. Every failure path
// fires before anything is persisted.
func (uc *OpenAccountUseCase) Execute(ctx context.Context, req dto.OpenAccountRequest) (dto.OpenAccountResponse, error) {
	uc.logger.Info("opening new account",
		"member_id", req.MemberID,
		"variant", req.Variant,
	)

	if req.InitialAmount.IsNegative() {
		return dto.OpenAccountResponse{}, model.ErrInvalidAmount
	}

	variant, err := valueobject.NewAccountVariant(req.Variant)
	if err != nil {
		return dto.OpenAccountResponse{}, fmt.Errorf("invalid account variant: %w", err)
	}

	member, err := uc.members.FindByID(ctx, req.MemberID)
	if err != nil {
		return dto.OpenAccountResponse{}, fmt.Errorf("find member %s: %w", req.MemberID, err)
	}

	if variant.Equal(valueobject.AccountVariantMinor) {
		if _, err := uc.members.FindByID(ctx, req.MinorMemberID); err != nil {
			return dto.OpenAccountResponse{}, fmt.Errorf("find minor member %s: %w", req.MinorMemberID, err)
		}
	}

	now := time.Now().UTC()

	spec := model.AccountSpec{
		MinorMemberID:    req.MinorMemberID,
		GuardianMemberID: req.GuardianMemberID,
		TermDays:         req.TermDays,
	}
	if req.TargetAmount != nil {
		t := money.New(*req.TargetAmount, money.PEN)
		spec.TargetAmount = &t
	}

	account, err := model.NewAccount(uc.ids.NewID(), uc.ids.AccountNumber(), member.ID(), variant, spec, now)
	if err != nil {
		return dto.OpenAccountResponse{}, fmt.Errorf("create account: %w", err)
	}

	// Optional GPS capture. Failure is logged and ignored: address capture
	// must never block an opening.
	if req.CaptureLocation && uc.location != nil {
		if loc, locErr := uc.location.CurrentLocation(ctx); locErr != nil {
			uc.logger.Warn("location capture failed", "error", locErr, "member_id", member.ID())
		} else {
			if saveErr := uc.members.Save(ctx, member.WithCoordinates(loc)); saveErr != nil {
				uc.logger.Warn("failed to store member coordinates", "error", saveErr, "member_id", member.ID())
			}
		}
	}

	opening := money.New(req.InitialAmount, money.PEN)
	account = account.RecordOpened(opening, req.TellerID)

	var receiptNumber string
	if req.InitialAmount.IsPositive() {
		receiptNumber = uc.ids.ReceiptNumber()

		account, err = account.Credit(opening, now)
		if err != nil {
			return dto.OpenAccountResponse{}, fmt.Errorf("credit opening amount: %w", err)
		}

		accountID := account.ID()
		txn, txnErr := model.NewTransaction(
			uc.ids.NewID(), &accountID, model.TransactionKindOpening,
			opening, req.TellerID, receiptNumber, "apertura de cuenta", nil, now,
		)
		if txnErr != nil {
			return dto.OpenAccountResponse{}, fmt.Errorf("create opening transaction: %w", txnErr)
		}

		if err := uc.accounts.SaveWithTransaction(ctx, account, txn); err != nil {
			return dto.OpenAccountResponse{}, fmt.Errorf("save account: %w", err)
		}

		uc.printReceipt(ctx, port.Receipt{
			ReceiptNumber: receiptNumber,
			Date:          now,
			MemberName:    member.FullName(),
			AccountNumber: account.Number().String(),
			Concept:       "apertura de cuenta",
			Amount:        opening.String(),
			TellerName:    req.TellerName,
			Kind:          string(model.TransactionKindOpening),
		})
	} else {
		if err := uc.accounts.Save(ctx, account); err != nil {
			return dto.OpenAccountResponse{}, fmt.Errorf("save account: %w", err)
		}
	}

	uc.publishEvents(ctx, account.DomainEvents())

	uc.logger.Info("account opened",
		"account_id", account.ID(),
		"account_number", account.Number().String(),
		"variant", variant.String(),
	)

	return dto.OpenAccountResponse{
		AccountID:     account.ID(),
		AccountNumber: account.Number().String(),
		Variant:       variant.String(),
		Balance:       account.Balance().Amount(),
		Status:        string(account.Status()),
		OpenedAt:      account.OpenedAt(),
		ReceiptNumber: receiptNumber,
	}, nil
}

func (uc *OpenAccountUseCase) printReceipt(ctx context.Context, receipt port.Receipt) {
	if uc.printer == nil {
		return
	}
	if err := uc.printer.Print(ctx, receipt); err != nil {
		// The transaction is already committed; a dead printer is not a
		// reason to fail the operation.
		uc.logger.Warn("receipt print failed", "error", err, "receipt_number", receipt.ReceiptNumber)
	}
}

func (uc *OpenAccountUseCase) publishEvents(ctx context.Context, events []event.DomainEvent) {
	if uc.publisher == nil || len(events) == 0 {
		return
	}
	if err := uc.publisher.Publish(ctx, tellerEventsTopic, events...); err != nil {
		uc.logger.Warn("failed to publish domain events", "error", err, "event_count", len(events))
	}
}
