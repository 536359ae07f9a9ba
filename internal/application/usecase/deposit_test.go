package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coopandina/teller/internal/application/dto"
	"github.com/coopandina/teller/internal/application/usecase"
	"github.com/coopandina/teller/internal/domain/model"
	"github.com/coopandina/teller/internal/domain/port"
	"github.com/coopandina/teller/internal/domain/valueobject"
)

func newActiveAccount(t *testing.T, memberID uuid.UUID) model.Account {
	t.Helper()
	number, err := valueobject.AccountNumberFromString("CAC-00000042")
	require.NoError(t, err)
	account, err := model.NewAccount(
		uuid.New(), number, memberID,
		valueobject.AccountVariantBasic, model.AccountSpec{}, time.Now().UTC(),
	)
	require.NoError(t, err)
	return account
}

func TestDepositUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	newUseCase := func(
		accounts *mockAccountRepository,
		members *mockMemberRepository,
		printer *mockReceiptPrinter,
		publisher *mockEventPublisher,
	) *usecase.DepositUseCase {
		var pub port.EventPublisher
		if publisher != nil {
			pub = publisher
		}
		var prn port.ReceiptPrinter
		if printer != nil {
			prn = printer
		}
		return usecase.NewDepositUseCase(
			accounts, members, &mockIDGenerator{}, pub, prn, testLogger(),
		)
	}

	t.Run("credits the account and posts the transaction", func(t *testing.T) {
		member := newTestMember(t)
		account := newActiveAccount(t, member.ID())
		accounts := newMockAccountRepository(account)
		printer := &mockReceiptPrinter{}
		publisher := &mockEventPublisher{}
		uc := newUseCase(accounts, newMockMemberRepository(member), printer, publisher)

		resp, err := uc.Execute(ctx, dto.DepositRequest{
			AccountID:  account.ID(),
			Amount:     decimal.RequireFromString("75.50"),
			TellerID:   uuid.New(),
			TellerName: "Carla Huamán",
		})
		require.NoError(t, err)

		assert.Equal(t, "75.5", resp.NewBalance.String())
		assert.Equal(t, "REC-000001", resp.ReceiptNumber)

		require.Len(t, accounts.savedTxns, 1)
		txn := accounts.savedTxns[0]
		assert.Equal(t, model.TransactionKindDeposit, txn.Kind())
		assert.Equal(t, model.TransactionStatusCompleted, txn.Status())

		saved, findErr := accounts.FindByID(ctx, account.ID())
		require.NoError(t, findErr)
		assert.Equal(t, account.Version()+1, saved.Version())

		require.Len(t, printer.printed, 1)
		assert.Equal(t, member.FullName(), printer.printed[0].MemberName)

		require.Len(t, publisher.publishedEvents, 1)
		assert.Equal(t, "transaction.posted", publisher.publishedEvents[0].EventType())
	})

	t.Run("rejects a non-positive amount", func(t *testing.T) {
		uc := newUseCase(newMockAccountRepository(), newMockMemberRepository(), nil, nil)

		_, err := uc.Execute(ctx, dto.DepositRequest{
			AccountID: uuid.New(),
			Amount:    decimal.Zero,
			TellerID:  uuid.New(),
		})
		assert.ErrorIs(t, err, model.ErrInvalidAmount)
	})

	t.Run("fails when the account does not exist", func(t *testing.T) {
		uc := newUseCase(newMockAccountRepository(), newMockMemberRepository(), nil, nil)

		_, err := uc.Execute(ctx, dto.DepositRequest{
			AccountID: uuid.New(),
			Amount:    decimal.RequireFromString("10.00"),
			TellerID:  uuid.New(),
		})
		assert.ErrorIs(t, err, model.ErrAccountNotFound)
	})

	t.Run("rejects deposits on blocked accounts", func(t *testing.T) {
		member := newTestMember(t)
		account := newActiveAccount(t, member.ID())
		blocked, err := account.Block()
		require.NoError(t, err)
		uc := newUseCase(newMockAccountRepository(blocked), newMockMemberRepository(member), nil, nil)

		_, err = uc.Execute(ctx, dto.DepositRequest{
			AccountID: account.ID(),
			Amount:    decimal.RequireFromString("10.00"),
			TellerID:  uuid.New(),
		})
		assert.ErrorIs(t, err, model.ErrAccountInactive)
	})

	t.Run("retries once after a version conflict and keeps the receipt number", func(t *testing.T) {
		member := newTestMember(t)
		account := newActiveAccount(t, member.ID())
		accounts := newMockAccountRepository(account)
		accounts.saveErrs = []error{model.ErrVersionConflict, nil}
		uc := newUseCase(accounts, newMockMemberRepository(member), nil, &mockEventPublisher{})

		resp, err := uc.Execute(ctx, dto.DepositRequest{
			AccountID: account.ID(),
			Amount:    decimal.RequireFromString("20.00"),
			TellerID:  uuid.New(),
		})
		require.NoError(t, err)

		// One receipt number for the operation, however many attempts it took.
		assert.Equal(t, "REC-000001", resp.ReceiptNumber)
		require.Len(t, accounts.savedTxns, 1)
		assert.Equal(t, "REC-000001", accounts.savedTxns[0].ReceiptNumber())
	})

	t.Run("gives up after exhausting the retry budget", func(t *testing.T) {
		member := newTestMember(t)
		account := newActiveAccount(t, member.ID())
		accounts := newMockAccountRepository(account)
		accounts.saveErrs = []error{
			model.ErrVersionConflict, model.ErrVersionConflict, model.ErrVersionConflict,
		}
		uc := newUseCase(accounts, newMockMemberRepository(member), nil, nil)

		_, err := uc.Execute(ctx, dto.DepositRequest{
			AccountID: account.ID(),
			Amount:    decimal.RequireFromString("20.00"),
			TellerID:  uuid.New(),
		})
		assert.ErrorIs(t, err, model.ErrVersionConflict)
		assert.Empty(t, accounts.savedTxns)
	})
}
