package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coopandina/teller/internal/application/dto"
	"github.com/coopandina/teller/internal/application/usecase"
	"github.com/coopandina/teller/internal/domain/model"
	"github.com/coopandina/teller/internal/domain/port"
	"github.com/coopandina/teller/internal/domain/valueobject"
)

func TestOpenAccountUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	newUseCase := func(
		accounts *mockAccountRepository,
		members *mockMemberRepository,
		location *mockLocationProvider,
		printer *mockReceiptPrinter,
		publisher *mockEventPublisher,
	) *usecase.OpenAccountUseCase {
		var pub port.EventPublisher
		if publisher != nil {
			pub = publisher
		}
		var loc port.LocationProvider
		if location != nil {
			loc = location
		}
		var prn port.ReceiptPrinter
		if printer != nil {
			prn = printer
		}
		return usecase.NewOpenAccountUseCase(
			accounts, members, &mockIDGenerator{}, pub, loc, prn, testLogger(),
		)
	}

	t.Run("opens a basic account with an initial deposit", func(t *testing.T) {
		member := newTestMember(t)
		members := newMockMemberRepository(member)
		accounts := newMockAccountRepository()
		printer := &mockReceiptPrinter{}
		publisher := &mockEventPublisher{}
		uc := newUseCase(accounts, members, nil, printer, publisher)

		resp, err := uc.Execute(ctx, dto.OpenAccountRequest{
			MemberID:      member.ID(),
			Variant:       "BASIC",
			InitialAmount: decimal.RequireFromString("150.00"),
			TellerID:      member.ID(),
			TellerName:    "Carla Huamán",
		})
		require.NoError(t, err)

		assert.Equal(t, "BASIC", resp.Variant)
		assert.Equal(t, "150", resp.Balance.String())
		assert.NotEmpty(t, resp.ReceiptNumber)
		assert.Equal(t, "CAC-00000001", resp.AccountNumber)

		// Opening amount posts atomically with the account.
		require.Len(t, accounts.savedTxns, 1)
		assert.Equal(t, model.TransactionKindOpening, accounts.savedTxns[0].Kind())

		require.Len(t, printer.printed, 1)
		assert.Equal(t, resp.ReceiptNumber, printer.printed[0].ReceiptNumber)
		assert.Equal(t, member.FullName(), printer.printed[0].MemberName)

		assert.NotEmpty(t, publisher.publishedEvents)
	})

	t.Run("zero initial amount skips the opening transaction", func(t *testing.T) {
		member := newTestMember(t)
		accounts := newMockAccountRepository()
		printer := &mockReceiptPrinter{}
		uc := newUseCase(accounts, newMockMemberRepository(member), nil, printer, &mockEventPublisher{})

		resp, err := uc.Execute(ctx, dto.OpenAccountRequest{
			MemberID: member.ID(),
			Variant:  "BASIC",
			TellerID: member.ID(),
		})
		require.NoError(t, err)

		assert.True(t, resp.Balance.IsZero())
		assert.Empty(t, resp.ReceiptNumber)
		assert.Empty(t, accounts.savedTxns)
		assert.Empty(t, printer.printed)
		require.Len(t, accounts.accounts, 1)
	})

	t.Run("rejects a negative initial amount", func(t *testing.T) {
		member := newTestMember(t)
		uc := newUseCase(newMockAccountRepository(), newMockMemberRepository(member), nil, nil, nil)

		_, err := uc.Execute(ctx, dto.OpenAccountRequest{
			MemberID:      member.ID(),
			Variant:       "BASIC",
			InitialAmount: decimal.RequireFromString("-1.00"),
			TellerID:      member.ID(),
		})
		assert.ErrorIs(t, err, model.ErrInvalidAmount)
	})

	t.Run("fails when the member does not exist", func(t *testing.T) {
		member := newTestMember(t)
		uc := newUseCase(newMockAccountRepository(), newMockMemberRepository(), nil, nil, nil)

		_, err := uc.Execute(ctx, dto.OpenAccountRequest{
			MemberID: member.ID(),
			Variant:  "BASIC",
			TellerID: member.ID(),
		})
		assert.ErrorIs(t, err, model.ErrMemberNotFound)
	})

	t.Run("minor account requires the minor to be registered", func(t *testing.T) {
		guardian := newTestMember(t)
		minor := newTestMember(t)
		accounts := newMockAccountRepository()
		uc := newUseCase(accounts, newMockMemberRepository(guardian), nil, nil, nil)

		_, err := uc.Execute(ctx, dto.OpenAccountRequest{
			MemberID:         guardian.ID(),
			Variant:          "MINOR",
			TellerID:         guardian.ID(),
			MinorMemberID:    minor.ID(),
			GuardianMemberID: guardian.ID(),
		})
		assert.ErrorIs(t, err, model.ErrMemberNotFound)
		// The failure fires before anything is persisted.
		assert.Empty(t, accounts.accounts)
		assert.Empty(t, accounts.savedTxns)
	})

	t.Run("opens a future savings account with term and target", func(t *testing.T) {
		member := newTestMember(t)
		accounts := newMockAccountRepository()
		uc := newUseCase(accounts, newMockMemberRepository(member), nil, nil, &mockEventPublisher{})

		target := decimal.RequireFromString("1000.00")
		resp, err := uc.Execute(ctx, dto.OpenAccountRequest{
			MemberID:     member.ID(),
			Variant:      "FUTURE_SAVINGS",
			TellerID:     member.ID(),
			TermDays:     90,
			TargetAmount: &target,
		})
		require.NoError(t, err)

		saved, findErr := accounts.FindByID(ctx, resp.AccountID)
		require.NoError(t, findErr)
		assert.True(t, saved.Variant().Equal(valueobject.AccountVariantFutureSavings))
		assert.Equal(t, 90, saved.Term().Days())
	})

	t.Run("location capture failure never blocks the opening", func(t *testing.T) {
		member := newTestMember(t)
		members := newMockMemberRepository(member)
		location := &mockLocationProvider{err: assert.AnError}
		uc := newUseCase(newMockAccountRepository(), members, location, nil, &mockEventPublisher{})

		_, err := uc.Execute(ctx, dto.OpenAccountRequest{
			MemberID:        member.ID(),
			Variant:         "BASIC",
			TellerID:        member.ID(),
			CaptureLocation: true,
		})
		require.NoError(t, err)
		assert.Empty(t, members.savedMembers)
	})

	t.Run("successful location capture stores member coordinates", func(t *testing.T) {
		member := newTestMember(t)
		members := newMockMemberRepository(member)
		location := &mockLocationProvider{coords: model.Coordinates{Latitude: -12.05, Longitude: -77.04}}
		uc := newUseCase(newMockAccountRepository(), members, location, nil, &mockEventPublisher{})

		_, err := uc.Execute(ctx, dto.OpenAccountRequest{
			MemberID:        member.ID(),
			Variant:         "BASIC",
			TellerID:        member.ID(),
			CaptureLocation: true,
		})
		require.NoError(t, err)

		require.Len(t, members.savedMembers, 1)
		coords := members.savedMembers[0].Coordinates()
		require.NotNil(t, coords)
		assert.InDelta(t, -12.05, coords.Latitude, 0.0001)
	})
}
