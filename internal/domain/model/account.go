package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/coopandina/teller/internal/domain/event"
	"github.com/coopandina/teller/internal/domain/money"
	"github.com/coopandina/teller/internal/domain/valueobject"
)

// AccountStatus represents the lifecycle state of a member account.
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusInactive AccountStatus = "INACTIVE"
	AccountStatusBlocked  AccountStatus = "BLOCKED"
)

// Account is the aggregate root for member savings accounts. It is immutable;
// all state transitions return a new instance. The balance is the only field
// that changes in normal operation, and only through Credit.
type Account struct {
	id       uuid.UUID
	number   valueobject.AccountNumber
	memberID uuid.UUID
	variant  valueobject.AccountVariant
	balance  money.Money
	status   AccountStatus
	openedAt time.Time

	// MINOR variant references.
	minorMemberID    uuid.UUID
	guardianMemberID uuid.UUID

	// FUTURE_SAVINGS variant fields.
	term         valueobject.SavingsTerm
	maturityDate time.Time
	targetAmount *money.Money

	version      int
	synced       bool
	domainEvents []event.DomainEvent
}

// AccountSpec carries the variant-specific fields for NewAccount. Only the
// fields matching the variant are consulted.
type AccountSpec struct {
	MinorMemberID    uuid.UUID
	GuardianMemberID uuid.UUID
	TermDays         int
	TargetAmount     *money.Money
}

// NewAccount creates an Account in ACTIVE status with a zero balance.
// Variant invariants are enforced here: MINOR accounts always carry both
// member references and FUTURE_SAVINGS accounts always carry a valid term.
func NewAccount(
	id uuid.UUID,
	number valueobject.AccountNumber,
	memberID uuid.UUID,
	variant valueobject.AccountVariant,
	spec AccountSpec,
	now time.Time,
) (Account, error) {
	if id == uuid.Nil {
		return Account{}, fmt.Errorf("account ID is required")
	}
	if number.IsZero() {
		return Account{}, fmt.Errorf("account number is required")
	}
	if memberID == uuid.Nil {
		return Account{}, fmt.Errorf("member ID is required")
	}
	if variant.IsZero() {
		return Account{}, fmt.Errorf("account variant is required")
	}

	account := Account{
		id:       id,
		number:   number,
		memberID: memberID,
		variant:  variant,
		balance:  money.Zero(money.PEN),
		status:   AccountStatusActive,
		openedAt: now,
		version:  1,
	}

	switch variant {
	case valueobject.AccountVariantMinor:
		if spec.MinorMemberID == uuid.Nil {
			return Account{}, fmt.Errorf("minor member ID is required for MINOR accounts")
		}
		if spec.GuardianMemberID == uuid.Nil {
			return Account{}, fmt.Errorf("guardian member ID is required for MINOR accounts")
		}
		account.minorMemberID = spec.MinorMemberID
		account.guardianMemberID = spec.GuardianMemberID
	case valueobject.AccountVariantFutureSavings:
		term, err := valueobject.NewSavingsTerm(spec.TermDays)
		if err != nil {
			return Account{}, err
		}
		account.term = term
		account.maturityDate = now.AddDate(0, 0, term.Days())
		if spec.TargetAmount != nil {
			if spec.TargetAmount.IsNegative() || spec.TargetAmount.IsZero() {
				return Account{}, fmt.Errorf("target amount must be positive when set")
			}
			t := *spec.TargetAmount
			account.targetAmount = &t
		}
	}

	return account, nil
}

// ReconstructAccount rebuilds an Account from persistence without validation
// or emitting events. Used by repository implementations.
func ReconstructAccount(
	id uuid.UUID,
	number valueobject.AccountNumber,
	memberID uuid.UUID,
	variant valueobject.AccountVariant,
	balance money.Money,
	status AccountStatus,
	openedAt time.Time,
	minorMemberID, guardianMemberID uuid.UUID,
	term valueobject.SavingsTerm,
	maturityDate time.Time,
	targetAmount *money.Money,
	version int,
	synced bool,
) Account {
	return Account{
		id:               id,
		number:           number,
		memberID:         memberID,
		variant:          variant,
		balance:          balance,
		status:           status,
		openedAt:         openedAt,
		minorMemberID:    minorMemberID,
		guardianMemberID: guardianMemberID,
		term:             term,
		maturityDate:     maturityDate,
		targetAmount:     targetAmount,
		version:          version,
		synced:           synced,
	}
}

// Credit adds a strictly positive amount to the balance. The balance can
// never go negative because credits are the only balance mutation.
func (a Account) Credit(amount money.Money, now time.Time) (Account, error) {
	if a.status != AccountStatusActive {
		return Account{}, ErrAccountInactive
	}
	if !amount.IsPositive() {
		return Account{}, ErrInvalidAmount
	}

	newBalance, err := a.balance.Add(amount)
	if err != nil {
		return Account{}, fmt.Errorf("credit account %s: %w", a.number, err)
	}

	next := a.clone()
	next.balance = newBalance
	next.version = a.version + 1
	next.synced = false
	return next, nil
}

// Block transitions the account to BLOCKED.
func (a Account) Block() (Account, error) {
	if a.status == AccountStatusBlocked {
		return Account{}, valueobject.ErrInvalidStatusTransition
	}
	return a.withStatus(AccountStatusBlocked), nil
}

// Deactivate transitions the account from ACTIVE to INACTIVE.
func (a Account) Deactivate() (Account, error) {
	if a.status != AccountStatusActive {
		return Account{}, valueobject.ErrInvalidStatusTransition
	}
	return a.withStatus(AccountStatusInactive), nil
}

// Reactivate transitions the account from INACTIVE or BLOCKED back to ACTIVE.
func (a Account) Reactivate() (Account, error) {
	if a.status == AccountStatusActive {
		return Account{}, valueobject.ErrInvalidStatusTransition
	}
	return a.withStatus(AccountStatusActive), nil
}

func (a Account) withStatus(status AccountStatus) Account {
	next := a.clone()
	old := next.status
	next.status = status
	next.version = a.version + 1
	next.synced = false
	next.domainEvents = append(next.domainEvents, event.NewAccountStatusChanged(
		a.id, a.number.String(), string(old), string(status),
	))
	return next
}

// MarkSynced returns a copy flagged as acknowledged by the central store.
func (a Account) MarkSynced() Account {
	next := a.clone()
	next.synced = true
	return next
}

// RecordOpened appends the AccountOpened domain event. Called by the registry
// once the opening amount is known.
func (a Account) RecordOpened(openingAmount money.Money, tellerID uuid.UUID) Account {
	next := a.clone()
	next.domainEvents = append(next.domainEvents, event.NewAccountOpened(
		a.id, a.memberID, a.number.String(), a.variant.String(),
		openingAmount.Amount().StringFixed(2), tellerID,
	))
	return next
}

// --- Accessors ---

func (a Account) ID() uuid.UUID                       { return a.id }
func (a Account) Number() valueobject.AccountNumber   { return a.number }
func (a Account) MemberID() uuid.UUID                 { return a.memberID }
func (a Account) Variant() valueobject.AccountVariant { return a.variant }
func (a Account) Balance() money.Money                { return a.balance }
func (a Account) Status() AccountStatus               { return a.status }
func (a Account) OpenedAt() time.Time                 { return a.openedAt }
func (a Account) MinorMemberID() uuid.UUID            { return a.minorMemberID }
func (a Account) GuardianMemberID() uuid.UUID         { return a.guardianMemberID }
func (a Account) Term() valueobject.SavingsTerm       { return a.term }
func (a Account) MaturityDate() time.Time             { return a.maturityDate }
func (a Account) Version() int                        { return a.version }
func (a Account) Synced() bool                        { return a.synced }

// TargetAmount returns the optional savings goal, or nil when none was set.
func (a Account) TargetAmount() *money.Money {
	if a.targetAmount == nil {
		return nil
	}
	t := *a.targetAmount
	return &t
}

// DomainEvents returns all uncommitted domain events.
func (a Account) DomainEvents() []event.DomainEvent {
	out := make([]event.DomainEvent, len(a.domainEvents))
	copy(out, a.domainEvents)
	return out
}

// ClearDomainEvents returns a copy with domain events cleared.
func (a Account) ClearDomainEvents() Account {
	next := a.clone()
	next.domainEvents = nil
	return next
}

func (a Account) clone() Account {
	cloned := a
	if len(a.domainEvents) > 0 {
		cloned.domainEvents = make([]event.DomainEvent, len(a.domainEvents))
		copy(cloned.domainEvents, a.domainEvents)
	}
	return cloned
}
