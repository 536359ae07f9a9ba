package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/coopandina/teller/internal/domain/money"
	"github.com/coopandina/teller/internal/domain/valueobject"
)

// CollectionStatus represents the persisted state of a collection item.
// OVERDUE never appears here: it is derived at read time by EffectiveStatus.
type CollectionStatus string

const (
	CollectionStatusPending   CollectionStatus = "PENDING"
	CollectionStatusPaid      CollectionStatus = "PAID"
	CollectionStatusOverdue   CollectionStatus = "OVERDUE"
	CollectionStatusCancelled CollectionStatus = "CANCELLED"
)

// CollectionItem is a standalone record of money a member owes (cobranza),
// independent of any account balance. It can be paid down partially; the
// outstanding amount never exceeds the original amount and only the
// collections engine mutates it.
type CollectionItem struct {
	id                uuid.UUID
	memberID          uuid.UUID
	accountID         *uuid.UUID
	loanID            *uuid.UUID
	installmentID     *uuid.UUID
	outstanding       money.Money
	original          money.Money
	accruedLateFee    money.Money
	accruedInterest   money.Money
	dueDate           time.Time
	status            CollectionStatus
	kind              valueobject.CollectionKind
	concept           string
	installmentNumber *int
	version           int
	synced            bool
}

// NewCollectionItem creates a PENDING item owing its full original amount.
func NewCollectionItem(
	id uuid.UUID,
	memberID uuid.UUID,
	accountID, loanID, installmentID *uuid.UUID,
	original money.Money,
	dueDate time.Time,
	kind valueobject.CollectionKind,
	concept string,
	installmentNumber *int,
) (CollectionItem, error) {
	if id == uuid.Nil {
		return CollectionItem{}, fmt.Errorf("collection item ID is required")
	}
	if memberID == uuid.Nil {
		return CollectionItem{}, fmt.Errorf("member ID is required")
	}
	if !original.IsPositive() {
		return CollectionItem{}, ErrInvalidAmount
	}
	if kind.IsZero() {
		return CollectionItem{}, fmt.Errorf("collection kind is required")
	}

	return CollectionItem{
		id:                id,
		memberID:          memberID,
		accountID:         copyID(accountID),
		loanID:            copyID(loanID),
		installmentID:     copyID(installmentID),
		outstanding:       original,
		original:          original,
		accruedLateFee:    money.Zero(original.Currency()),
		accruedInterest:   money.Zero(original.Currency()),
		dueDate:           dueDate,
		status:            CollectionStatusPending,
		kind:              kind,
		concept:           concept,
		installmentNumber: copyInt(installmentNumber),
		version:           1,
	}, nil
}

// ReconstructCollectionItem rebuilds a CollectionItem from persistence.
func ReconstructCollectionItem(
	id, memberID uuid.UUID,
	accountID, loanID, installmentID *uuid.UUID,
	outstanding, original, accruedLateFee, accruedInterest money.Money,
	dueDate time.Time,
	status CollectionStatus,
	kind valueobject.CollectionKind,
	concept string,
	installmentNumber *int,
	version int,
	synced bool,
) CollectionItem {
	return CollectionItem{
		id:                id,
		memberID:          memberID,
		accountID:         copyID(accountID),
		loanID:            copyID(loanID),
		installmentID:     copyID(installmentID),
		outstanding:       outstanding,
		original:          original,
		accruedLateFee:    accruedLateFee,
		accruedInterest:   accruedInterest,
		dueDate:           dueDate,
		status:            status,
		kind:              kind,
		concept:           concept,
		installmentNumber: copyInt(installmentNumber),
		version:           version,
		synced:            synced,
	}
}

// ApplyPayment reduces the outstanding amount. Paying it down to zero
// transitions the item to PAID. All rejections happen before any mutation.
func (c CollectionItem) ApplyPayment(amount money.Money) (CollectionItem, error) {
	if !amount.IsPositive() {
		return CollectionItem{}, ErrInvalidAmount
	}
	switch c.status {
	case CollectionStatusPaid:
		return CollectionItem{}, ErrCollectionPaid
	case CollectionStatusCancelled:
		return CollectionItem{}, ErrCollectionCancelled
	}

	exceeds, err := amount.GreaterThan(c.outstanding)
	if err != nil {
		return CollectionItem{}, fmt.Errorf("apply payment to %s: %w", c.id, err)
	}
	if exceeds {
		return CollectionItem{}, ErrAmountExceedsOutstanding
	}

	remaining, err := c.outstanding.Subtract(amount)
	if err != nil {
		return CollectionItem{}, fmt.Errorf("apply payment to %s: %w", c.id, err)
	}

	next := c
	next.outstanding = remaining
	next.version = c.version + 1
	next.synced = false
	if remaining.IsZero() {
		next.status = CollectionStatusPaid
	}
	return next, nil
}

// Cancel transitions PENDING -> CANCELLED.
func (c CollectionItem) Cancel() (CollectionItem, error) {
	if c.status != CollectionStatusPending {
		return CollectionItem{}, valueobject.ErrInvalidStatusTransition
	}
	next := c
	next.status = CollectionStatusCancelled
	next.version = c.version + 1
	next.synced = false
	return next, nil
}

// MarkSynced returns a copy flagged as acknowledged by the central store.
func (c CollectionItem) MarkSynced() CollectionItem {
	next := c
	next.synced = true
	return next
}

// EffectiveStatus derives the read-time status: a PENDING item past its due
// date reads as OVERDUE. The stored status never holds OVERDUE.
func (c CollectionItem) EffectiveStatus(asOf time.Time) CollectionStatus {
	if c.status == CollectionStatusPending && c.dueDate.Before(asOf) {
		return CollectionStatusOverdue
	}
	return c.status
}

// DaysOverdue returns the whole days past the due date for a PENDING item,
// and 0 otherwise.
func (c CollectionItem) DaysOverdue(asOf time.Time) int {
	if c.status != CollectionStatusPending || !c.dueDate.Before(asOf) {
		return 0
	}
	return int(asOf.Sub(c.dueDate).Hours() / 24)
}

// --- Accessors ---

func (c CollectionItem) ID() uuid.UUID                    { return c.id }
func (c CollectionItem) MemberID() uuid.UUID              { return c.memberID }
func (c CollectionItem) AccountID() *uuid.UUID            { return copyID(c.accountID) }
func (c CollectionItem) LoanID() *uuid.UUID               { return copyID(c.loanID) }
func (c CollectionItem) InstallmentID() *uuid.UUID        { return copyID(c.installmentID) }
func (c CollectionItem) Outstanding() money.Money         { return c.outstanding }
func (c CollectionItem) Original() money.Money            { return c.original }
func (c CollectionItem) AccruedLateFee() money.Money      { return c.accruedLateFee }
func (c CollectionItem) AccruedInterest() money.Money     { return c.accruedInterest }
func (c CollectionItem) DueDate() time.Time               { return c.dueDate }
func (c CollectionItem) Status() CollectionStatus         { return c.status }
func (c CollectionItem) Kind() valueobject.CollectionKind { return c.kind }
func (c CollectionItem) Concept() string                  { return c.concept }
func (c CollectionItem) InstallmentNumber() *int          { return copyInt(c.installmentNumber) }
func (c CollectionItem) Version() int                     { return c.version }
func (c CollectionItem) Synced() bool                     { return c.synced }

func copyInt(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}
