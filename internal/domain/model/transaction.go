package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/coopandina/teller/internal/domain/money"
	"github.com/coopandina/teller/internal/domain/valueobject"
)

// TransactionKind classifies a posted teller operation.
type TransactionKind string

const (
	TransactionKindOpening    TransactionKind = "OPENING"
	TransactionKindDeposit    TransactionKind = "DEPOSIT"
	TransactionKindCollection TransactionKind = "COLLECTION"
)

// TransactionStatus represents the delivery state of a transaction record.
// COMPLETED is terminal for business purposes; SYNCED only records that the
// central store acknowledged receipt.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
	TransactionStatusSynced    TransactionStatus = "SYNCED"
)

// Transaction is an immutable record of a posted teller operation. After
// creation the only permitted changes are COMPLETED -> SYNCED (by the sync
// coordinator) and PENDING -> CANCELLED (administrative).
type Transaction struct {
	id               uuid.UUID
	accountID        *uuid.UUID
	kind             TransactionKind
	amount           money.Money
	status           TransactionStatus
	tellerID         uuid.UUID
	postedAt         time.Time
	receiptNumber    string
	note             string
	collectionItemID *uuid.UUID
}

// NewTransaction creates a COMPLETED Transaction. Amount must be strictly
// positive and a teller must be identified; a COLLECTION posted against a
// standalone loan may carry no account reference.
func NewTransaction(
	id uuid.UUID,
	accountID *uuid.UUID,
	kind TransactionKind,
	amount money.Money,
	tellerID uuid.UUID,
	receiptNumber string,
	note string,
	collectionItemID *uuid.UUID,
	now time.Time,
) (Transaction, error) {
	if id == uuid.Nil {
		return Transaction{}, fmt.Errorf("transaction ID is required")
	}
	if !amount.IsPositive() {
		return Transaction{}, ErrInvalidAmount
	}
	if tellerID == uuid.Nil {
		return Transaction{}, fmt.Errorf("teller ID is required")
	}
	if receiptNumber == "" {
		return Transaction{}, fmt.Errorf("receipt number is required")
	}
	if kind != TransactionKindCollection && accountID == nil {
		return Transaction{}, fmt.Errorf("account ID is required for %s transactions", kind)
	}

	return Transaction{
		id:               id,
		accountID:        copyID(accountID),
		kind:             kind,
		amount:           amount,
		status:           TransactionStatusCompleted,
		tellerID:         tellerID,
		postedAt:         now,
		receiptNumber:    receiptNumber,
		note:             note,
		collectionItemID: copyID(collectionItemID),
	}, nil
}

// ReconstructTransaction rebuilds a Transaction from persistence.
func ReconstructTransaction(
	id uuid.UUID,
	accountID *uuid.UUID,
	kind TransactionKind,
	amount money.Money,
	status TransactionStatus,
	tellerID uuid.UUID,
	postedAt time.Time,
	receiptNumber, note string,
	collectionItemID *uuid.UUID,
) Transaction {
	return Transaction{
		id:               id,
		accountID:        copyID(accountID),
		kind:             kind,
		amount:           amount,
		status:           status,
		tellerID:         tellerID,
		postedAt:         postedAt,
		receiptNumber:    receiptNumber,
		note:             note,
		collectionItemID: copyID(collectionItemID),
	}
}

// MarkSynced transitions COMPLETED -> SYNCED. Only the sync coordinator
// performs this transition, after the central store acknowledges the record.
func (t Transaction) MarkSynced() (Transaction, error) {
	if t.status != TransactionStatusCompleted {
		return Transaction{}, valueobject.ErrInvalidStatusTransition
	}
	next := t
	next.status = TransactionStatusSynced
	return next, nil
}

// Cancel transitions PENDING -> CANCELLED.
func (t Transaction) Cancel() (Transaction, error) {
	if t.status != TransactionStatusPending {
		return Transaction{}, valueobject.ErrInvalidStatusTransition
	}
	next := t
	next.status = TransactionStatusCancelled
	return next, nil
}

// --- Accessors ---

func (t Transaction) ID() uuid.UUID             { return t.id }
func (t Transaction) Kind() TransactionKind     { return t.kind }
func (t Transaction) Amount() money.Money       { return t.amount }
func (t Transaction) Status() TransactionStatus { return t.status }
func (t Transaction) TellerID() uuid.UUID       { return t.tellerID }
func (t Transaction) PostedAt() time.Time       { return t.postedAt }
func (t Transaction) ReceiptNumber() string     { return t.receiptNumber }
func (t Transaction) Note() string              { return t.note }

// AccountID returns the posted account, or nil for standalone collections.
func (t Transaction) AccountID() *uuid.UUID { return copyID(t.accountID) }

// CollectionItemID returns the settled collection item, when any.
func (t Transaction) CollectionItemID() *uuid.UUID { return copyID(t.collectionItemID) }

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
