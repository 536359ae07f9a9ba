package event

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface that all domain events must implement.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	AggregateType() string
	OccurredAt() time.Time
}

// BaseEvent contains the common fields for all domain events.
type BaseEvent struct {
	ID             uuid.UUID `json:"event_id"`
	Type           string    `json:"event_type"`
	AggregateIDV   uuid.UUID `json:"aggregate_id"`
	AggregateTypeV string    `json:"aggregate_type"`
	Timestamp      time.Time `json:"occurred_at"`
}

func (e BaseEvent) EventID() uuid.UUID     { return e.ID }
func (e BaseEvent) EventType() string      { return e.Type }
func (e BaseEvent) AggregateID() uuid.UUID { return e.AggregateIDV }
func (e BaseEvent) AggregateType() string  { return e.AggregateTypeV }
func (e BaseEvent) OccurredAt() time.Time  { return e.Timestamp }

func newBaseEvent(eventType string, aggregateID uuid.UUID, aggregateType string) BaseEvent {
	return BaseEvent{
		ID:             uuid.New(),
		Type:           eventType,
		AggregateIDV:   aggregateID,
		AggregateTypeV: aggregateType,
		Timestamp:      time.Now().UTC(),
	}
}

// AccountOpened is emitted when a new member account is created.
type AccountOpened struct {
	BaseEvent
	MemberID      uuid.UUID `json:"member_id"`
	AccountNumber string    `json:"account_number"`
	Variant       string    `json:"variant"`
	OpeningAmount string    `json:"opening_amount"`
	TellerID      uuid.UUID `json:"teller_id"`
}

// NewAccountOpened creates a new AccountOpened event.
func NewAccountOpened(accountID, memberID uuid.UUID, accountNumber, variant, openingAmount string, tellerID uuid.UUID) AccountOpened {
	return AccountOpened{
		BaseEvent:     newBaseEvent("account.opened", accountID, "Account"),
		MemberID:      memberID,
		AccountNumber: accountNumber,
		Variant:       variant,
		OpeningAmount: openingAmount,
		TellerID:      tellerID,
	}
}

// AccountStatusChanged is emitted on administrative account transitions.
type AccountStatusChanged struct {
	BaseEvent
	AccountNumber string `json:"account_number"`
	OldStatus     string `json:"old_status"`
	NewStatus     string `json:"new_status"`
}

// NewAccountStatusChanged creates a new AccountStatusChanged event.
func NewAccountStatusChanged(accountID uuid.UUID, accountNumber, oldStatus, newStatus string) AccountStatusChanged {
	return AccountStatusChanged{
		BaseEvent:     newBaseEvent("account.status_changed", accountID, "Account"),
		AccountNumber: accountNumber,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
	}
}

// TransactionPosted is emitted when a transaction completes locally.
type TransactionPosted struct {
	BaseEvent
	AccountID     *uuid.UUID `json:"account_id,omitempty"`
	Kind          string     `json:"kind"`
	Amount        string     `json:"amount"`
	ReceiptNumber string     `json:"receipt_number"`
	TellerID      uuid.UUID  `json:"teller_id"`
}

// NewTransactionPosted creates a new TransactionPosted event.
func NewTransactionPosted(transactionID uuid.UUID, accountID *uuid.UUID, kind, amount, receiptNumber string, tellerID uuid.UUID) TransactionPosted {
	return TransactionPosted{
		BaseEvent:     newBaseEvent("transaction.posted", transactionID, "Transaction"),
		AccountID:     accountID,
		Kind:          kind,
		Amount:        amount,
		ReceiptNumber: receiptNumber,
		TellerID:      tellerID,
	}
}

// CollectionPaymentApplied is emitted when a payment is applied to a
// collection item, whether or not it settles the item.
type CollectionPaymentApplied struct {
	BaseEvent
	MemberID    uuid.UUID `json:"member_id"`
	AmountPaid  string    `json:"amount_paid"`
	Outstanding string    `json:"outstanding"`
	Settled     bool      `json:"settled"`
	TellerID    uuid.UUID `json:"teller_id"`
}

// NewCollectionPaymentApplied creates a new CollectionPaymentApplied event.
func NewCollectionPaymentApplied(itemID, memberID uuid.UUID, amountPaid, outstanding string, settled bool, tellerID uuid.UUID) CollectionPaymentApplied {
	return CollectionPaymentApplied{
		BaseEvent:   newBaseEvent("collection.payment_applied", itemID, "CollectionItem"),
		MemberID:    memberID,
		AmountPaid:  amountPaid,
		Outstanding: outstanding,
		Settled:     settled,
		TellerID:    tellerID,
	}
}

// SyncCompleted is emitted after a full sync pass, successful or not.
type SyncCompleted struct {
	BaseEvent
	Succeeded []string `json:"succeeded"`
	Failed    []string `json:"failed"`
}

// NewSyncCompleted creates a new SyncCompleted event. The aggregate is the
// sync pass itself, identified by a fresh id.
func NewSyncCompleted(succeeded, failed []string) SyncCompleted {
	return SyncCompleted{
		BaseEvent: newBaseEvent("sync.completed", uuid.New(), "SyncPass"),
		Succeeded: succeeded,
		Failed:    failed,
	}
}
