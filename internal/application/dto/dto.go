package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpenAccountRequest carries the teller's input for opening an account.
// Variant-specific fields are consulted only for their variant.
type OpenAccountRequest struct {
	MemberID      uuid.UUID
	Variant       string
	InitialAmount decimal.Decimal
	TellerID      uuid.UUID
	TellerName    string

	// MINOR variant.
	MinorMemberID    uuid.UUID
	GuardianMemberID uuid.UUID

	// FUTURE_SAVINGS variant.
	TermDays     int
	TargetAmount *decimal.Decimal

	// CaptureLocation asks the registry to attach a GPS fix to the member's
	// address record when the device can provide one.
	CaptureLocation bool
}

// OpenAccountResponse reports the created account.
type OpenAccountResponse struct {
	AccountID     uuid.UUID
	AccountNumber string
	Variant       string
	Balance       decimal.Decimal
	Status        string
	OpenedAt      time.Time
	ReceiptNumber string
}

// DepositRequest carries the teller's input for a cash deposit.
type DepositRequest struct {
	AccountID  uuid.UUID
	Amount     decimal.Decimal
	TellerID   uuid.UUID
	TellerName string
	Note       string
}

// DepositResponse reports the posted deposit.
type DepositResponse struct {
	TransactionID uuid.UUID
	AccountID     uuid.UUID
	NewBalance    decimal.Decimal
	ReceiptNumber string
	PostedAt      time.Time
}

// PayCollectionItemRequest carries the teller's input for a debt payment.
type PayCollectionItemRequest struct {
	CollectionItemID uuid.UUID
	Amount           decimal.Decimal
	TellerID         uuid.UUID
	TellerName       string
	Note             string
}

// PayCollectionItemResponse reports the applied payment.
type PayCollectionItemResponse struct {
	TransactionID uuid.UUID
	Outstanding   decimal.Decimal
	Status        string
	ReceiptNumber string
	PostedAt      time.Time
}

// GetAccountResponse is a read-model view of one account.
type GetAccountResponse struct {
	AccountID     uuid.UUID
	AccountNumber string
	MemberID      uuid.UUID
	Variant       string
	Balance       decimal.Decimal
	Status        string
	OpenedAt      time.Time
	TermDays      int
	MaturityDate  time.Time
	TargetAmount  *decimal.Decimal
}

// InstallmentView is the read-time projection of one installment, with the
// overdue quantities reproduced as of the statement date.
type InstallmentView struct {
	Number         int
	DueDate        time.Time
	Scheduled      decimal.Decimal
	Principal      decimal.Decimal
	Interest       decimal.Decimal
	AmountPaid     decimal.Decimal
	AccruedLateFee decimal.Decimal
	TotalDue       decimal.Decimal
	RemainingDue   decimal.Decimal
	DaysOverdue    int
	Paid           bool
	Overdue        bool
}

// LoanStatementResponse aggregates a loan's position as of a date.
type LoanStatementResponse struct {
	LoanID               uuid.UUID
	MemberID             uuid.UUID
	Status               string
	OriginalAmount       decimal.Decimal
	OutstandingPrincipal decimal.Decimal
	TotalLateFee         decimal.Decimal
	PendingInterest      decimal.Decimal
	AsOf                 time.Time
	Installments         []InstallmentView
}

// SyncBatchResult reports one entity type's sync outcome.
type SyncBatchResult struct {
	EntityType string
	Attempted  int
	Synced     int
	Err        error
}

// SyncReport aggregates the per-type results of a full sync pass.
type SyncReport struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Batches    []SyncBatchResult
}

// AllSucceeded reports whether every batch completed without error.
func (r SyncReport) AllSucceeded() bool {
	for _, b := range r.Batches {
		if b.Err != nil {
			return false
		}
	}
	return true
}
