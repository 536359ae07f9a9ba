package model

import "errors"

// Sentinel errors shared by the domain, repositories, and use-cases.
// Repositories return the not-found errors; the aggregates and use-cases
// return the rest. All of them fire before any mutation is persisted.
var (
	ErrMemberNotFound      = errors.New("member not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrLoanNotFound        = errors.New("loan not found")
	ErrCollectionNotFound  = errors.New("collection item not found")

	ErrInvalidAmount            = errors.New("invalid amount")
	ErrAccountInactive          = errors.New("account is not active")
	ErrCollectionPaid           = errors.New("collection item already paid")
	ErrCollectionCancelled      = errors.New("collection item cancelled")
	ErrAmountExceedsOutstanding = errors.New("payment exceeds outstanding amount")

	// ErrVersionConflict reports an optimistic-concurrency clash: the stored
	// aggregate moved on while this copy was being mutated.
	ErrVersionConflict = errors.New("version conflict")
)
