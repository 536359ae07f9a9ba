package valueobject

import (
	"errors"
	"fmt"
)

// LoanStatus represents the lifecycle stage of a loan.
type LoanStatus struct {
	value string
}

const (
	loanStatusActive    = "ACTIVE"
	loanStatusOverdue   = "OVERDUE"
	loanStatusPaid      = "PAID"
	loanStatusCancelled = "CANCELLED"
	loanStatusInArrears = "IN_ARREARS"
)

var (
	LoanStatusActive    = LoanStatus{value: loanStatusActive}
	LoanStatusOverdue   = LoanStatus{value: loanStatusOverdue}
	LoanStatusPaid      = LoanStatus{value: loanStatusPaid}
	LoanStatusCancelled = LoanStatus{value: loanStatusCancelled}
	LoanStatusInArrears = LoanStatus{value: loanStatusInArrears}
)

var validLoanStatuses = map[string]LoanStatus{
	loanStatusActive:    LoanStatusActive,
	loanStatusOverdue:   LoanStatusOverdue,
	loanStatusPaid:      LoanStatusPaid,
	loanStatusCancelled: LoanStatusCancelled,
	loanStatusInArrears: LoanStatusInArrears,
}

// NewLoanStatus creates a LoanStatus from a raw string.
func NewLoanStatus(s string) (LoanStatus, error) {
	v, ok := validLoanStatuses[s]
	if !ok {
		return LoanStatus{}, fmt.Errorf("invalid loan status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s LoanStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s LoanStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s LoanStatus) Equal(other LoanStatus) bool {
	return s.value == other.value
}

// ErrInvalidStatusTransition is returned when an aggregate is asked to move
// to a state its current status does not permit.
var ErrInvalidStatusTransition = errors.New("invalid status transition")
