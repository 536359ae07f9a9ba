package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coopandina/teller/internal/domain/valueobject"
)

// Loan is an immutable aggregate tracking a member loan and its installment
// schedule. Mutations return a new copy.
type Loan struct {
	id                   uuid.UUID
	memberID             uuid.UUID
	originalAmount       decimal.Decimal
	outstandingPrincipal decimal.Decimal
	annualRate           decimal.Decimal
	termMonths           int
	originatedAt         time.Time
	maturityDate         time.Time
	status               valueobject.LoanStatus
	installments         []InstallmentEntry
}

// NewLoan creates an ACTIVE loan and generates its installment schedule.
// The annual rate is a fraction in (0, 1].
func NewLoan(
	id uuid.UUID,
	memberID uuid.UUID,
	amount decimal.Decimal,
	annualRate decimal.Decimal,
	termMonths int,
	originatedAt time.Time,
	newID func() uuid.UUID,
) (Loan, error) {
	if id == uuid.Nil {
		return Loan{}, fmt.Errorf("loan ID is required")
	}
	if memberID == uuid.Nil {
		return Loan{}, fmt.Errorf("member ID is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return Loan{}, ErrInvalidAmount
	}
	if annualRate.LessThanOrEqual(decimal.Zero) || annualRate.GreaterThan(decimal.NewFromInt(1)) {
		return Loan{}, fmt.Errorf("annual rate must be a fraction in (0, 1]")
	}
	if termMonths <= 0 {
		return Loan{}, fmt.Errorf("term months must be positive")
	}

	return Loan{
		id:                   id,
		memberID:             memberID,
		originalAmount:       amount,
		outstandingPrincipal: amount,
		annualRate:           annualRate,
		termMonths:           termMonths,
		originatedAt:         originatedAt,
		maturityDate:         originatedAt.AddDate(0, termMonths, 0),
		status:               valueobject.LoanStatusActive,
		installments:         GenerateInstallmentSchedule(id, amount, annualRate, termMonths, originatedAt, newID),
	}, nil
}

// ReconstructLoan rebuilds a Loan aggregate from persistence.
func ReconstructLoan(
	id, memberID uuid.UUID,
	originalAmount, outstandingPrincipal, annualRate decimal.Decimal,
	termMonths int,
	originatedAt, maturityDate time.Time,
	status valueobject.LoanStatus,
	installments []InstallmentEntry,
) Loan {
	return Loan{
		id:                   id,
		memberID:             memberID,
		originalAmount:       originalAmount,
		outstandingPrincipal: outstandingPrincipal,
		annualRate:           annualRate,
		termMonths:           termMonths,
		originatedAt:         originatedAt,
		maturityDate:         maturityDate,
		status:               status,
		installments:         installments,
	}
}

// ReducePrincipal applies a principal repayment. A loan whose outstanding
// principal reaches zero transitions to PAID.
func (l Loan) ReducePrincipal(amount decimal.Decimal) (Loan, error) {
	if !l.status.Equal(valueobject.LoanStatusActive) && !l.status.Equal(valueobject.LoanStatusOverdue) &&
		!l.status.Equal(valueobject.LoanStatusInArrears) {
		return l, valueobject.ErrInvalidStatusTransition
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return l, ErrInvalidAmount
	}
	if amount.GreaterThan(l.outstandingPrincipal) {
		return l, ErrAmountExceedsOutstanding
	}

	next := l
	next.outstandingPrincipal = l.outstandingPrincipal.Sub(amount)
	if next.outstandingPrincipal.IsZero() {
		next.status = valueobject.LoanStatusPaid
	}
	return next, nil
}

// MarkInstallmentPaid records a payment against one installment entry and
// returns the updated aggregate.
func (l Loan) MarkInstallmentPaid(number int, amount decimal.Decimal, paidAt time.Time) (Loan, error) {
	if number < 1 || number > len(l.installments) {
		return l, fmt.Errorf("installment %d out of range", number)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return l, ErrInvalidAmount
	}

	next := l
	next.installments = l.Installments()
	entry := &next.installments[number-1]

	remaining := entry.RemainingDue()
	if amount.GreaterThan(remaining) {
		return l, ErrAmountExceedsOutstanding
	}

	entry.AmountPaid = entry.AmountPaid.Add(amount)
	if entry.AmountPaid.GreaterThanOrEqual(entry.TotalDue()) {
		entry.Paid = true
		t := paidAt
		entry.PaidAt = &t
	}
	return next, nil
}

// TotalLateFee sums the current mora accrual over unpaid overdue
// installments, reproduced at read time with the given daily rate.
func (l Loan) TotalLateFee(dailyRate decimal.Decimal, asOf time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, e := range l.installments {
		if e.IsOverdue(asOf) {
			total = total.Add(e.LateFee(dailyRate, asOf))
		}
	}
	return total
}

// PendingInterest sums the interest portion over unpaid installments.
func (l Loan) PendingInterest() decimal.Decimal {
	total := decimal.Zero
	for _, e := range l.installments {
		if !e.Paid {
			total = total.Add(e.Interest)
		}
	}
	return total
}

// --- Accessors ---

func (l Loan) ID() uuid.UUID                         { return l.id }
func (l Loan) MemberID() uuid.UUID                   { return l.memberID }
func (l Loan) OriginalAmount() decimal.Decimal       { return l.originalAmount }
func (l Loan) OutstandingPrincipal() decimal.Decimal { return l.outstandingPrincipal }
func (l Loan) AnnualRate() decimal.Decimal           { return l.annualRate }
func (l Loan) TermMonths() int                       { return l.termMonths }
func (l Loan) OriginatedAt() time.Time               { return l.originatedAt }
func (l Loan) MaturityDate() time.Time               { return l.maturityDate }
func (l Loan) Status() valueobject.LoanStatus        { return l.status }

// Installments returns a defensive copy of the schedule.
func (l Loan) Installments() []InstallmentEntry {
	if l.installments == nil {
		return nil
	}
	out := make([]InstallmentEntry, len(l.installments))
	copy(out, l.installments)
	return out
}
