package model

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstallmentEntry is one scheduled repayment unit (cuota) of a Loan. It is a
// value object; payment state is written by the collections engine and the
// overdue quantities are derived at read time, never persisted.
type InstallmentEntry struct {
	ID              uuid.UUID
	LoanID          uuid.UUID
	Number          int
	DueDate         time.Time
	ScheduledAmount decimal.Decimal
	Principal       decimal.Decimal
	Interest        decimal.Decimal
	AmountPaid      decimal.Decimal
	AccruedLateFee  decimal.Decimal
	PaidAt          *time.Time
	Paid            bool
}

// IsOverdue reports whether the installment's due date has passed without
// full payment, as of the given date.
func (e InstallmentEntry) IsOverdue(asOf time.Time) bool {
	return !e.Paid && e.DueDate.Before(asOf)
}

// DaysOverdue returns the whole days elapsed since the due date for an unpaid
// installment, and 0 otherwise.
func (e InstallmentEntry) DaysOverdue(asOf time.Time) int {
	if e.Paid || !e.DueDate.Before(asOf) {
		return 0
	}
	return int(asOf.Sub(e.DueDate).Hours() / 24)
}

// TotalDue is the scheduled amount plus the accrued late fee.
func (e InstallmentEntry) TotalDue() decimal.Decimal {
	return e.ScheduledAmount.Add(e.AccruedLateFee)
}

// RemainingDue is the total due minus what has been paid so far.
func (e InstallmentEntry) RemainingDue() decimal.Decimal {
	return e.TotalDue().Sub(e.AmountPaid)
}

// LateFee reproduces the day-based mora accrual for this installment:
// scheduled amount x daily rate x days overdue, rounded to cents. The stored
// AccruedLateFee is this same quantity frozen at the last write; callers that
// need a current figure recompute it here.
func (e InstallmentEntry) LateFee(dailyRate decimal.Decimal, asOf time.Time) decimal.Decimal {
	days := e.DaysOverdue(asOf)
	if days == 0 {
		return decimal.Zero
	}
	return e.ScheduledAmount.Mul(dailyRate).Mul(decimal.NewFromInt(int64(days))).Round(2)
}

// GenerateInstallmentSchedule computes a fixed-payment amortization schedule.
//
// Parameters:
//   - loanID:     owning loan
//   - principal:  the loan amount
//   - annualRate: annual interest rate as a fraction in (0, 1]
//   - termMonths: number of monthly periods
//   - startDate:  origination date; the first installment is due one month later
//
// The calculation uses:
//
//	monthlyRate = annualRate / 12
//	payment     = P * r * (1+r)^n / ((1+r)^n - 1)
//
// The ids of the generated entries come from newID so tests can supply a
// deterministic generator.
func GenerateInstallmentSchedule(
	loanID uuid.UUID,
	principal decimal.Decimal,
	annualRate decimal.Decimal,
	termMonths int,
	startDate time.Time,
	newID func() uuid.UUID,
) []InstallmentEntry {
	if termMonths <= 0 || principal.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	// float64 only for the power term; monetary arithmetic stays decimal.
	monthlyRate := annualRate.InexactFloat64() / 12.0

	n := float64(termMonths)
	var monthlyPayment decimal.Decimal

	if monthlyRate == 0 {
		// Zero-interest: even split.
		monthlyPayment = principal.Div(decimal.NewFromInt(int64(termMonths))).Round(2)
	} else {
		// P * r * (1+r)^n / ((1+r)^n - 1)
		factor := math.Pow(1+monthlyRate, n)
		paymentFloat := principal.InexactFloat64() * monthlyRate * factor / (factor - 1)
		monthlyPayment = decimal.NewFromFloat(paymentFloat).Round(2)
	}

	schedule := make([]InstallmentEntry, 0, termMonths)
	remaining := principal
	monthlyRateDec := decimal.NewFromFloat(monthlyRate)

	for period := 1; period <= termMonths; period++ {
		dueDate := startDate.AddDate(0, period, 0)

		interest := remaining.Mul(monthlyRateDec).Round(2)
		principalPart := monthlyPayment.Sub(interest)

		// Last period: absorb rounding so the balance reaches exactly zero.
		if period == termMonths {
			principalPart = remaining
			interest = remaining.Mul(monthlyRateDec).Round(2)
			monthlyPayment = principalPart.Add(interest)
		}

		remaining = remaining.Sub(principalPart)
		if remaining.LessThan(decimal.Zero) {
			remaining = decimal.Zero
		}

		schedule = append(schedule, InstallmentEntry{
			ID:              newID(),
			LoanID:          loanID,
			Number:          period,
			DueDate:         dueDate,
			ScheduledAmount: monthlyPayment,
			Principal:       principalPart,
			Interest:        interest,
			AmountPaid:      decimal.Zero,
			AccruedLateFee:  decimal.Zero,
		})
	}

	return schedule
}
