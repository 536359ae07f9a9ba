package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coopandina/teller/internal/application/dto"
	"github.com/coopandina/teller/internal/domain/port"
)

// GetLoanStatementUseCase projects a loan's position with all the overdue
// quantities reproduced at read time. Nothing here writes: days overdue and
// mora are recomputed from due dates against the statement date.
type GetLoanStatementUseCase struct {
	loans         port.LoanRepository
	dailyMoraRate decimal.Decimal
	logger        *slog.Logger
}

// NewGetLoanStatementUseCase wires dependencies. dailyMoraRate is the
// cooperative's daily late-fee rate as a fraction (e.g. 0.001 = 0.1%/day).
func NewGetLoanStatementUseCase(loans port.LoanRepository, dailyMoraRate decimal.Decimal, logger *slog.Logger) *GetLoanStatementUseCase {
	return &GetLoanStatementUseCase{loans: loans, dailyMoraRate: dailyMoraRate, logger: logger}
}

// Execute builds the statement as of the given date. A zero asOf means now.
func (uc *GetLoanStatementUseCase) Execute(ctx context.Context, loanID uuid.UUID, asOf time.Time) (dto.LoanStatementResponse, error) {
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	loan, err := uc.loans.FindByID(ctx, loanID)
	if err != nil {
		return dto.LoanStatementResponse{}, fmt.Errorf("find loan %s: %w", loanID, err)
	}

	installments := loan.Installments()
	views := make([]dto.InstallmentView, 0, len(installments))
	for _, e := range installments {
		lateFee := e.AccruedLateFee
		if e.IsOverdue(asOf) {
			lateFee = e.LateFee(uc.dailyMoraRate, asOf)
		}
		view := dto.InstallmentView{
			Number:         e.Number,
			DueDate:        e.DueDate,
			Scheduled:      e.ScheduledAmount,
			Principal:      e.Principal,
			Interest:       e.Interest,
			AmountPaid:     e.AmountPaid,
			AccruedLateFee: lateFee,
			TotalDue:       e.ScheduledAmount.Add(lateFee),
			RemainingDue:   e.ScheduledAmount.Add(lateFee).Sub(e.AmountPaid),
			DaysOverdue:    e.DaysOverdue(asOf),
			Paid:           e.Paid,
			Overdue:        e.IsOverdue(asOf),
		}
		views = append(views, view)
	}

	return dto.LoanStatementResponse{
		LoanID:               loan.ID(),
		MemberID:             loan.MemberID(),
		Status:               loan.Status().String(),
		OriginalAmount:       loan.OriginalAmount(),
		OutstandingPrincipal: loan.OutstandingPrincipal(),
		TotalLateFee:         loan.TotalLateFee(uc.dailyMoraRate, asOf),
		PendingInterest:      loan.PendingInterest(),
		AsOf:                 asOf,
		Installments:         views,
	}, nil
}
