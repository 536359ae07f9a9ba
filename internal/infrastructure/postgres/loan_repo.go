package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/coopandina/teller/internal/domain/model"
	"github.com/coopandina/teller/internal/domain/valueobject"
)

// LoanRepository implements port.LoanRepository using PostgreSQL. The loan
// row and its installment rows are always written together.
type LoanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository creates a PostgreSQL-backed LoanRepository.
func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

// Save upserts the loan and its full installment schedule in one database
// transaction.
func (r *LoanRepository) Save(ctx context.Context, loan model.Loan) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin loan save: %w", err)
	}
	defer tx.Rollback(ctx)

	const loanSQL = `
		INSERT INTO loans (
			id, member_id, original_amount, outstanding_principal, annual_rate,
			term_months, originated_at, maturity_date, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			outstanding_principal = EXCLUDED.outstanding_principal,
			status = EXCLUDED.status
	`
	_, err = tx.Exec(ctx, loanSQL,
		loan.ID(), loan.MemberID(), loan.OriginalAmount(), loan.OutstandingPrincipal(),
		loan.AnnualRate(), loan.TermMonths(), loan.OriginatedAt(), loan.MaturityDate(),
		loan.Status().String(),
	)
	if err != nil {
		return fmt.Errorf("upsert loan: %w", err)
	}

	const entrySQL = `
		INSERT INTO installments (
			id, loan_id, number, due_date, scheduled_amount, principal,
			interest, amount_paid, accrued_late_fee, paid_at, paid
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (loan_id, number) DO UPDATE SET
			amount_paid = EXCLUDED.amount_paid,
			accrued_late_fee = EXCLUDED.accrued_late_fee,
			paid_at = EXCLUDED.paid_at,
			paid = EXCLUDED.paid
	`
	for _, e := range loan.Installments() {
		_, err = tx.Exec(ctx, entrySQL,
			e.ID, e.LoanID, e.Number, e.DueDate, e.ScheduledAmount, e.Principal,
			e.Interest, e.AmountPaid, e.AccruedLateFee, e.PaidAt, e.Paid,
		)
		if err != nil {
			return fmt.Errorf("upsert installment %d: %w", e.Number, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit loan save: %w", err)
	}
	return nil
}

// FindByID retrieves a loan and its installment schedule.
func (r *LoanRepository) FindByID(ctx context.Context, id uuid.UUID) (model.Loan, error) {
	loan, err := r.scanLoanRow(ctx, r.pool.QueryRow(ctx, `
		SELECT id, member_id, original_amount, outstanding_principal, annual_rate,
		       term_months, originated_at, maturity_date, status
		FROM loans WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Loan{}, model.ErrLoanNotFound
		}
		return model.Loan{}, err
	}
	return loan, nil
}

// ListByMember returns all loans held by the given member, with schedules.
func (r *LoanRepository) ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.Loan, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, member_id, original_amount, outstanding_principal, annual_rate,
		       term_months, originated_at, maturity_date, status
		FROM loans WHERE member_id = $1 ORDER BY originated_at`, memberID)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	defer rows.Close()

	var loans []model.Loan
	for rows.Next() {
		loan, err := r.scanLoanRow(ctx, rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

func (r *LoanRepository) scanLoanRow(ctx context.Context, row pgx.Row) (model.Loan, error) {
	var (
		id, memberID                      uuid.UUID
		original, outstanding, annualRate decimal.Decimal
		termMonths                        int
		originatedAt, maturityDate        time.Time
		statusRaw                         string
	)
	if err := row.Scan(
		&id, &memberID, &original, &outstanding, &annualRate,
		&termMonths, &originatedAt, &maturityDate, &statusRaw,
	); err != nil {
		return model.Loan{}, err
	}

	status, err := valueobject.NewLoanStatus(statusRaw)
	if err != nil {
		return model.Loan{}, fmt.Errorf("stored loan status: %w", err)
	}

	installments, err := r.loadInstallments(ctx, id)
	if err != nil {
		return model.Loan{}, err
	}

	return model.ReconstructLoan(
		id, memberID, original, outstanding, annualRate,
		termMonths, originatedAt, maturityDate, status, installments,
	), nil
}

func (r *LoanRepository) loadInstallments(ctx context.Context, loanID uuid.UUID) ([]model.InstallmentEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, loan_id, number, due_date, scheduled_amount, principal,
		       interest, amount_paid, accrued_late_fee, paid_at, paid
		FROM installments WHERE loan_id = $1 ORDER BY number`, loanID)
	if err != nil {
		return nil, fmt.Errorf("load installments: %w", err)
	}
	defer rows.Close()

	var entries []model.InstallmentEntry
	for rows.Next() {
		var e model.InstallmentEntry
		if err := rows.Scan(
			&e.ID, &e.LoanID, &e.Number, &e.DueDate, &e.ScheduledAmount, &e.Principal,
			&e.Interest, &e.AmountPaid, &e.AccruedLateFee, &e.PaidAt, &e.Paid,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
