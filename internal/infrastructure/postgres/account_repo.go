package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/coopandina/teller/internal/domain/model"
	"github.com/coopandina/teller/internal/domain/money"
	"github.com/coopandina/teller/internal/domain/valueobject"
)

// execer is satisfied by both *pgxpool.Pool and pgx.Tx, letting the same
// statement run inside or outside an explicit transaction.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// AccountRepository implements port.AccountRepository using PostgreSQL.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a PostgreSQL-backed AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `
	id, account_number, member_id, variant, balance, status, opened_at,
	minor_member_id, guardian_member_id, term_days, maturity_date,
	target_amount, version, synced
`

// Save upserts the account. The update only applies when the stored version
// is exactly one behind the aggregate's, so a concurrent writer that got
// there first makes this call fail with ErrVersionConflict instead of
// silently overwriting its change.
func (r *AccountRepository) Save(ctx context.Context, account model.Account) error {
	return saveAccount(ctx, r.pool, account)
}

// SaveWithTransaction writes the account and its transaction record in one
// database transaction. Either both rows land or neither does.
func (r *AccountRepository) SaveWithTransaction(ctx context.Context, account model.Account, txn model.Transaction) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := saveAccount(ctx, tx, account); err != nil {
		return err
	}
	if err := insertTransaction(ctx, tx, txn); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit account with transaction: %w", err)
	}
	return nil
}

func saveAccount(ctx context.Context, db execer, account model.Account) error {
	const sql = `
		INSERT INTO accounts (
			id, account_number, member_id, variant, balance, status, opened_at,
			minor_member_id, guardian_member_id, term_days, maturity_date,
			target_amount, version, synced
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			balance = EXCLUDED.balance,
			status = EXCLUDED.status,
			version = EXCLUDED.version,
			synced = EXCLUDED.synced
		WHERE accounts.version = EXCLUDED.version - 1
	`

	var minorID, guardianID *uuid.UUID
	if account.MinorMemberID() != uuid.Nil {
		id := account.MinorMemberID()
		minorID = &id
	}
	if account.GuardianMemberID() != uuid.Nil {
		id := account.GuardianMemberID()
		guardianID = &id
	}

	var maturity *time.Time
	if !account.MaturityDate().IsZero() {
		m := account.MaturityDate()
		maturity = &m
	}

	var target *decimal.Decimal
	if t := account.TargetAmount(); t != nil {
		amount := t.Amount()
		target = &amount
	}

	result, err := db.Exec(ctx, sql,
		account.ID(), account.Number().String(), account.MemberID(),
		account.Variant().String(), account.Balance().Amount(),
		string(account.Status()), account.OpenedAt(),
		minorID, guardianID, account.Term().Days(), maturity,
		target, account.Version(), account.Synced(),
	)
	if err != nil {
		return fmt.Errorf("upsert account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrVersionConflict
	}
	return nil
}

// FindByID retrieves an account by id.
func (r *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

// FindByNumber retrieves an account by its human-readable number.
func (r *AccountRepository) FindByNumber(ctx context.Context, number valueobject.AccountNumber) (model.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_number = $1`, number.String())
}

// ListByMember returns all accounts held by the given member.
func (r *AccountRepository) ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.Account, error) {
	return r.list(ctx, `SELECT `+accountColumns+` FROM accounts WHERE member_id = $1 ORDER BY opened_at`, memberID)
}

// ListByStatus returns all accounts in the given lifecycle status.
func (r *AccountRepository) ListByStatus(ctx context.Context, status model.AccountStatus) ([]model.Account, error) {
	return r.list(ctx, `SELECT `+accountColumns+` FROM accounts WHERE status = $1 ORDER BY opened_at`, string(status))
}

// ListUnsynced returns accounts the central store has not acknowledged.
func (r *AccountRepository) ListUnsynced(ctx context.Context) ([]model.Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE NOT synced ORDER BY opened_at`)
	if err != nil {
		return nil, fmt.Errorf("list unsynced accounts: %w", err)
	}
	defer rows.Close()
	return collectAccounts(rows)
}

// MarkSynced flags the given accounts as acknowledged.
func (r *AccountRepository) MarkSynced(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `UPDATE accounts SET synced = TRUE WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("mark accounts synced: %w", err)
	}
	return nil
}

func (r *AccountRepository) findOne(ctx context.Context, sql string, arg any) (model.Account, error) {
	account, err := scanAccount(r.pool.QueryRow(ctx, sql, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrAccountNotFound
		}
		return model.Account{}, err
	}
	return account, nil
}

func (r *AccountRepository) list(ctx context.Context, sql string, arg any) ([]model.Account, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()
	return collectAccounts(rows)
}

func collectAccounts(rows pgx.Rows) ([]model.Account, error) {
	var accounts []model.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (model.Account, error) {
	var (
		id                  uuid.UUID
		number              string
		memberID            uuid.UUID
		variant             string
		balance             decimal.Decimal
		status              string
		openedAt            time.Time
		minorID, guardianID *uuid.UUID
		termDays            int
		maturity            *time.Time
		target              *decimal.Decimal
		version             int
		synced              bool
	)
	if err := row.Scan(
		&id, &number, &memberID, &variant, &balance, &status, &openedAt,
		&minorID, &guardianID, &termDays, &maturity, &target, &version, &synced,
	); err != nil {
		return model.Account{}, err
	}

	accountNumber, err := valueobject.AccountNumberFromString(number)
	if err != nil {
		return model.Account{}, fmt.Errorf("stored account number: %w", err)
	}
	accountVariant, err := valueobject.NewAccountVariant(variant)
	if err != nil {
		return model.Account{}, fmt.Errorf("stored account variant: %w", err)
	}

	var maturityDate time.Time
	if maturity != nil {
		maturityDate = *maturity
	}
	var targetAmount *money.Money
	if target != nil {
		t := money.New(*target, money.PEN)
		targetAmount = &t
	}

	return model.ReconstructAccount(
		id, accountNumber, memberID, accountVariant,
		money.New(balance, money.PEN), model.AccountStatus(status), openedAt,
		derefUUID(minorID), derefUUID(guardianID),
		valueobject.SavingsTerm(termDays), maturityDate, targetAmount,
		version, synced,
	), nil
}

func derefUUID(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}
