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
	"github.com/coopandina/teller/internal/domain/money"
)

// TransactionRepository implements port.TransactionRepository using PostgreSQL.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a PostgreSQL-backed TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `
	id, account_id, kind, amount, status, teller_id, posted_at,
	receipt_number, note, collection_item_id
`

// Save inserts the transaction, or updates its status when the row already
// exists. Transactions are append-only; amount and posting fields never
// change after the first insert.
func (r *TransactionRepository) Save(ctx context.Context, txn model.Transaction) error {
	return insertTransaction(ctx, r.pool, txn)
}

func insertTransaction(ctx context.Context, db execer, txn model.Transaction) error {
	const sql = `
		INSERT INTO transactions (
			id, account_id, kind, amount, status, teller_id, posted_at,
			receipt_number, note, collection_item_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status
	`
	_, err := db.Exec(ctx, sql,
		txn.ID(), txn.AccountID(), string(txn.Kind()), txn.Amount().Amount(),
		string(txn.Status()), txn.TellerID(), txn.PostedAt(),
		txn.ReceiptNumber(), txn.Note(), txn.CollectionItemID(),
	)
	if err != nil {
		return fmt.Errorf("upsert transaction: %w", err)
	}
	return nil
}

// FindByID retrieves a transaction by id.
func (r *TransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (model.Transaction, error) {
	txn, err := scanTransaction(r.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Transaction{}, model.ErrTransactionNotFound
		}
		return model.Transaction{}, err
	}
	return txn, nil
}

// ListByAccount returns all transactions posted against the given account,
// newest first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]model.Transaction, error) {
	return r.list(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE account_id = $1 ORDER BY posted_at DESC`,
		accountID)
}

// ListByDateRange returns transactions posted within [from, to), oldest
// first. Used for the end-of-day teller report.
func (r *TransactionRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]model.Transaction, error) {
	return r.list(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE posted_at >= $1 AND posted_at < $2 ORDER BY posted_at`,
		from, to)
}

// ListUnsynced returns COMPLETED transactions awaiting acknowledgement.
func (r *TransactionRepository) ListUnsynced(ctx context.Context) ([]model.Transaction, error) {
	return r.list(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE status = $1 ORDER BY posted_at`,
		string(model.TransactionStatusCompleted))
}

// MarkSynced transitions the given transactions to SYNCED.
func (r *TransactionRepository) MarkSynced(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE transactions SET status = $1 WHERE id = ANY($2) AND status = $3`,
		string(model.TransactionStatusSynced), ids, string(model.TransactionStatusCompleted))
	if err != nil {
		return fmt.Errorf("mark transactions synced: %w", err)
	}
	return nil
}

func (r *TransactionRepository) list(ctx context.Context, sql string, args ...any) ([]model.Transaction, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

func scanTransaction(row pgx.Row) (model.Transaction, error) {
	var (
		id               uuid.UUID
		accountID        *uuid.UUID
		kind             string
		amount           decimal.Decimal
		status           string
		tellerID         uuid.UUID
		postedAt         time.Time
		receiptNumber    string
		note             string
		collectionItemID *uuid.UUID
	)
	if err := row.Scan(
		&id, &accountID, &kind, &amount, &status, &tellerID, &postedAt,
		&receiptNumber, &note, &collectionItemID,
	); err != nil {
		return model.Transaction{}, err
	}

	return model.ReconstructTransaction(
		id, accountID, model.TransactionKind(kind), money.New(amount, money.PEN),
		model.TransactionStatus(status), tellerID, postedAt,
		receiptNumber, note, collectionItemID,
	), nil
}
