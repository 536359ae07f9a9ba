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
	"github.com/coopandina/teller/internal/domain/valueobject"
)

// CollectionRepository implements port.CollectionRepository using PostgreSQL.
type CollectionRepository struct {
	pool *pgxpool.Pool
}

// NewCollectionRepository creates a PostgreSQL-backed CollectionRepository.
func NewCollectionRepository(pool *pgxpool.Pool) *CollectionRepository {
	return &CollectionRepository{pool: pool}
}

const collectionColumns = `
	id, member_id, account_id, loan_id, installment_id, outstanding, original,
	accrued_late_fee, accrued_interest, due_date, status, kind, concept,
	installment_number, version, synced
`

// Save upserts the collection item with the same version guard as accounts:
// a stale aggregate version fails with ErrVersionConflict.
func (r *CollectionRepository) Save(ctx context.Context, item model.CollectionItem) error {
	return saveCollectionItem(ctx, r.pool, item)
}

// SaveWithTransaction writes the item and its payment transaction record in
// one database transaction.
func (r *CollectionRepository) SaveWithTransaction(ctx context.Context, item model.CollectionItem, txn model.Transaction) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := saveCollectionItem(ctx, tx, item); err != nil {
		return err
	}
	if err := insertTransaction(ctx, tx, txn); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit collection item with transaction: %w", err)
	}
	return nil
}

func saveCollectionItem(ctx context.Context, db execer, item model.CollectionItem) error {
	const sql = `
		INSERT INTO collection_items (
			id, member_id, account_id, loan_id, installment_id, outstanding,
			original, accrued_late_fee, accrued_interest, due_date, status,
			kind, concept, installment_number, version, synced
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			outstanding = EXCLUDED.outstanding,
			accrued_late_fee = EXCLUDED.accrued_late_fee,
			accrued_interest = EXCLUDED.accrued_interest,
			status = EXCLUDED.status,
			version = EXCLUDED.version,
			synced = EXCLUDED.synced
		WHERE collection_items.version = EXCLUDED.version - 1
	`
	result, err := db.Exec(ctx, sql,
		item.ID(), item.MemberID(), item.AccountID(), item.LoanID(), item.InstallmentID(),
		item.Outstanding().Amount(), item.Original().Amount(),
		item.AccruedLateFee().Amount(), item.AccruedInterest().Amount(),
		item.DueDate(), string(item.Status()), item.Kind().String(), item.Concept(),
		item.InstallmentNumber(), item.Version(), item.Synced(),
	)
	if err != nil {
		return fmt.Errorf("upsert collection item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrVersionConflict
	}
	return nil
}

// FindByID retrieves a collection item by id.
func (r *CollectionRepository) FindByID(ctx context.Context, id uuid.UUID) (model.CollectionItem, error) {
	item, err := scanCollectionItem(r.pool.QueryRow(ctx,
		`SELECT `+collectionColumns+` FROM collection_items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.CollectionItem{}, model.ErrCollectionNotFound
		}
		return model.CollectionItem{}, err
	}
	return item, nil
}

// ListByMember returns all collection items owed by the given member.
func (r *CollectionRepository) ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.CollectionItem, error) {
	return r.list(ctx,
		`SELECT `+collectionColumns+` FROM collection_items WHERE member_id = $1 ORDER BY due_date`,
		memberID)
}

// ListByStatus returns items filtered by stored status. OVERDUE is derived,
// not stored, so callers asking for it get PENDING items past their due date.
func (r *CollectionRepository) ListByStatus(ctx context.Context, status model.CollectionStatus) ([]model.CollectionItem, error) {
	if status == model.CollectionStatusOverdue {
		return r.list(ctx,
			`SELECT `+collectionColumns+` FROM collection_items WHERE status = $1 AND due_date < NOW() ORDER BY due_date`,
			string(model.CollectionStatusPending))
	}
	return r.list(ctx,
		`SELECT `+collectionColumns+` FROM collection_items WHERE status = $1 ORDER BY due_date`,
		string(status))
}

// ListUnsynced returns items the central store has not acknowledged.
func (r *CollectionRepository) ListUnsynced(ctx context.Context) ([]model.CollectionItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+collectionColumns+` FROM collection_items WHERE NOT synced ORDER BY due_date`)
	if err != nil {
		return nil, fmt.Errorf("list unsynced collection items: %w", err)
	}
	defer rows.Close()
	return collectCollectionItems(rows)
}

// MarkSynced flags the given items as acknowledged.
func (r *CollectionRepository) MarkSynced(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `UPDATE collection_items SET synced = TRUE WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("mark collection items synced: %w", err)
	}
	return nil
}

func (r *CollectionRepository) list(ctx context.Context, sql string, args ...any) ([]model.CollectionItem, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list collection items: %w", err)
	}
	defer rows.Close()
	return collectCollectionItems(rows)
}

func collectCollectionItems(rows pgx.Rows) ([]model.CollectionItem, error) {
	var items []model.CollectionItem
	for rows.Next() {
		item, err := scanCollectionItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanCollectionItem(row pgx.Row) (model.CollectionItem, error) {
	var (
		id, memberID                     uuid.UUID
		accountID, loanID, installmentID *uuid.UUID
		outstanding, original            decimal.Decimal
		lateFee, interest                decimal.Decimal
		dueDate                          time.Time
		status, kindRaw, concept         string
		installmentNumber                *int
		version                          int
		synced                           bool
	)
	if err := row.Scan(
		&id, &memberID, &accountID, &loanID, &installmentID, &outstanding, &original,
		&lateFee, &interest, &dueDate, &status, &kindRaw, &concept,
		&installmentNumber, &version, &synced,
	); err != nil {
		return model.CollectionItem{}, err
	}

	kind, err := valueobject.NewCollectionKind(kindRaw)
	if err != nil {
		return model.CollectionItem{}, fmt.Errorf("stored collection kind: %w", err)
	}

	return model.ReconstructCollectionItem(
		id, memberID, accountID, loanID, installmentID,
		money.New(outstanding, money.PEN), money.New(original, money.PEN),
		money.New(lateFee, money.PEN), money.New(interest, money.PEN),
		dueDate, model.CollectionStatus(status), kind, concept,
		installmentNumber, version, synced,
	), nil
}
