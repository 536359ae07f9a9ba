package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coopandina/teller/internal/domain/model"
	"github.com/coopandina/teller/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// MemberRepository persists and retrieves cooperative members.
type MemberRepository interface {
	Save(ctx context.Context, member model.Member) error
	FindByID(ctx context.Context, id uuid.UUID) (model.Member, error)
	FindByDocument(ctx context.Context, documentNumber string) (model.Member, error)
	ListUnsynced(ctx context.Context) ([]model.Member, error)
	MarkSynced(ctx context.Context, ids []uuid.UUID) error
}

// AccountRepository persists and retrieves member accounts.
type AccountRepository interface {
	// Save upserts the account. Existing rows are guarded by the aggregate
	// version; a stale version returns model.ErrVersionConflict.
	Save(ctx context.Context, account model.Account) error

	// SaveWithTransaction writes the account and appends the transaction in a
	// single database transaction, so no caller ever observes a balance change
	// without its transaction record or vice versa. The same version guard
	// applies.
	SaveWithTransaction(ctx context.Context, account model.Account, txn model.Transaction) error

	FindByID(ctx context.Context, id uuid.UUID) (model.Account, error)
	FindByNumber(ctx context.Context, number valueobject.AccountNumber) (model.Account, error)
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.Account, error)
	ListByStatus(ctx context.Context, status model.AccountStatus) ([]model.Account, error)
	ListUnsynced(ctx context.Context) ([]model.Account, error)
	MarkSynced(ctx context.Context, ids []uuid.UUID) error
}

// TransactionRepository persists and retrieves posted transactions.
type TransactionRepository interface {
	Save(ctx context.Context, txn model.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (model.Transaction, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]model.Transaction, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]model.Transaction, error)
	ListUnsynced(ctx context.Context) ([]model.Transaction, error)
	MarkSynced(ctx context.Context, ids []uuid.UUID) error
}

// LoanRepository persists and retrieves loans with their schedules.
type LoanRepository interface {
	Save(ctx context.Context, loan model.Loan) error
	FindByID(ctx context.Context, id uuid.UUID) (model.Loan, error)
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.Loan, error)
}

// CollectionRepository persists and retrieves collection items.
type CollectionRepository interface {
	// Save upserts the item with the same version guard as AccountRepository.
	Save(ctx context.Context, item model.CollectionItem) error

	// SaveWithTransaction writes the item and appends the payment transaction
	// atomically.
	SaveWithTransaction(ctx context.Context, item model.CollectionItem, txn model.Transaction) error

	FindByID(ctx context.Context, id uuid.UUID) (model.CollectionItem, error)
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.CollectionItem, error)
	ListByStatus(ctx context.Context, status model.CollectionStatus) ([]model.CollectionItem, error)
	ListUnsynced(ctx context.Context) ([]model.CollectionItem, error)
	MarkSynced(ctx context.Context, ids []uuid.UUID) error
}
