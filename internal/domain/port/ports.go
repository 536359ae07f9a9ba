package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coopandina/teller/internal/domain/event"
	"github.com/coopandina/teller/internal/domain/model"
	"github.com/coopandina/teller/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// ID generation
// ---------------------------------------------------------------------------

// IDGenerator produces entity ids, account numbers, and receipt numbers.
// Injected so tests can supply deterministic values; numbers must be
// collision-free within a run.
type IDGenerator interface {
	NewID() uuid.UUID
	AccountNumber() valueobject.AccountNumber
	ReceiptNumber() string
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to the cooperative bus.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// External service ports
// ---------------------------------------------------------------------------

// EntityType names one independently synchronized record class.
type EntityType string

const (
	EntityTransactions EntityType = "transactions"
	EntityMembers      EntityType = "members"
	EntityAccounts     EntityType = "accounts"
	EntityCollections  EntityType = "collections"
)

// AllEntityTypes lists every record class the sync coordinator drains, in
// upload order.
var AllEntityTypes = []EntityType{EntityTransactions, EntityMembers, EntityAccounts, EntityCollections}

// RemoteStore is the central system of record. Uploads are idempotent
// upserts keyed by entity id: re-sending a record the remote already holds
// must not create a duplicate.
type RemoteStore interface {
	// CheckHealth probes the remote within the client's bounded timeout.
	CheckHealth(ctx context.Context) error

	UpsertMembers(ctx context.Context, members []model.Member) error
	UpsertAccounts(ctx context.Context, accounts []model.Account) error
	UpsertTransactions(ctx context.Context, txns []model.Transaction) error
	UpsertCollectionItems(ctx context.Context, items []model.CollectionItem) error
}

// LocationProvider captures the device's current GPS position. It is
// fallible and optional: no permission or no signal is an error the caller
// may ignore.
type LocationProvider interface {
	CurrentLocation(ctx context.Context) (model.Coordinates, error)
}

// Receipt is the printable summary of a posted operation.
type Receipt struct {
	ReceiptNumber string
	Date          time.Time
	MemberName    string
	AccountNumber string
	Concept       string
	Amount        string
	TellerName    string
	Kind          string
}

// ReceiptPrinter renders a teller receipt. Printing happens after the
// transaction is committed, so a failure here never rolls anything back.
type ReceiptPrinter interface {
	Print(ctx context.Context, receipt Receipt) error
}
