package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/coopandina/teller/internal/application/dto"
	"github.com/coopandina/teller/internal/domain/event"
	"github.com/coopandina/teller/internal/domain/model"
	"github.com/coopandina/teller/internal/domain/port"
)

// Sync failure modes. They are reported per batch; no batch failure ever
// propagates into another batch or into a ledger operation.
var (
	ErrSyncInProgress = errors.New("sync already in progress for entity type")
	ErrNoConnectivity = errors.New("no connectivity to central store")
)

// SyncCoordinator drains locally COMPLETED records to the central store,
// independently per entity type. Uploads are idempotent upserts keyed by
// entity id, so a batch that failed halfway is safe to retry indefinitely.
// Sync runs in the background relative to ledger operations and never
// blocks them: records posted while a pass is running simply become
// eligible for the next pass.
type SyncCoordinator struct {
	members     port.MemberRepository
	accounts    port.AccountRepository
	txns        port.TransactionRepository
	collections port.CollectionRepository
	remote      port.RemoteStore
	publisher   port.EventPublisher
	logger      *slog.Logger

	// One lock per entity type: two passes over the same type must never
	// overlap, or the mark-after-ack bookkeeping stops being trivial.
	inFlight map[port.EntityType]*sync.Mutex
}

// NewSyncCoordinator wires dependencies.
func NewSyncCoordinator(
	members port.MemberRepository,
	accounts port.AccountRepository,
	txns port.TransactionRepository,
	collections port.CollectionRepository,
	remote port.RemoteStore,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *SyncCoordinator {
	inFlight := make(map[port.EntityType]*sync.Mutex, len(port.AllEntityTypes))
	for _, t := range port.AllEntityTypes {
		inFlight[t] = &sync.Mutex{}
	}
	return &SyncCoordinator{
		members:     members,
		accounts:    accounts,
		txns:        txns,
		collections: collections,
		remote:      remote,
		publisher:   publisher,
		logger:      logger,
		inFlight:    inFlight,
	}
}

// CheckConnectivity probes the central store. It never returns an error:
// probe failures, including timeouts, degrade to false.
func (c *SyncCoordinator) CheckConnectivity(ctx context.Context) bool {
	if err := c.remote.CheckHealth(ctx); err != nil {
		c.logger.Debug("connectivity probe failed", "error", err)
		return false
	}
	return true
}

// SyncBatch uploads the not-yet-synced records of one entity type and marks
// them SYNCED on acknowledgement. On any failure the whole batch is left
// untouched locally; partial remote acks are not modeled, so re-running
// after a failure re-upserts the same ids harmlessly.
func (c *SyncCoordinator) SyncBatch(ctx context.Context, entityType port.EntityType) dto.SyncBatchResult {
	result := dto.SyncBatchResult{EntityType: string(entityType)}

	mu, ok := c.inFlight[entityType]
	if !ok {
		result.Err = fmt.Errorf("unknown entity type %q", entityType)
		return result
	}
	if !mu.TryLock() {
		result.Err = ErrSyncInProgress
		return result
	}
	defer mu.Unlock()

	if !c.CheckConnectivity(ctx) {
		// One re-check before giving up: mobile links flap.
		if !c.CheckConnectivity(ctx) {
			result.Err = ErrNoConnectivity
			return result
		}
	}

	var err error
	switch entityType {
	case port.EntityTransactions:
		result.Attempted, result.Synced, err = c.syncTransactions(ctx)
	case port.EntityMembers:
		result.Attempted, result.Synced, err = c.syncMembers(ctx)
	case port.EntityAccounts:
		result.Attempted, result.Synced, err = c.syncAccounts(ctx)
	case port.EntityCollections:
		result.Attempted, result.Synced, err = c.syncCollections(ctx)
	}
	result.Err = err

	if err != nil {
		c.logger.Warn("sync batch failed", "entity_type", entityType, "error", err)
	} else if result.Attempted > 0 {
		c.logger.Info("sync batch completed", "entity_type", entityType, "synced", result.Synced)
	}
	return result
}

// SyncAll runs the per-type batches independently: one failing type never
// blocks or invalidates the others, and the pass is allowed to finish
// partially synced.
func (c *SyncCoordinator) SyncAll(ctx context.Context) dto.SyncReport {
	report := dto.SyncReport{StartedAt: time.Now().UTC()}

	for _, entityType := range port.AllEntityTypes {
		report.Batches = append(report.Batches, c.SyncBatch(ctx, entityType))
	}
	report.FinishedAt = time.Now().UTC()

	if c.publisher != nil {
		var succeeded, failed []string
		for _, b := range report.Batches {
			if b.Err != nil {
				failed = append(failed, b.EntityType)
			} else {
				succeeded = append(succeeded, b.EntityType)
			}
		}
		evt := event.NewSyncCompleted(succeeded, failed)
		if err := c.publisher.Publish(ctx, tellerEventsTopic, evt); err != nil {
			c.logger.Warn("failed to publish sync event", "error", err)
		}
	}

	return report
}

func (c *SyncCoordinator) syncTransactions(ctx context.Context) (attempted, synced int, err error) {
	txns, err := c.txns.ListUnsynced(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list unsynced transactions: %w", err)
	}
	if len(txns) == 0 {
		return 0, 0, nil
	}

	if err := c.remote.UpsertTransactions(ctx, txns); err != nil {
		return len(txns), 0, fmt.Errorf("upload transactions: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(txns))
	for _, t := range txns {
		if _, trErr := t.MarkSynced(); trErr != nil {
			// Only COMPLETED records are eligible; anything else in the
			// unsynced listing is a repository bug.
			return len(txns), 0, fmt.Errorf("transaction %s not in COMPLETED status: %w", t.ID(), trErr)
		}
		ids = append(ids, t.ID())
	}
	if err := c.txns.MarkSynced(ctx, ids); err != nil {
		return len(txns), 0, fmt.Errorf("mark transactions synced: %w", err)
	}
	return len(txns), len(ids), nil
}

func (c *SyncCoordinator) syncMembers(ctx context.Context) (attempted, synced int, err error) {
	members, err := c.members.ListUnsynced(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list unsynced members: %w", err)
	}
	if len(members) == 0 {
		return 0, 0, nil
	}

	if err := c.remote.UpsertMembers(ctx, members); err != nil {
		return len(members), 0, fmt.Errorf("upload members: %w", err)
	}

	ids := memberIDs(members)
	if err := c.members.MarkSynced(ctx, ids); err != nil {
		return len(members), 0, fmt.Errorf("mark members synced: %w", err)
	}
	return len(members), len(ids), nil
}

func (c *SyncCoordinator) syncAccounts(ctx context.Context) (attempted, synced int, err error) {
	accounts, err := c.accounts.ListUnsynced(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list unsynced accounts: %w", err)
	}
	if len(accounts) == 0 {
		return 0, 0, nil
	}

	if err := c.remote.UpsertAccounts(ctx, accounts); err != nil {
		return len(accounts), 0, fmt.Errorf("upload accounts: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(accounts))
	for _, a := range accounts {
		ids = append(ids, a.ID())
	}
	if err := c.accounts.MarkSynced(ctx, ids); err != nil {
		return len(accounts), 0, fmt.Errorf("mark accounts synced: %w", err)
	}
	return len(accounts), len(ids), nil
}

func (c *SyncCoordinator) syncCollections(ctx context.Context) (attempted, synced int, err error) {
	items, err := c.collections.ListUnsynced(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list unsynced collection items: %w", err)
	}
	if len(items) == 0 {
		return 0, 0, nil
	}

	if err := c.remote.UpsertCollectionItems(ctx, items); err != nil {
		return len(items), 0, fmt.Errorf("upload collection items: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, i := range items {
		ids = append(ids, i.ID())
	}
	if err := c.collections.MarkSynced(ctx, ids); err != nil {
		return len(items), 0, fmt.Errorf("mark collection items synced: %w", err)
	}
	return len(items), len(ids), nil
}

func memberIDs(members []model.Member) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID())
	}
	return ids
}
