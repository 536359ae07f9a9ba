package usecase_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/coopandina/teller/internal/domain/event"
	"github.com/coopandina/teller/internal/domain/model"
	"github.com/coopandina/teller/internal/domain/port"
	"github.com/coopandina/teller/internal/domain/valueobject"
)

// --- Mock implementations shared by the use-case tests ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type mockIDGenerator struct {
	accountSeq int
	receiptSeq int
}

func (m *mockIDGenerator) NewID() uuid.UUID { return uuid.New() }

func (m *mockIDGenerator) AccountNumber() valueobject.AccountNumber {
	m.accountSeq++
	n, err := valueobject.AccountNumberFromString(fmt.Sprintf("CAC-%08d", m.accountSeq))
	if err != nil {
		panic(err)
	}
	return n
}

func (m *mockIDGenerator) ReceiptNumber() string {
	m.receiptSeq++
	return fmt.Sprintf("REC-%06d", m.receiptSeq)
}

type mockMemberRepository struct {
	members      map[uuid.UUID]model.Member
	savedMembers []model.Member
	markedSynced []uuid.UUID
	listErr      error
}

func newMockMemberRepository(members ...model.Member) *mockMemberRepository {
	repo := &mockMemberRepository{members: make(map[uuid.UUID]model.Member)}
	for _, m := range members {
		repo.members[m.ID()] = m
	}
	return repo
}

func (m *mockMemberRepository) Save(ctx context.Context, member model.Member) error {
	m.savedMembers = append(m.savedMembers, member)
	m.members[member.ID()] = member
	return nil
}

func (m *mockMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (model.Member, error) {
	member, ok := m.members[id]
	if !ok {
		return model.Member{}, model.ErrMemberNotFound
	}
	return member, nil
}

func (m *mockMemberRepository) FindByDocument(ctx context.Context, documentNumber string) (model.Member, error) {
	for _, member := range m.members {
		if member.DocumentNumber() == documentNumber {
			return member, nil
		}
	}
	return model.Member{}, model.ErrMemberNotFound
}

func (m *mockMemberRepository) ListUnsynced(ctx context.Context) ([]model.Member, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []model.Member
	for _, member := range m.members {
		if !member.Synced() {
			out = append(out, member)
		}
	}
	return out, nil
}

func (m *mockMemberRepository) MarkSynced(ctx context.Context, ids []uuid.UUID) error {
	m.markedSynced = append(m.markedSynced, ids...)
	for _, id := range ids {
		if member, ok := m.members[id]; ok {
			m.members[id] = member.MarkSynced()
		}
	}
	return nil
}

type mockAccountRepository struct {
	accounts     map[uuid.UUID]model.Account
	savedTxns    []model.Transaction
	markedSynced []uuid.UUID

	// saveErrs is consumed one error per SaveWithTransaction/Save call;
	// nil entries mean success.
	saveErrs []error
	listErr  error
}

func newMockAccountRepository(accounts ...model.Account) *mockAccountRepository {
	repo := &mockAccountRepository{accounts: make(map[uuid.UUID]model.Account)}
	for _, a := range accounts {
		repo.accounts[a.ID()] = a
	}
	return repo
}

func (m *mockAccountRepository) nextSaveErr() error {
	if len(m.saveErrs) == 0 {
		return nil
	}
	err := m.saveErrs[0]
	m.saveErrs = m.saveErrs[1:]
	return err
}

func (m *mockAccountRepository) Save(ctx context.Context, account model.Account) error {
	if err := m.nextSaveErr(); err != nil {
		return err
	}
	m.accounts[account.ID()] = account
	return nil
}

func (m *mockAccountRepository) SaveWithTransaction(ctx context.Context, account model.Account, txn model.Transaction) error {
	if err := m.nextSaveErr(); err != nil {
		return err
	}
	m.accounts[account.ID()] = account
	m.savedTxns = append(m.savedTxns, txn)
	return nil
}

func (m *mockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	account, ok := m.accounts[id]
	if !ok {
		return model.Account{}, model.ErrAccountNotFound
	}
	return account, nil
}

func (m *mockAccountRepository) FindByNumber(ctx context.Context, number valueobject.AccountNumber) (model.Account, error) {
	for _, a := range m.accounts {
		if a.Number().Equal(number) {
			return a, nil
		}
	}
	return model.Account{}, model.ErrAccountNotFound
}

func (m *mockAccountRepository) ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.Account, error) {
	var out []model.Account
	for _, a := range m.accounts {
		if a.MemberID() == memberID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAccountRepository) ListByStatus(ctx context.Context, status model.AccountStatus) ([]model.Account, error) {
	var out []model.Account
	for _, a := range m.accounts {
		if a.Status() == status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAccountRepository) ListUnsynced(ctx context.Context) ([]model.Account, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []model.Account
	for _, a := range m.accounts {
		if !a.Synced() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAccountRepository) MarkSynced(ctx context.Context, ids []uuid.UUID) error {
	m.markedSynced = append(m.markedSynced, ids...)
	for _, id := range ids {
		if a, ok := m.accounts[id]; ok {
			m.accounts[id] = a.MarkSynced()
		}
	}
	return nil
}

type mockTransactionRepository struct {
	txns         map[uuid.UUID]model.Transaction
	markedSynced []uuid.UUID
	listErr      error
	markErr      error
}

func newMockTransactionRepository(txns ...model.Transaction) *mockTransactionRepository {
	repo := &mockTransactionRepository{txns: make(map[uuid.UUID]model.Transaction)}
	for _, txn := range txns {
		repo.txns[txn.ID()] = txn
	}
	return repo
}

func (m *mockTransactionRepository) Save(ctx context.Context, txn model.Transaction) error {
	m.txns[txn.ID()] = txn
	return nil
}

func (m *mockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (model.Transaction, error) {
	txn, ok := m.txns[id]
	if !ok {
		return model.Transaction{}, model.ErrTransactionNotFound
	}
	return txn, nil
}

func (m *mockTransactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]model.Transaction, error) {
	var out []model.Transaction
	for _, txn := range m.txns {
		if txn.AccountID() != nil && *txn.AccountID() == accountID {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (m *mockTransactionRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]model.Transaction, error) {
	var out []model.Transaction
	for _, txn := range m.txns {
		if !txn.PostedAt().Before(from) && txn.PostedAt().Before(to) {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (m *mockTransactionRepository) ListUnsynced(ctx context.Context) ([]model.Transaction, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []model.Transaction
	for _, txn := range m.txns {
		if txn.Status() == model.TransactionStatusCompleted {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (m *mockTransactionRepository) MarkSynced(ctx context.Context, ids []uuid.UUID) error {
	if m.markErr != nil {
		return m.markErr
	}
	m.markedSynced = append(m.markedSynced, ids...)
	for _, id := range ids {
		if txn, ok := m.txns[id]; ok {
			if synced, err := txn.MarkSynced(); err == nil {
				m.txns[id] = synced
			}
		}
	}
	return nil
}

type mockLoanRepository struct {
	loans map[uuid.UUID]model.Loan
}

func newMockLoanRepository(loans ...model.Loan) *mockLoanRepository {
	repo := &mockLoanRepository{loans: make(map[uuid.UUID]model.Loan)}
	for _, l := range loans {
		repo.loans[l.ID()] = l
	}
	return repo
}

func (m *mockLoanRepository) Save(ctx context.Context, loan model.Loan) error {
	m.loans[loan.ID()] = loan
	return nil
}

func (m *mockLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (model.Loan, error) {
	loan, ok := m.loans[id]
	if !ok {
		return model.Loan{}, model.ErrLoanNotFound
	}
	return loan, nil
}

func (m *mockLoanRepository) ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.Loan, error) {
	var out []model.Loan
	for _, l := range m.loans {
		if l.MemberID() == memberID {
			out = append(out, l)
		}
	}
	return out, nil
}

type mockCollectionRepository struct {
	items        map[uuid.UUID]model.CollectionItem
	savedTxns    []model.Transaction
	markedSynced []uuid.UUID
	saveErrs     []error
	listErr      error
}

func newMockCollectionRepository(items ...model.CollectionItem) *mockCollectionRepository {
	repo := &mockCollectionRepository{items: make(map[uuid.UUID]model.CollectionItem)}
	for _, item := range items {
		repo.items[item.ID()] = item
	}
	return repo
}

func (m *mockCollectionRepository) nextSaveErr() error {
	if len(m.saveErrs) == 0 {
		return nil
	}
	err := m.saveErrs[0]
	m.saveErrs = m.saveErrs[1:]
	return err
}

func (m *mockCollectionRepository) Save(ctx context.Context, item model.CollectionItem) error {
	if err := m.nextSaveErr(); err != nil {
		return err
	}
	m.items[item.ID()] = item
	return nil
}

func (m *mockCollectionRepository) SaveWithTransaction(ctx context.Context, item model.CollectionItem, txn model.Transaction) error {
	if err := m.nextSaveErr(); err != nil {
		return err
	}
	m.items[item.ID()] = item
	m.savedTxns = append(m.savedTxns, txn)
	return nil
}

func (m *mockCollectionRepository) FindByID(ctx context.Context, id uuid.UUID) (model.CollectionItem, error) {
	item, ok := m.items[id]
	if !ok {
		return model.CollectionItem{}, model.ErrCollectionNotFound
	}
	return item, nil
}

func (m *mockCollectionRepository) ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.CollectionItem, error) {
	var out []model.CollectionItem
	for _, item := range m.items {
		if item.MemberID() == memberID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockCollectionRepository) ListByStatus(ctx context.Context, status model.CollectionStatus) ([]model.CollectionItem, error) {
	var out []model.CollectionItem
	for _, item := range m.items {
		if item.Status() == status {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockCollectionRepository) ListUnsynced(ctx context.Context) ([]model.CollectionItem, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []model.CollectionItem
	for _, item := range m.items {
		if !item.Synced() {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockCollectionRepository) MarkSynced(ctx context.Context, ids []uuid.UUID) error {
	m.markedSynced = append(m.markedSynced, ids...)
	for _, id := range ids {
		if item, ok := m.items[id]; ok {
			m.items[id] = item.MarkSynced()
		}
	}
	return nil
}

type mockEventPublisher struct {
	publishedEvents []event.DomainEvent
	publishedTopic  string
	publishErr      error
}

func (m *mockEventPublisher) Publish(ctx context.Context, topic string, events ...event.DomainEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.publishedTopic = topic
	m.publishedEvents = append(m.publishedEvents, events...)
	return nil
}

type mockReceiptPrinter struct {
	printed  []port.Receipt
	printErr error
}

func (m *mockReceiptPrinter) Print(ctx context.Context, receipt port.Receipt) error {
	if m.printErr != nil {
		return m.printErr
	}
	m.printed = append(m.printed, receipt)
	return nil
}

type mockLocationProvider struct {
	coords model.Coordinates
	err    error
}

func (m *mockLocationProvider) CurrentLocation(ctx context.Context) (model.Coordinates, error) {
	if m.err != nil {
		return model.Coordinates{}, m.err
	}
	return m.coords, nil
}

type mockRemoteStore struct {
	healthErr error

	memberErr     error
	accountErr    error
	txnErr        error
	collectionErr error

	uploadedMembers     []model.Member
	uploadedAccounts    []model.Account
	uploadedTxns        []model.Transaction
	uploadedCollections []model.CollectionItem
}

func (m *mockRemoteStore) CheckHealth(ctx context.Context) error { return m.healthErr }

func (m *mockRemoteStore) UpsertMembers(ctx context.Context, members []model.Member) error {
	if m.memberErr != nil {
		return m.memberErr
	}
	m.uploadedMembers = append(m.uploadedMembers, members...)
	return nil
}

func (m *mockRemoteStore) UpsertAccounts(ctx context.Context, accounts []model.Account) error {
	if m.accountErr != nil {
		return m.accountErr
	}
	m.uploadedAccounts = append(m.uploadedAccounts, accounts...)
	return nil
}

func (m *mockRemoteStore) UpsertTransactions(ctx context.Context, txns []model.Transaction) error {
	if m.txnErr != nil {
		return m.txnErr
	}
	m.uploadedTxns = append(m.uploadedTxns, txns...)
	return nil
}

func (m *mockRemoteStore) UpsertCollectionItems(ctx context.Context, items []model.CollectionItem) error {
	if m.collectionErr != nil {
		return m.collectionErr
	}
	m.uploadedCollections = append(m.uploadedCollections, items...)
	return nil
}

// --- Shared fixtures ---

func newTestMember(t interface{ Fatal(args ...any) }) model.Member {
	member, err := model.NewMember(
		uuid.New(), "44556677", "Rosa", "Quispe",
		time.Date(1985, 6, 12, 0, 0, 0, 0, time.UTC),
		"Av. Los Andes 123", "987654321", "rosa@example.com",
		time.Now().UTC(),
	)
	if err != nil {
		t.Fatal(err)
	}
	return member
}
