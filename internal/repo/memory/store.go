package memory

import (
	"context"
	"sync"

	"github.com/GlebRadaev/marketplace/internal/domain"
)

type txMarker struct{}

// Store keeps users, listings and the ledger in process memory, in insertion
// order. A transaction holds the store lock for its whole duration.
type Store struct {
	mu           sync.Mutex
	users        []domain.User
	items        []domain.Item
	transactions []domain.Transaction
}

func NewStore() *Store {
	return &Store{}
}

// lock takes the store lock unless ctx already runs inside this store's
// transaction.
func (s *Store) lock(ctx context.Context) func() {
	if owner, ok := ctx.Value(txMarker{}).(*Store); ok && owner == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	users        []domain.User
	items        []domain.Item
	transactions []domain.Transaction
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		users:        append([]domain.User(nil), s.users...),
		items:        append([]domain.Item(nil), s.items...),
		transactions: append([]domain.Transaction(nil), s.transactions...),
	}
}

func (s *Store) restore(snap snapshot) {
	s.users = snap.users
	s.items = snap.items
	s.transactions = snap.transactions
}

// TxManager gives the memory store the same all-or-nothing semantics as the
// Postgres transaction manager.
type TxManager struct {
	store *Store
}

func NewTXManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

func (m *TxManager) Begin(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if owner, ok := ctx.Value(txMarker{}).(*Store); ok && owner == m.store {
		return fn(ctx)
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	snap := m.store.snapshot()
	defer func() {
		if p := recover(); p != nil {
			m.store.restore(snap)
			panic(p)
		}
		if err != nil {
			m.store.restore(snap)
		}
	}()

	return fn(context.WithValue(ctx, txMarker{}, m.store))
}
