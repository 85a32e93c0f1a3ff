package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GlebRadaev/marketplace/internal/domain"
)

func seeded(t *testing.T) (*Store, *UserRepo, *ItemRepo, *TransactionRepo) {
	t.Helper()
	store := NewStore()
	users, items, txs := NewUserRepo(store), NewItemRepo(store), NewTransactionRepo(store)
	ctx := context.Background()

	_, err := users.Create(ctx, &domain.User{ID: "1", Username: "john_doe", Email: "john@example.com", CashBalance: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	_, err = users.Create(ctx, &domain.User{ID: "2", Username: "alice_smith", Email: "alice@example.com", CashBalance: decimal.NewFromInt(1500)})
	require.NoError(t, err)
	_, err = items.Create(ctx, &domain.Item{ID: "1", Name: "Vintage Camera", Category: "Electronics", Price: decimal.NewFromInt(120), SellerID: "2", IsAvailable: true})
	require.NoError(t, err)
	_, err = items.Create(ctx, &domain.Item{ID: "2", Name: "Desk Lamp", Category: "Home", Price: decimal.NewFromInt(30), SellerID: "1", IsAvailable: true})
	require.NoError(t, err)
	return store, users, items, txs
}

func TestUserRepo(t *testing.T) {
	_, users, _, _ := seeded(t)
	ctx := context.Background()

	user, err := users.FindByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, "1", user.ID)

	user, err = users.FindByEmail(ctx, "JOHN@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)

	_, err = users.Create(ctx, &domain.User{ID: "3", Email: "john@example.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	user, err = users.AdjustBalance(ctx, "1", decimal.NewFromInt(-1000))
	require.NoError(t, err)
	assert.True(t, user.CashBalance.IsZero())

	_, err = users.AdjustBalance(ctx, "1", decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	_, err = users.AdjustBalance(ctx, "404", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemRepo(t *testing.T) {
	_, _, items, _ := seeded(t)
	ctx := context.Background()

	mine, err := items.FindBySeller(ctx, "1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Desk Lamp", mine[0].Name)

	sold, err := items.MarkSold(ctx, "1")
	require.NoError(t, err)
	assert.True(t, sold)
	sold, err = items.MarkSold(ctx, "1")
	require.NoError(t, err)
	assert.False(t, sold)

	item, err := items.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.False(t, item.IsAvailable)

	item.Name = "Renamed"
	require.NoError(t, items.Update(ctx, item))
	assert.ErrorIs(t, items.Update(ctx, &domain.Item{ID: "404"}), domain.ErrNotFound)

	deleted, err := items.Delete(ctx, "1")
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = items.Delete(ctx, "1")
	require.NoError(t, err)
	assert.False(t, deleted)

	all, err := items.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "2", all[0].ID)
}

func TestItemRepo_ReturnsCopies(t *testing.T) {
	_, _, items, _ := seeded(t)
	ctx := context.Background()

	item, err := items.FindByID(ctx, "1")
	require.NoError(t, err)
	item.Name = "Changed outside"

	again, err := items.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Vintage Camera", again.Name)
}

func TestTransactionRepo(t *testing.T) {
	_, _, _, txs := seeded(t)
	ctx := context.Background()

	_, err := txs.Create(ctx, &domain.Transaction{ID: "t1", ItemID: "1", SellerID: "2", BuyerID: "1"})
	require.NoError(t, err)
	_, err = txs.Create(ctx, &domain.Transaction{ID: "t2", ItemID: "2", SellerID: "1", BuyerID: "2"})
	require.NoError(t, err)

	all, err := txs.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bought, err := txs.FindByBuyer(ctx, "1")
	require.NoError(t, err)
	require.Len(t, bought, 1)
	assert.Equal(t, "t1", bought[0].ID)

	sold, err := txs.FindBySeller(ctx, "1")
	require.NoError(t, err)
	require.Len(t, sold, 1)
	assert.Equal(t, "t2", sold[0].ID)
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	store, users, items, txs := seeded(t)
	manager := NewTXManager(store)
	ctx := context.Background()
	boom := errors.New("boom")

	err := manager.Begin(ctx, func(ctx context.Context) error {
		if _, err := items.MarkSold(ctx, "1"); err != nil {
			return err
		}
		if _, err := users.AdjustBalance(ctx, "1", decimal.NewFromInt(-120)); err != nil {
			return err
		}
		if _, err := txs.Create(ctx, &domain.Transaction{ID: "t1"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	item, _ := items.FindByID(ctx, "1")
	assert.True(t, item.IsAvailable)
	user, _ := users.FindByID(ctx, "1")
	assert.True(t, user.CashBalance.Equal(decimal.NewFromInt(1000)))
	all, _ := txs.FindAll(ctx)
	assert.Empty(t, all)
}

func TestTxManager_RollsBackOnPanic(t *testing.T) {
	store, _, items, _ := seeded(t)
	manager := NewTXManager(store)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = manager.Begin(ctx, func(ctx context.Context) error {
			_, _ = items.Delete(ctx, "1")
			panic("boom")
		})
	})

	item, err := items.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.NotNil(t, item)
}

func TestTxManager_NestedJoinsOuter(t *testing.T) {
	store, users, _, _ := seeded(t)
	manager := NewTXManager(store)
	ctx := context.Background()

	err := manager.Begin(ctx, func(ctx context.Context) error {
		return manager.Begin(ctx, func(ctx context.Context) error {
			_, err := users.AdjustBalance(ctx, "1", decimal.NewFromInt(5))
			return err
		})
	})
	require.NoError(t, err)

	user, _ := users.FindByID(ctx, "1")
	assert.True(t, user.CashBalance.Equal(decimal.NewFromInt(1005)))
}

func TestTxManager_SerializesConcurrentFlips(t *testing.T) {
	store, _, items, _ := seeded(t)
	manager := NewTXManager(store)
	ctx := context.Background()

	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = manager.Begin(ctx, func(ctx context.Context) error {
				item, err := items.FindByID(ctx, "1")
				if err != nil || !item.IsAvailable {
					return domain.ErrItemUnavailable
				}
				sold, err := items.MarkSold(ctx, "1")
				if err != nil || !sold {
					return domain.ErrItemUnavailable
				}
				wins.Add(1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}
