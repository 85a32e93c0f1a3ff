package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GlebRadaev/marketplace/internal/domain"
	"github.com/GlebRadaev/marketplace/internal/repo/memory"
)

func TestDemo(t *testing.T) {
	now := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	data := Demo(now, "hash")

	require.Len(t, data.Users, 3)
	require.Len(t, data.Items, 5)
	require.Len(t, data.Transactions, 2)

	assert.Equal(t, "john@example.com", data.Users[0].Email)
	assert.Equal(t, "hash", data.Users[1].PasswordHash)
	for _, item := range data.Items {
		assert.True(t, item.IsAvailable)
		assert.True(t, item.Price.IsPositive())
	}
	assert.Equal(t, now.Add(-10*24*time.Hour), data.Transactions[0].Date)

	listed := make(map[string]bool)
	for _, item := range data.Items {
		listed[item.ID] = true
	}
	for _, tx := range data.Transactions {
		assert.False(t, listed[tx.ItemID], "ledger entry %s should point at an unlisted item", tx.ID)
	}
}

func TestSeeder_Load(t *testing.T) {
	store := memory.NewStore()
	users := memory.NewUserRepo(store)
	items := memory.NewItemRepo(store)
	transactions := memory.NewTransactionRepo(store)
	seeder := New(users, items, transactions, memory.NewTXManager(store))
	ctx := context.Background()

	loaded, err := seeder.Load(ctx, Demo(time.Now(), "hash"))
	require.NoError(t, err)
	assert.True(t, loaded)

	loaded, err = seeder.Load(ctx, Demo(time.Now(), "hash"))
	require.NoError(t, err)
	assert.False(t, loaded)

	all, err := items.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, "Vintage Camera", all[0].Name)

	ledger, err := transactions.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, ledger, 2)
}

func TestSeeder_LoadRollsBack(t *testing.T) {
	store := memory.NewStore()
	users := memory.NewUserRepo(store)
	items := memory.NewItemRepo(store)
	seeder := New(users, items, memory.NewTransactionRepo(store), memory.NewTXManager(store))
	ctx := context.Background()

	data := Demo(time.Now(), "hash")
	data.Users = append(data.Users, domain.User{ID: "4", Email: "john@example.com"})

	loaded, err := seeder.Load(ctx, data)
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	assert.False(t, loaded)

	user, err := users.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Nil(t, user)
}
