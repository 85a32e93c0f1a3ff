package repo

import (
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/marketplace/internal/pg"
	itemrepo "github.com/GlebRadaev/marketplace/internal/repo/item-repo"
	"github.com/GlebRadaev/marketplace/internal/repo/memory"
	transactionrepo "github.com/GlebRadaev/marketplace/internal/repo/transaction-repo"
	userrepo "github.com/GlebRadaev/marketplace/internal/repo/user-repo"
)

func NewMock(t *testing.T) (*Repositories, pgxmock.PgxPoolIface) {
	ctrl := gomock.NewController(t)
	mockDB, err := pgxmock.NewPool()
	mockTxManager := pg.NewMockTXManager(ctrl)
	assert.NoError(t, err)
	repo := New(mockDB, mockTxManager)
	t.Cleanup(mockDB.Close)

	return repo, mockDB
}

func TestNew(t *testing.T) {
	repo, mock := NewMock(t)

	assert.IsType(t, &userrepo.Repository{}, repo.UserRepo)
	assert.IsType(t, &itemrepo.Repository{}, repo.ItemRepo)
	assert.IsType(t, &transactionrepo.Repository{}, repo.TransactionRepo)
	assert.NotNil(t, repo.TxManager)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unmet expectations: %v", err)
	}
}

func TestNewInMemory(t *testing.T) {
	repo := NewInMemory()

	assert.IsType(t, &memory.UserRepo{}, repo.UserRepo)
	assert.IsType(t, &memory.ItemRepo{}, repo.ItemRepo)
	assert.IsType(t, &memory.TransactionRepo{}, repo.TransactionRepo)
	assert.IsType(t, &memory.TxManager{}, repo.TxManager)
}
