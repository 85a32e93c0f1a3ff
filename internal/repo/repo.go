package repo

import (
	"github.com/GlebRadaev/marketplace/internal/pg"
	itemrepo "github.com/GlebRadaev/marketplace/internal/repo/item-repo"
	"github.com/GlebRadaev/marketplace/internal/repo/memory"
	transactionrepo "github.com/GlebRadaev/marketplace/internal/repo/transaction-repo"
	userrepo "github.com/GlebRadaev/marketplace/internal/repo/user-repo"
	"github.com/GlebRadaev/marketplace/internal/service/identityservice"
	"github.com/GlebRadaev/marketplace/internal/service/marketservice"
)

type Repositories struct {
	UserRepo        identityservice.UserRepo
	ItemRepo        marketservice.ItemRepo
	TransactionRepo marketservice.TransactionRepo
	TxManager       pg.TXManager
}

// New wires the Postgres repositories. conn must route queries to the
// transaction opened by txManager.
func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		UserRepo:        userrepo.New(conn),
		ItemRepo:        itemrepo.New(conn),
		TransactionRepo: transactionrepo.New(conn),
		TxManager:       txManager,
	}
}

// NewInMemory wires repositories over one shared in-process store.
func NewInMemory() *Repositories {
	store := memory.NewStore()
	return &Repositories{
		UserRepo:        memory.NewUserRepo(store),
		ItemRepo:        memory.NewItemRepo(store),
		TransactionRepo: memory.NewTransactionRepo(store),
		TxManager:       memory.NewTXManager(store),
	}
}
