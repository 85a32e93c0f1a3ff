package transactionrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/marketplace/internal/domain"
	"github.com/GlebRadaev/marketplace/internal/pg"
)

const transactionColumns = "id, item_id, item_name, seller_id, buyer_id, price, date"

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't query transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	transactions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Transaction, error) {
		var t domain.Transaction
		err := row.Scan(&t.ID, &t.ItemID, &t.ItemName, &t.SellerID, &t.BuyerID, &t.Price, &t.Date)
		return t, err
	})
	if err != nil {
		zap.L().Error("can't scan transactions", zap.Error(err))
		return nil, err
	}
	return transactions, nil
}

// Create appends an entry to the ledger. Entries are never updated.
func (r *Repository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	query := `
		INSERT INTO transactions (id, item_id, item_name, seller_id, buyer_id, price, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		transaction.ID, transaction.ItemID, transaction.ItemName,
		transaction.SellerID, transaction.BuyerID, transaction.Price, transaction.Date,
	)
	if err != nil {
		zap.L().Error("can't save transaction", zap.Error(err))
		return nil, err
	}
	return transaction, nil
}

func (r *Repository) FindAll(ctx context.Context) ([]domain.Transaction, error) {
	return r.list(ctx, "SELECT "+transactionColumns+" FROM transactions ORDER BY seq")
}

func (r *Repository) FindByBuyer(ctx context.Context, buyerID string) ([]domain.Transaction, error) {
	return r.list(ctx, "SELECT "+transactionColumns+" FROM transactions WHERE buyer_id = $1 ORDER BY seq", buyerID)
}

func (r *Repository) FindBySeller(ctx context.Context, sellerID string) ([]domain.Transaction, error) {
	return r.list(ctx, "SELECT "+transactionColumns+" FROM transactions WHERE seller_id = $1 ORDER BY seq", sellerID)
}
