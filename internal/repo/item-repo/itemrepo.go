package itemrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/marketplace/internal/domain"
	"github.com/GlebRadaev/marketplace/internal/pg"
)

const itemColumns = "id, name, description, category, price, seller_id, seller_name, is_available, image, created_at"

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	var item domain.Item
	err := row.Scan(
		&item.ID, &item.Name, &item.Description, &item.Category, &item.Price,
		&item.SellerID, &item.SellerName, &item.IsAvailable, &item.Image, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.Item, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't query items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			zap.L().Error("can't scan item", zap.Error(err))
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		zap.L().Error("error iterating items", zap.Error(err))
		return nil, err
	}
	return items, nil
}

func (r *Repository) Create(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	query := `
		INSERT INTO items (id, name, description, category, price, seller_id, seller_name, is_available, image, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		item.ID, item.Name, item.Description, item.Category, item.Price,
		item.SellerID, item.SellerName, item.IsAvailable, item.Image, item.CreatedAt,
	)
	if err != nil {
		zap.L().Error("can't save item", zap.Error(err))
		return nil, err
	}
	return item, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Item, error) {
	item, err := scanItem(r.db.QueryRow(ctx, "SELECT "+itemColumns+" FROM items WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find item", zap.Error(err))
		return nil, err
	}
	return item, nil
}

func (r *Repository) FindAll(ctx context.Context) ([]domain.Item, error) {
	return r.list(ctx, "SELECT "+itemColumns+" FROM items ORDER BY seq")
}

func (r *Repository) FindBySeller(ctx context.Context, sellerID string) ([]domain.Item, error) {
	return r.list(ctx, "SELECT "+itemColumns+" FROM items WHERE seller_id = $1 ORDER BY seq", sellerID)
}

func (r *Repository) Update(ctx context.Context, item *domain.Item) error {
	query := `
		UPDATE items
		SET name = $1, description = $2, category = $3, price = $4, is_available = $5, image = $6
		WHERE id = $7
	`
	tag, err := r.db.Exec(ctx, query,
		item.Name, item.Description, item.Category, item.Price, item.IsAvailable, item.Image, item.ID,
	)
	if err != nil {
		zap.L().Error("can't update item", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkSold flips an available item to sold. It reports false when the item
// was already sold or is gone.
func (r *Repository) MarkSold(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, "UPDATE items SET is_available = FALSE WHERE id = $1 AND is_available", id)
	if err != nil {
		zap.L().Error("can't mark item sold", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM items WHERE id = $1", id)
	if err != nil {
		zap.L().Error("can't delete item", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
