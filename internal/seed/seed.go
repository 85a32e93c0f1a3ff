// Package seed loads the demo catalog: three users, five listings and two
// ledger entries whose items are no longer listed.
package seed

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/marketplace/internal/domain"
	"github.com/GlebRadaev/marketplace/internal/pg"
)

// DemoPassword logs into every demo account.
const DemoPassword = "password"

type UserRepo interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

type ItemRepo interface {
	Create(ctx context.Context, item *domain.Item) (*domain.Item, error)
}

type TransactionRepo interface {
	Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error)
}

type Data struct {
	Users        []domain.User
	Items        []domain.Item
	Transactions []domain.Transaction
}

// Demo builds the demo data relative to now.
func Demo(now time.Time, passwordHash string) Data {
	now = now.UTC()
	user := func(id, name, email string, balance int64) domain.User {
		return domain.User{
			ID:           id,
			Username:     name,
			Email:        email,
			PasswordHash: passwordHash,
			CashBalance:  decimal.NewFromInt(balance),
			CreatedAt:    now,
		}
	}
	item := func(id, name, description, category string, price int64, sellerID, sellerName, image string) domain.Item {
		return domain.Item{
			ID:          id,
			Name:        name,
			Description: description,
			Category:    category,
			Price:       decimal.NewFromInt(price),
			SellerID:    sellerID,
			SellerName:  sellerName,
			IsAvailable: true,
			Image:       image,
			CreatedAt:   now,
		}
	}

	return Data{
		Users: []domain.User{
			user("1", "john_doe", "john@example.com", 1000),
			user("2", "alice_smith", "alice@example.com", 1500),
			user("3", "bob_johnson", "bob@example.com", 800),
		},
		Items: []domain.Item{
			item("1", "Vintage Camera", "A beautiful vintage camera in excellent condition.", "Electronics", 150, "2", "alice_smith",
				"https://images.unsplash.com/photo-1516035069371-29a1b244cc32?q=80&w=1964&auto=format&fit=crop"),
			item("2", "Mountain Bike", "High-quality mountain bike, perfect for trails.", "Sports", 350, "3", "bob_johnson",
				"https://images.unsplash.com/photo-1576435728678-68d0fbf94e91?q=80&w=2068&auto=format&fit=crop"),
			item("3", "Antique Clock", "Beautiful antique wall clock from the 1920s.", "Antiques", 200, "2", "alice_smith",
				"https://images.unsplash.com/photo-1584112276723-cc458f14ee07?q=80&w=1974&auto=format&fit=crop"),
			item("4", "Designer Handbag", "Authentic designer handbag, barely used.", "Fashion", 300, "1", "john_doe",
				"https://images.unsplash.com/photo-1584917865442-de89df76afd3?q=80&w=1935&auto=format&fit=crop"),
			item("5", "Smart Speaker", "Latest generation smart speaker with voice assistant.", "Electronics", 120, "3", "bob_johnson",
				"https://images.unsplash.com/photo-1558089687-db9280019010?q=80&w=1974&auto=format&fit=crop"),
		},
		Transactions: []domain.Transaction{
			{ID: "1", ItemID: "6", ItemName: "Leather Jacket", SellerID: "2", BuyerID: "1",
				Price: decimal.NewFromInt(180), Date: now.Add(-10 * 24 * time.Hour)},
			{ID: "2", ItemID: "7", ItemName: "Wireless Headphones", SellerID: "3", BuyerID: "2",
				Price: decimal.NewFromInt(90), Date: now.Add(-5 * 24 * time.Hour)},
		},
	}
}

type Seeder struct {
	users        UserRepo
	items        ItemRepo
	transactions TransactionRepo
	txManager    pg.TXManager
}

func New(users UserRepo, items ItemRepo, transactions TransactionRepo, txManager pg.TXManager) *Seeder {
	return &Seeder{
		users:        users,
		items:        items,
		transactions: transactions,
		txManager:    txManager,
	}
}

// Load inserts data in one transaction. It reports false without touching
// storage when the first user already exists.
func (s *Seeder) Load(ctx context.Context, data Data) (bool, error) {
	loaded := false
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		if len(data.Users) > 0 {
			existing, err := s.users.FindByEmail(ctx, data.Users[0].Email)
			if err != nil {
				return err
			}
			if existing != nil {
				return nil
			}
		}
		for i := range data.Users {
			if _, err := s.users.Create(ctx, &data.Users[i]); err != nil {
				return err
			}
		}
		for i := range data.Items {
			if _, err := s.items.Create(ctx, &data.Items[i]); err != nil {
				return err
			}
		}
		for i := range data.Transactions {
			if _, err := s.transactions.Create(ctx, &data.Transactions[i]); err != nil {
				return err
			}
		}
		loaded = true
		return nil
	})
	if err != nil {
		zap.L().Error("can't load demo data: ", zap.Error(err))
		return false, err
	}
	if loaded {
		zap.L().Info("demo data loaded",
			zap.Int("users", len(data.Users)),
			zap.Int("items", len(data.Items)),
			zap.Int("transactions", len(data.Transactions)))
	}
	return loaded, nil
}
