package marketservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/marketplace/internal/domain"
	"github.com/GlebRadaev/marketplace/internal/metrics"
	"github.com/GlebRadaev/marketplace/internal/pg"
)

type ItemRepo interface {
	Create(ctx context.Context, item *domain.Item) (*domain.Item, error)
	FindByID(ctx context.Context, id string) (*domain.Item, error)
	FindAll(ctx context.Context) ([]domain.Item, error)
	FindBySeller(ctx context.Context, sellerID string) ([]domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
	MarkSold(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type TransactionRepo interface {
	Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error)
	FindAll(ctx context.Context) ([]domain.Transaction, error)
	FindByBuyer(ctx context.Context, buyerID string) ([]domain.Transaction, error)
	FindBySeller(ctx context.Context, sellerID string) ([]domain.Transaction, error)
}

// Wallet settles the price of a purchase between buyer and seller.
type Wallet interface {
	Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) error
}

type Service struct {
	itemRepo        ItemRepo
	transactionRepo TransactionRepo
	txManager       pg.TXManager
	wallet          Wallet

	now   func() time.Time
	newID func() string
}

// New builds the listing and ledger engine. A nil wallet leaves balances
// untouched by purchases.
func New(itemRepo ItemRepo, transactionRepo TransactionRepo, txManager pg.TXManager, wallet Wallet) *Service {
	return &Service{
		itemRepo:        itemRepo,
		transactionRepo: transactionRepo,
		txManager:       txManager,
		wallet:          wallet,
		now:             time.Now,
		newID:           uuid.NewString,
	}
}

func (s *Service) AddItem(ctx context.Context, sellerID, sellerName string, data domain.NewItem) (*domain.Item, error) {
	if !domain.ValidAmount(data.Price) {
		return nil, domain.ErrInvalidPrice
	}
	item := &domain.Item{
		ID:          s.newID(),
		Name:        data.Name,
		Description: data.Description,
		Category:    data.Category,
		Price:       data.Price,
		SellerID:    sellerID,
		SellerName:  sellerName,
		IsAvailable: true,
		Image:       data.Image,
		CreatedAt:   s.now().UTC(),
	}
	created, err := s.itemRepo.Create(ctx, item)
	if err != nil {
		zap.L().Error("can't create item: ", zap.Error(err))
		return nil, err
	}
	metrics.ItemsListed.Inc()
	zap.L().Info("item listed", zap.String("item_id", created.ID), zap.String("seller_id", sellerID))
	return created, nil
}

// UpdateItem merges the non-nil fields into the seller's own listing.
// Availability may only go from true to false.
func (s *Service) UpdateItem(ctx context.Context, requesterID, id string, update domain.ItemUpdate) (*domain.Item, error) {
	var updated *domain.Item
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		item, err := s.itemRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if item.SellerID != requesterID {
			return domain.ErrNotOwner
		}

		if update.Name != nil {
			item.Name = *update.Name
		}
		if update.Description != nil {
			item.Description = *update.Description
		}
		if update.Category != nil {
			item.Category = *update.Category
		}
		if update.Image != nil {
			item.Image = *update.Image
		}
		if update.Price != nil {
			if !domain.ValidAmount(*update.Price) {
				return domain.ErrInvalidPrice
			}
			item.Price = *update.Price
		}
		if update.IsAvailable != nil {
			if *update.IsAvailable && !item.IsAvailable {
				return domain.ErrRelist
			}
			item.IsAvailable = *update.IsAvailable
		}

		if err := s.itemRepo.Update(ctx, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("item updated", zap.String("item_id", id))
	return updated, nil
}

// RemoveItem deletes the requester's own listing. Ledger entries that point
// at it stay as they are.
func (s *Service) RemoveItem(ctx context.Context, requesterID, id string) error {
	return s.txManager.Begin(ctx, func(ctx context.Context) error {
		item, err := s.itemRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if item.SellerID != requesterID {
			zap.L().Info("remove rejected, not the owner", zap.String("item_id", id), zap.String("requester_id", requesterID))
			return domain.ErrNotOwner
		}
		deleted, err := s.itemRepo.Delete(ctx, id)
		if err != nil {
			zap.L().Error("can't delete item: ", zap.Error(err))
			return err
		}
		if !deleted {
			return domain.ErrNotFound
		}
		zap.L().Info("item removed", zap.String("item_id", id))
		return nil
	})
}

// PurchaseItem runs the purchase guards in order and, when all pass, marks
// the item sold, settles the price and appends the ledger entry in one
// transaction.
func (s *Service) PurchaseItem(ctx context.Context, buyer *domain.Buyer, itemID string) (*domain.Transaction, error) {
	var result *domain.Transaction
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		if buyer == nil {
			return domain.ErrNotAuthenticated
		}
		item, err := s.itemRepo.FindByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrItemNotFound
		}
		if !item.IsAvailable {
			return domain.ErrItemUnavailable
		}
		if item.SellerID == buyer.ID {
			return domain.ErrSelfPurchase
		}
		if buyer.CashBalance.LessThan(item.Price) {
			return domain.ErrInsufficientFunds
		}

		// the conditional flip loses against a concurrent purchase of the same item
		sold, err := s.itemRepo.MarkSold(ctx, item.ID)
		if err != nil {
			return err
		}
		if !sold {
			return domain.ErrItemUnavailable
		}

		if s.wallet != nil {
			if err := s.wallet.Transfer(ctx, buyer.ID, item.SellerID, item.Price); err != nil {
				return err
			}
		}

		result, err = s.transactionRepo.Create(ctx, &domain.Transaction{
			ID:       s.newID(),
			ItemID:   item.ID,
			ItemName: item.Name,
			SellerID: item.SellerID,
			BuyerID:  buyer.ID,
			Price:    item.Price,
			Date:     s.now().UTC(),
		})
		return err
	})
	metrics.ObservePurchase(err)
	if err != nil {
		zap.L().Info("purchase rejected", zap.String("item_id", itemID), zap.Error(err))
		return nil, err
	}
	zap.L().Info("item purchased", zap.String("item_id", itemID), zap.String("transaction_id", result.ID))
	return result, nil
}

func (s *Service) GetItemByID(ctx context.Context, id string) (*domain.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		zap.L().Error("can't get item: ", zap.Error(err))
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

func (s *Service) Items(ctx context.Context) ([]domain.Item, error) {
	items, err := s.itemRepo.FindAll(ctx)
	if err != nil {
		zap.L().Error("can't get items: ", zap.Error(err))
		return nil, err
	}
	return items, nil
}

func (s *Service) Browse(ctx context.Context, filter domain.BrowseFilter) ([]domain.Item, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}
	return domain.FilterItems(items, filter), nil
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Categories(items), nil
}

func (s *Service) UserItems(ctx context.Context, sellerID string) ([]domain.Item, error) {
	items, err := s.itemRepo.FindBySeller(ctx, sellerID)
	if err != nil {
		zap.L().Error("can't get seller items: ", zap.Error(err))
		return nil, err
	}
	return items, nil
}

// PurchasedItems resolves each of the buyer's ledger entries to the current
// listing, or to a placeholder built from the entry when the listing is gone.
func (s *Service) PurchasedItems(ctx context.Context, buyerID string) ([]domain.Item, error) {
	transactions, err := s.transactionRepo.FindByBuyer(ctx, buyerID)
	if err != nil {
		zap.L().Error("can't get purchases: ", zap.Error(err))
		return nil, err
	}

	result := make([]domain.Item, 0, len(transactions))
	for _, t := range transactions {
		item, err := s.itemRepo.FindByID(ctx, t.ItemID)
		if err != nil {
			zap.L().Error("can't resolve purchased item: ", zap.Error(err))
			return nil, err
		}
		if item == nil {
			result = append(result, t.PlaceholderItem())
			continue
		}
		result = append(result, *item)
	}
	return result, nil
}

// Transactions lists ledger entries where the user is buyer or seller.
func (s *Service) Transactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	all, err := s.transactionRepo.FindAll(ctx)
	if err != nil {
		zap.L().Error("can't get transactions: ", zap.Error(err))
		return nil, err
	}
	result := make([]domain.Transaction, 0)
	for _, t := range all {
		if t.BuyerID == userID || t.SellerID == userID {
			result = append(result, t)
		}
	}
	return result, nil
}
