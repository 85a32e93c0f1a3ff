package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/marketplace/internal/domain"
)

type UserRepo struct {
	store *Store
}

func NewUserRepo(store *Store) *UserRepo {
	return &UserRepo{store: store}
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	defer r.store.lock(ctx)()
	for _, u := range r.store.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	defer r.store.lock(ctx)()
	if i := r.store.userIndex(id); i >= 0 {
		user := r.store.users[i]
		return &user, nil
	}
	return nil, nil
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	defer r.store.lock(ctx)()
	for _, u := range r.store.users {
		if u.Email == user.Email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	r.store.users = append(r.store.users, *user)
	return user, nil
}

func (r *UserRepo) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) (*domain.User, error) {
	defer r.store.lock(ctx)()
	i := r.store.userIndex(id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	balance := r.store.users[i].CashBalance.Add(delta)
	if balance.IsNegative() {
		return nil, domain.ErrInsufficientFunds
	}
	r.store.users[i].CashBalance = balance
	user := r.store.users[i]
	return &user, nil
}

func (s *Store) userIndex(id string) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}

type ItemRepo struct {
	store *Store
}

func NewItemRepo(store *Store) *ItemRepo {
	return &ItemRepo{store: store}
}

func (s *Store) itemIndex(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *ItemRepo) Create(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	defer r.store.lock(ctx)()
	r.store.items = append(r.store.items, *item)
	return item, nil
}

func (r *ItemRepo) FindByID(ctx context.Context, id string) (*domain.Item, error) {
	defer r.store.lock(ctx)()
	if i := r.store.itemIndex(id); i >= 0 {
		item := r.store.items[i]
		return &item, nil
	}
	return nil, nil
}

func (r *ItemRepo) FindAll(ctx context.Context) ([]domain.Item, error) {
	defer r.store.lock(ctx)()
	return append(make([]domain.Item, 0, len(r.store.items)), r.store.items...), nil
}

func (r *ItemRepo) FindBySeller(ctx context.Context, sellerID string) ([]domain.Item, error) {
	defer r.store.lock(ctx)()
	items := make([]domain.Item, 0)
	for _, item := range r.store.items {
		if item.SellerID == sellerID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *ItemRepo) Update(ctx context.Context, item *domain.Item) error {
	defer r.store.lock(ctx)()
	i := r.store.itemIndex(item.ID)
	if i < 0 {
		return domain.ErrNotFound
	}
	r.store.items[i] = *item
	return nil
}

func (r *ItemRepo) MarkSold(ctx context.Context, id string) (bool, error) {
	defer r.store.lock(ctx)()
	i := r.store.itemIndex(id)
	if i < 0 || !r.store.items[i].IsAvailable {
		return false, nil
	}
	r.store.items[i].IsAvailable = false
	return true, nil
}

func (r *ItemRepo) Delete(ctx context.Context, id string) (bool, error) {
	defer r.store.lock(ctx)()
	i := r.store.itemIndex(id)
	if i < 0 {
		return false, nil
	}
	r.store.items = append(r.store.items[:i:i], r.store.items[i+1:]...)
	return true, nil
}

type TransactionRepo struct {
	store *Store
}

func NewTransactionRepo(store *Store) *TransactionRepo {
	return &TransactionRepo{store: store}
}

func (r *TransactionRepo) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	defer r.store.lock(ctx)()
	r.store.transactions = append(r.store.transactions, *transaction)
	return transaction, nil
}

func (r *TransactionRepo) FindAll(ctx context.Context) ([]domain.Transaction, error) {
	defer r.store.lock(ctx)()
	return append(make([]domain.Transaction, 0, len(r.store.transactions)), r.store.transactions...), nil
}

func (r *TransactionRepo) FindByBuyer(ctx context.Context, buyerID string) ([]domain.Transaction, error) {
	return r.filter(ctx, func(t domain.Transaction) bool { return t.BuyerID == buyerID })
}

func (r *TransactionRepo) FindBySeller(ctx context.Context, sellerID string) ([]domain.Transaction, error) {
	return r.filter(ctx, func(t domain.Transaction) bool { return t.SellerID == sellerID })
}

func (r *TransactionRepo) filter(ctx context.Context, keep func(domain.Transaction) bool) ([]domain.Transaction, error) {
	defer r.store.lock(ctx)()
	result := make([]domain.Transaction, 0)
	for _, t := range r.store.transactions {
		if keep(t) {
			result = append(result, t)
		}
	}
	return result, nil
}
