package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// AllCategories is the wildcard category accepted by the browse filter.
	AllCategories = "all"

	UnknownSellerName  = "Unknown Seller"
	UnknownCategory    = "Unknown"
	UnknownDescription = "No description available"
)

type User struct {
	ID           string          `db:"id" json:"id"`
	Username     string          `db:"username" json:"username"`
	Email        string          `db:"email" json:"email"`
	PasswordHash string          `db:"password_hash" json:"-"`
	CashBalance  decimal.Decimal `db:"cash_balance" json:"cashBalance"`
	CreatedAt    time.Time       `db:"created_at" json:"createdAt"`
}

// Buyer is the acting user as seen by a purchase: identity plus the balance
// known at call time.
type Buyer struct {
	ID          string
	CashBalance decimal.Decimal
}

func (u *User) AsBuyer() *Buyer {
	if u == nil {
		return nil
	}
	return &Buyer{ID: u.ID, CashBalance: u.CashBalance}
}

type Item struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Category    string          `db:"category"`
	Price       decimal.Decimal `db:"price"`
	SellerID    string          `db:"seller_id"`
	SellerName  string          `db:"seller_name"`
	IsAvailable bool            `db:"is_available"`
	Image       string          `db:"image"`
	CreatedAt   time.Time       `db:"created_at"`
}

// NewItem carries the seller-supplied listing fields.
type NewItem struct {
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	Image       string
}

// ItemUpdate is a partial update; nil fields are left untouched.
type ItemUpdate struct {
	Name        *string
	Description *string
	Category    *string
	Price       *decimal.Decimal
	Image       *string
	IsAvailable *bool
}

type Transaction struct {
	ID       string          `db:"id"`
	ItemID   string          `db:"item_id"`
	ItemName string          `db:"item_name"`
	SellerID string          `db:"seller_id"`
	BuyerID  string          `db:"buyer_id"`
	Price    decimal.Decimal `db:"price"`
	Date     time.Time       `db:"date"`
}

// PlaceholderItem rebuilds a purchased item from its ledger entry when the
// listing itself is gone.
func (t Transaction) PlaceholderItem() Item {
	return Item{
		ID:          t.ItemID,
		Name:        t.ItemName,
		Description: UnknownDescription,
		Category:    UnknownCategory,
		Price:       t.Price,
		SellerID:    t.SellerID,
		SellerName:  UnknownSellerName,
		IsAvailable: false,
		CreatedAt:   t.Date,
	}
}

// BrowseFilter selects listings for the browse view. Nil bounds are open.
type BrowseFilter struct {
	Term            string
	Category        string
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	ExcludeSellerID string
}

type Session struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}
