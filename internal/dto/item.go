package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/marketplace/internal/domain"
)

type ItemDTO struct {
	ID          string    `json:"id" example:"1"`
	Name        string    `json:"name" example:"Vintage Camera"`
	Description string    `json:"description" example:"A beautiful vintage camera in excellent condition."`
	Category    string    `json:"category" example:"Electronics"`
	Price       float64   `json:"price" example:"150"`
	SellerID    string    `json:"sellerId" example:"2"`
	SellerName  string    `json:"sellerName" example:"alice_smith"`
	IsAvailable bool      `json:"isAvailable" example:"true"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt" example:"2024-03-01T12:00:00Z"`
}

type CreateItemRequestDTO struct {
	Name        string          `json:"name" example:"Desk Lamp"`
	Description string          `json:"description" example:"Warm light, barely used."`
	Category    string          `json:"category" example:"Home"`
	Price       decimal.Decimal `json:"price" swaggertype:"number" example:"35"`
	Image       string          `json:"image"`
}

// UpdateItemRequestDTO is a partial update; omitted fields stay unchanged.
type UpdateItemRequestDTO struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty" swaggertype:"number"`
	Image       *string          `json:"image,omitempty"`
	IsAvailable *bool            `json:"isAvailable,omitempty"`
}

type TransactionDTO struct {
	ID       string    `json:"id" example:"1"`
	ItemID   string    `json:"itemId" example:"6"`
	ItemName string    `json:"itemName" example:"Leather Jacket"`
	SellerID string    `json:"sellerId" example:"2"`
	BuyerID  string    `json:"buyerId" example:"1"`
	Price    float64   `json:"price" example:"180"`
	Date     time.Time `json:"date" example:"2024-03-01T12:00:00Z"`
}

func FromItem(item *domain.Item) ItemDTO {
	return ItemDTO{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Category:    item.Category,
		Price:       item.Price.InexactFloat64(),
		SellerID:    item.SellerID,
		SellerName:  item.SellerName,
		IsAvailable: item.IsAvailable,
		Image:       item.Image,
		CreatedAt:   item.CreatedAt,
	}
}

func FromItems(items []domain.Item) []ItemDTO {
	result := make([]ItemDTO, 0, len(items))
	for i := range items {
		result = append(result, FromItem(&items[i]))
	}
	return result
}

func FromTransaction(t *domain.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:       t.ID,
		ItemID:   t.ItemID,
		ItemName: t.ItemName,
		SellerID: t.SellerID,
		BuyerID:  t.BuyerID,
		Price:    t.Price.InexactFloat64(),
		Date:     t.Date,
	}
}

func FromTransactions(transactions []domain.Transaction) []TransactionDTO {
	result := make([]TransactionDTO, 0, len(transactions))
	for i := range transactions {
		result = append(result, FromTransaction(&transactions[i]))
	}
	return result
}

func (r CreateItemRequestDTO) ToNewItem() domain.NewItem {
	return domain.NewItem{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Price:       r.Price,
		Image:       r.Image,
	}
}

func (r UpdateItemRequestDTO) ToItemUpdate() domain.ItemUpdate {
	return domain.ItemUpdate{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Price:       r.Price,
		Image:       r.Image,
		IsAvailable: r.IsAvailable,
	}
}
