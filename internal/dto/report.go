package dto

import "github.com/GlebRadaev/marketplace/internal/domain"

type CategoryCountDTO struct {
	Category string `json:"category" example:"Electronics"`
	Count    int    `json:"count" example:"2"`
}

type PriceRangeCountDTO struct {
	Range string `json:"range" example:"$101-$200"`
	Count int    `json:"count" example:"2"`
}

type UserReportDTO struct {
	UserID         string             `json:"userId" example:"1"`
	TotalSales     float64            `json:"totalSales" example:"300"`
	SalesCount     int                `json:"salesCount" example:"1"`
	TotalPurchases float64            `json:"totalPurchases" example:"180"`
	PurchasesCount int                `json:"purchasesCount" example:"1"`
	ActiveListings int                `json:"activeListings" example:"1"`
	SoldListings   int                `json:"soldListings" example:"0"`
	Categories     []CategoryCountDTO `json:"categories"`
}

type MarketReportDTO struct {
	TotalItems         int                  `json:"totalItems" example:"5"`
	AvailableItems     int                  `json:"availableItems" example:"5"`
	SoldItems          int                  `json:"soldItems" example:"0"`
	ActiveSellers      int                  `json:"activeSellers" example:"3"`
	Categories         []CategoryCountDTO   `json:"categories"`
	PriceRanges        []PriceRangeCountDTO `json:"priceRanges"`
	TransactionCount   int                  `json:"transactionCount" example:"2"`
	TotalVolume        float64              `json:"totalVolume" example:"270"`
	RecentTransactions []TransactionDTO     `json:"recentTransactions"`
}

func fromCategories(categories []domain.CategoryCount) []CategoryCountDTO {
	result := make([]CategoryCountDTO, 0, len(categories))
	for _, c := range categories {
		result = append(result, CategoryCountDTO{Category: c.Category, Count: c.Count})
	}
	return result
}

func FromUserReport(r *domain.UserReport) UserReportDTO {
	return UserReportDTO{
		UserID:         r.UserID,
		TotalSales:     r.TotalSales.InexactFloat64(),
		SalesCount:     r.SalesCount,
		TotalPurchases: r.TotalPurchases.InexactFloat64(),
		PurchasesCount: r.PurchasesCount,
		ActiveListings: r.ActiveListings,
		SoldListings:   r.SoldListings,
		Categories:     fromCategories(r.Categories),
	}
}

func FromMarketReport(r *domain.MarketReport) MarketReportDTO {
	ranges := make([]PriceRangeCountDTO, 0, len(r.PriceRanges))
	for _, p := range r.PriceRanges {
		ranges = append(ranges, PriceRangeCountDTO{Range: p.Range, Count: p.Count})
	}
	return MarketReportDTO{
		TotalItems:         r.TotalItems,
		AvailableItems:     r.AvailableItems,
		SoldItems:          r.SoldItems,
		ActiveSellers:      r.ActiveSellers,
		Categories:         fromCategories(r.Categories),
		PriceRanges:        ranges,
		TransactionCount:   r.TransactionCount,
		TotalVolume:        r.TotalVolume.InexactFloat64(),
		RecentTransactions: FromTransactions(r.RecentTransactions),
	}
}
