package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

type CategoryCount struct {
	Category string
	Count    int
}

type PriceRangeCount struct {
	Range string
	Count int
}

type UserReport struct {
	UserID         string
	TotalSales     decimal.Decimal
	SalesCount     int
	TotalPurchases decimal.Decimal
	PurchasesCount int
	ActiveListings int
	SoldListings   int
	Categories     []CategoryCount
}

type MarketReport struct {
	TotalItems         int
	AvailableItems     int
	SoldItems          int
	ActiveSellers      int
	Categories         []CategoryCount
	PriceRanges        []PriceRangeCount
	TransactionCount   int
	TotalVolume        decimal.Decimal
	RecentTransactions []Transaction
}

type priceRange struct {
	label string
	upper decimal.Decimal
}

var priceRanges = []priceRange{
	{"$0-$50", decimal.NewFromInt(50)},
	{"$51-$100", decimal.NewFromInt(100)},
	{"$101-$200", decimal.NewFromInt(200)},
	{"$201-$300", decimal.NewFromInt(300)},
}

const topPriceRange = "$301+"

// BuildUserReport aggregates one user's activity from the full collections.
func BuildUserReport(userID string, items []Item, transactions []Transaction) *UserReport {
	report := &UserReport{
		UserID:         userID,
		TotalSales:     decimal.Zero,
		TotalPurchases: decimal.Zero,
	}
	for _, t := range transactions {
		if t.SellerID == userID {
			report.TotalSales = report.TotalSales.Add(t.Price)
			report.SalesCount++
		}
		if t.BuyerID == userID {
			report.TotalPurchases = report.TotalPurchases.Add(t.Price)
			report.PurchasesCount++
		}
	}
	for _, item := range items {
		if item.SellerID != userID {
			continue
		}
		if item.IsAvailable {
			report.ActiveListings++
		} else {
			report.SoldListings++
		}
	}
	report.Categories = countCategories(items, func(item Item) bool { return item.SellerID == userID })
	return report
}

// BuildMarketReport aggregates the whole catalog and ledger. Recent
// transactions are newest first, capped at recentLimit when it is positive.
func BuildMarketReport(items []Item, transactions []Transaction, recentLimit int) *MarketReport {
	report := &MarketReport{
		TotalItems:  len(items),
		TotalVolume: decimal.Zero,
	}

	sellers := make(map[string]struct{})
	ranges := make([]PriceRangeCount, 0, len(priceRanges)+1)
	for _, r := range priceRanges {
		ranges = append(ranges, PriceRangeCount{Range: r.label})
	}
	ranges = append(ranges, PriceRangeCount{Range: topPriceRange})

	for _, item := range items {
		if item.IsAvailable {
			report.AvailableItems++
		} else {
			report.SoldItems++
		}
		sellers[item.SellerID] = struct{}{}

		bucket := len(priceRanges)
		for i, r := range priceRanges {
			if item.Price.LessThanOrEqual(r.upper) {
				bucket = i
				break
			}
		}
		ranges[bucket].Count++
	}
	report.ActiveSellers = len(sellers)
	report.Categories = countCategories(items, func(Item) bool { return true })
	report.PriceRanges = ranges

	report.TransactionCount = len(transactions)
	recent := make([]Transaction, len(transactions))
	copy(recent, transactions)
	for _, t := range transactions {
		report.TotalVolume = report.TotalVolume.Add(t.Price)
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})
	if recentLimit > 0 && len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	report.RecentTransactions = recent

	return report
}

// countCategories counts the kept items per category in order of first
// appearance.
func countCategories(items []Item, keep func(Item) bool) []CategoryCount {
	result := []CategoryCount{}
	idx := make(map[string]int)
	for _, item := range items {
		if !keep(item) {
			continue
		}
		if i, ok := idx[item.Category]; ok {
			result[i].Count++
			continue
		}
		idx[item.Category] = len(result)
		result = append(result, CategoryCount{Category: item.Category, Count: 1})
	}
	return result
}
