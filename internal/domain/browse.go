package domain

import "strings"

// Match reports whether the item is visible in the browse view under f.
func (f BrowseFilter) Match(item Item) bool {
	if !item.IsAvailable {
		return false
	}
	if f.ExcludeSellerID != "" && item.SellerID == f.ExcludeSellerID {
		return false
	}
	if f.Term != "" {
		term := strings.ToLower(f.Term)
		if !strings.Contains(strings.ToLower(item.Name), term) &&
			!strings.Contains(strings.ToLower(item.Description), term) &&
			!strings.Contains(strings.ToLower(item.Category), term) {
			return false
		}
	}
	if f.Category != "" && f.Category != AllCategories && item.Category != f.Category {
		return false
	}
	if f.MinPrice != nil && item.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && item.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

// FilterItems keeps the matching items in their original order.
func FilterItems(items []Item, f BrowseFilter) []Item {
	result := make([]Item, 0, len(items))
	for _, item := range items {
		if f.Match(item) {
			result = append(result, item)
		}
	}
	return result
}

// Categories lists distinct categories in order of first appearance,
// prefixed with the wildcard.
func Categories(items []Item) []string {
	seen := make(map[string]struct{}, len(items))
	result := []string{AllCategories}
	for _, item := range items {
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		result = append(result, item.Category)
	}
	return result
}
