package cache

import (
	"sort"
	"strings"
)

// AllProductsKey caches the full product listing.
const AllProductsKey = "products:all"

// ProductKey caches a single product by ID.
func ProductKey(id string) string {
	return "product:" + id
}

// CategoryKey caches the product listing for one category.
func CategoryKey(category string) string {
	return "products:category:" + category
}

// TagsKey caches the product listing for a tag set. Tags are sorted before
// joining so that the same set always derives the same key regardless of
// request order.
func TagsKey(tags []string) string {
	sorted := make([]string, len(tags))
	copy(sorted, tags)
	sort.Strings(sorted)
	return "products:tags:" + strings.Join(sorted, ",")
}

// MerchantKey caches the product listing for one merchant.
func MerchantKey(merchantID string) string {
	return "products:merchant:" + merchantID
}

// SearchKey caches the result projection for a raw search query string.
func SearchKey(query string) string {
	return "search:" + query
}
