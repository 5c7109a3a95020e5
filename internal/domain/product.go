package domain

import (
	"time"
)

// Product represents a catalog product. The record store is the system of
// record for this entity; the search index and cache only ever hold derived
// copies of it.
type Product struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Category    string         `json:"category"`
	Tags        []string       `json:"tags"`
	Images      []string       `json:"images"`
	IsActive    bool           `json:"is_active"`
	Stock       int            `json:"stock"`
	Metadata    map[string]any `json:"metadata,omitempty"`

	// MerchantID is set if and only if the product was created by a merchant.
	// Admin-created products are global and carry a nil MerchantID. It is a
	// weak reference: validity of the merchant is established by the
	// authorization check at mutation time, not by a constraint.
	MerchantID *string `json:"merchant_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnedBy reports whether the product belongs to the given merchant.
// Global products (nil MerchantID) are owned by no merchant.
func (p *Product) OwnedBy(merchantID string) bool {
	return p.MerchantID != nil && *p.MerchantID == merchantID
}
