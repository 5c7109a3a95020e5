// Package repository defines the persistence interface for the product
// record store.
package repository

import (
	"context"

	"github.com/dist-ecom/product-service/internal/domain"
)

// ProductFilter defines filter criteria for listing products.
// Nil fields are not applied. Tags matches products carrying at least one
// of the given tags.
type ProductFilter struct {
	Category   *string
	Tags       []string
	MerchantID *string
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// Create inserts a new product into the store, assigning its ID.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns products matching the given filter, newest first.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)

	// Update modifies an existing product in the store.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product from the store by its identifier.
	Delete(ctx context.Context, id string) error
}
