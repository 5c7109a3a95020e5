// Package search defines the catalog's search index abstraction.
package search

import "context"

// Document is the lightweight product projection held in the search index.
// It carries only the fields search results render; callers needing the full
// record fetch it from the record store by ID.
type Document struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	MerchantID  *string  `json:"merchant_id,omitempty"`
}

// Engine indexes product documents and answers free-text queries.
// Implementations may use Elasticsearch or in-memory storage.
type Engine interface {
	// Index adds or updates a single document in the search index.
	Index(ctx context.Context, doc *Document) error

	// Delete removes a document from the search index by its ID.
	// Deleting an absent document is not an error.
	Delete(ctx context.Context, id string) error

	// Search executes a free-text query and returns matching documents.
	Search(ctx context.Context, query string) ([]Document, error)
}
