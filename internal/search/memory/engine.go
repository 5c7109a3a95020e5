// Package memory implements the search engine with in-memory string
// matching. It is used in local development and tests where no
// Elasticsearch cluster is available.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/dist-ecom/product-service/internal/search"
)

// Engine is an in-memory implementation of search.Engine.
// It provides simple substring matching over the text fields.
// Thread-safe via sync.RWMutex.
type Engine struct {
	mu   sync.RWMutex
	docs map[string]search.Document
}

// New creates a new in-memory search engine.
func New() *Engine {
	return &Engine{
		docs: make(map[string]search.Document),
	}
}

// Index adds or updates a single document in the in-memory index.
func (e *Engine) Index(_ context.Context, doc *search.Document) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.docs[doc.ID] = *doc
	return nil
}

// Delete removes a document from the in-memory index by its ID.
func (e *Engine) Delete(_ context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.docs, id)
	return nil
}

// Search matches the query case-insensitively against name, description,
// category and tags. Results are sorted by name for stable output.
func (e *Engine) Search(_ context.Context, query string) ([]search.Document, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	queryLower := strings.ToLower(query)

	matched := make([]search.Document, 0)
	for _, doc := range e.docs {
		if matches(doc, queryLower) {
			matched = append(matched, doc)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Name < matched[j].Name
	})

	return matched, nil
}

func matches(doc search.Document, queryLower string) bool {
	if queryLower == "" {
		return true
	}
	if strings.Contains(strings.ToLower(doc.Name), queryLower) {
		return true
	}
	if strings.Contains(strings.ToLower(doc.Description), queryLower) {
		return true
	}
	if strings.Contains(strings.ToLower(doc.Category), queryLower) {
		return true
	}
	for _, tag := range doc.Tags {
		if strings.Contains(strings.ToLower(tag), queryLower) {
			return true
		}
	}
	return false
}
