// Package service implements the catalog business logic: product CRUD and
// search over the record store, search index and cache.
//
// Write ordering is fixed: record store first, then search index, then
// cache invalidation. The record store is the system of record; index
// failures after a successful record write surface as a distinct error and
// emit a reconciliation event. Cache failures never fail an operation.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/dist-ecom/product-service/pkg/errors"

	"github.com/dist-ecom/product-service/internal/cache"
	"github.com/dist-ecom/product-service/internal/domain"
	"github.com/dist-ecom/product-service/internal/event"
	"github.com/dist-ecom/product-service/internal/repository"
	"github.com/dist-ecom/product-service/internal/search"
)

// CatalogService implements the business logic for catalog operations.
type CatalogService struct {
	repo      repository.ProductRepository
	engine    search.Engine
	cache     *cache.Cache
	producer  *event.Producer
	logger    *slog.Logger
	searchTTL time.Duration
}

// NewCatalogService creates a new catalog service. searchTTL bounds how
// long search result projections stay cached; it is shorter than the
// default TTL because search results go stale across many keys at once.
func NewCatalogService(
	repo repository.ProductRepository,
	engine search.Engine,
	c *cache.Cache,
	producer *event.Producer,
	logger *slog.Logger,
	searchTTL time.Duration,
) *CatalogService {
	return &CatalogService{
		repo:      repo,
		engine:    engine,
		cache:     c,
		producer:  producer,
		logger:    logger,
		searchTTL: searchTTL,
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Tags        []string
	Images      []string
	IsActive    *bool
	Stock       int
	Metadata    map[string]any
}

// UpdateProductInput holds the parameters for updating a product.
// Nil fields are left unchanged.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Tags        []string
	Images      []string
	IsActive    *bool
	Stock       *int
	Metadata    map[string]any
}

// CreateProduct creates a new product. Merchants own the products they
// create; admin-created products carry no merchant.
func (s *CatalogService) CreateProduct(ctx context.Context, input *CreateProductInput, actor domain.Actor) (*domain.Product, error) {
	if !actor.CanMutateCatalog() {
		return nil, apperrors.Forbidden("only admins and merchants may create products")
	}
	if input.Name == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("price must not be negative")
	}
	if input.Stock < 0 {
		return nil, apperrors.InvalidInput("stock must not be negative")
	}

	product := &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Tags:        input.Tags,
		Images:      input.Images,
		IsActive:    true,
		Stock:       input.Stock,
		Metadata:    input.Metadata,
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if product.Tags == nil {
		product.Tags = []string{}
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	if product.Metadata == nil {
		product.Metadata = make(map[string]any)
	}
	if actor.IsMerchant() {
		merchantID := actor.ID
		product.MerchantID = &merchantID
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}

	if err := s.engine.Index(ctx, toDocument(product)); err != nil {
		s.publishIndexFailed(ctx, product.ID, "index", err)
		return nil, apperrors.IndexWriteFailed(product.ID, err)
	}

	s.cache.Invalidate(ctx, listingKeys(product)...)

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("actor_id", actor.ID),
	)

	return product, nil
}

// GetProduct retrieves a product by its ID through the cache.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return cache.GetOrLoad(ctx, s.cache, cache.ProductKey(id), 0, func(ctx context.Context) (*domain.Product, error) {
		product, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, mapRepoError(err, id)
		}
		return product, nil
	})
}

// ListProducts returns all products, newest first.
func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.listCached(ctx, cache.AllProductsKey, repository.ProductFilter{})
}

// ListProductsByCategory returns the products in the given category.
func (s *CatalogService) ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return s.listCached(ctx, cache.CategoryKey(category), repository.ProductFilter{Category: &category})
}

// ListProductsByTags returns products carrying at least one of the given
// tags. The cache key is derived from the sorted tag set, so request order
// does not matter.
func (s *CatalogService) ListProductsByTags(ctx context.Context, tags []string) ([]domain.Product, error) {
	return s.listCached(ctx, cache.TagsKey(tags), repository.ProductFilter{Tags: tags})
}

// ListProductsByMerchant returns the products owned by the given merchant.
func (s *CatalogService) ListProductsByMerchant(ctx context.Context, merchantID string) ([]domain.Product, error) {
	return s.listCached(ctx, cache.MerchantKey(merchantID), repository.ProductFilter{MerchantID: &merchantID})
}

func (s *CatalogService) listCached(ctx context.Context, key string, filter repository.ProductFilter) ([]domain.Product, error) {
	return cache.GetOrLoad(ctx, s.cache, key, 0, func(ctx context.Context) ([]domain.Product, error) {
		products, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, apperrors.StoreUnavailable(err)
		}
		return products, nil
	})
}

// SearchProducts runs a free-text query against the search index and
// returns lightweight result projections. Results are cached under the raw
// query string with the shorter search TTL.
func (s *CatalogService) SearchProducts(ctx context.Context, query string) ([]search.Document, error) {
	return cache.GetOrLoad(ctx, s.cache, cache.SearchKey(query), s.searchTTL, func(ctx context.Context) ([]search.Document, error) {
		docs, err := s.engine.Search(ctx, query)
		if err != nil {
			return nil, apperrors.StoreUnavailable(err)
		}
		return docs, nil
	})
}

// UpdateProduct applies a partial update to a product. Merchants may only
// update products they own; admins may update any product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input *UpdateProductInput, actor domain.Actor) (*domain.Product, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id)
	}

	if err := s.authorizeMutation(current, actor); err != nil {
		return nil, err
	}

	// Listing keys derived from the pre-update state: a category or tag
	// change must also evict the listings the product is leaving.
	oldKeys := listingKeys(current)

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("product name is required")
		}
		current.Name = *input.Name
	}
	if input.Description != nil {
		current.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperrors.InvalidInput("price must not be negative")
		}
		current.Price = *input.Price
	}
	if input.Category != nil {
		current.Category = *input.Category
	}
	if input.Tags != nil {
		current.Tags = input.Tags
	}
	if input.Images != nil {
		current.Images = input.Images
	}
	if input.IsActive != nil {
		current.IsActive = *input.IsActive
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, apperrors.InvalidInput("stock must not be negative")
		}
		current.Stock = *input.Stock
	}
	if input.Metadata != nil {
		current.Metadata = input.Metadata
	}

	if err := s.repo.Update(ctx, current); err != nil {
		return nil, mapRepoError(err, id)
	}

	if err := s.engine.Index(ctx, toDocument(current)); err != nil {
		s.publishIndexFailed(ctx, current.ID, "index", err)
		return nil, apperrors.IndexWriteFailed(current.ID, err)
	}

	keys := append([]string{cache.ProductKey(id)}, listingKeys(current)...)
	s.cache.Invalidate(ctx, dedupe(append(keys, oldKeys...))...)

	if err := s.producer.PublishProductUpdated(ctx, current); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", current.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", current.ID),
		slog.String("actor_id", actor.ID),
	)

	return current, nil
}

// DeleteProduct removes a product from all three stores. The cache is
// invalidated before the record goes away so no reader can re-populate it
// from a record that is about to disappear; the record store delete runs
// last so a failed index delete leaves the product fully intact and
// retryable.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string, actor domain.Actor) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return mapRepoError(err, id)
	}

	if err := s.authorizeMutation(current, actor); err != nil {
		return err
	}

	keys := append([]string{cache.ProductKey(id)}, listingKeys(current)...)
	s.cache.Invalidate(ctx, keys...)

	if err := s.engine.Delete(ctx, id); err != nil {
		s.publishIndexFailed(ctx, id, "delete", err)
		return apperrors.IndexDeleteFailed(id, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err, id)
	}

	if err := s.producer.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
		slog.String("actor_id", actor.ID),
	)

	return nil
}

// authorizeMutation enforces the ownership rule: admins may mutate any
// product, merchants only their own.
func (s *CatalogService) authorizeMutation(product *domain.Product, actor domain.Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsMerchant() && product.OwnedBy(actor.ID) {
		return nil
	}
	return apperrors.Forbidden("you do not own this product")
}

func (s *CatalogService) publishIndexFailed(ctx context.Context, id, operation string, cause error) {
	if err := s.producer.PublishIndexFailed(ctx, id, operation, cause); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.index_failed event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}
}

// listingKeys returns the cached listing keys a product appears in.
func listingKeys(p *domain.Product) []string {
	keys := []string{cache.AllProductsKey}
	if p.Category != "" {
		keys = append(keys, cache.CategoryKey(p.Category))
	}
	if len(p.Tags) > 0 {
		keys = append(keys, cache.TagsKey(p.Tags))
		if len(p.Tags) > 1 {
			for _, tag := range p.Tags {
				keys = append(keys, cache.TagsKey([]string{tag}))
			}
		}
	}
	if p.MerchantID != nil {
		keys = append(keys, cache.MerchantKey(*p.MerchantID))
	}
	return keys
}

func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := keys[:0]
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// toDocument projects a product onto its search index document.
func toDocument(p *domain.Product) *search.Document {
	return &search.Document{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Tags:        p.Tags,
		MerchantID:  p.MerchantID,
	}
}

// mapRepoError translates record store errors into the API error taxonomy.
func mapRepoError(err error, id string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NotFound("product", id)
	}
	return apperrors.StoreUnavailable(err)
}
