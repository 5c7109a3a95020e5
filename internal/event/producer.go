// Package event publishes product lifecycle events to Kafka.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dist-ecom/product-service/pkg/kafka"

	"github.com/dist-ecom/product-service/internal/domain"
)

// Kafka topic constants for product domain events.
const (
	TopicProductCreated = "catalog.product.created"
	TopicProductUpdated = "catalog.product.updated"
	TopicProductDeleted = "catalog.product.deleted"

	// TopicProductIndexFailed carries reconciliation signals for products
	// whose record store write succeeded but whose search index write did
	// not. A downstream reindexer consumes it to repair the index.
	TopicProductIndexFailed = "catalog.product.index_failed"
)

// Aggregate type constant.
const AggregateTypeProduct = "product"

// Source identifier for events originating from the product service.
const SourceProductService = "product-service"

// ProductEventData is the payload for product.created and product.updated events.
type ProductEventData struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Category    string         `json:"category"`
	Tags        []string       `json:"tags"`
	IsActive    bool           `json:"is_active"`
	Stock       int            `json:"stock"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	MerchantID  *string        `json:"merchant_id,omitempty"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ID string `json:"id"`
}

// IndexFailedData is the payload for a product.index_failed event.
type IndexFailedData struct {
	ID        string `json:"id"`
	Operation string `json:"operation"`
	Reason    string `json:"reason"`
}

// Producer publishes product domain events to Kafka.
type Producer struct {
	kafka  *kafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the product service.
func NewProducer(k *kafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  k,
		logger: logger,
	}
}

func productData(product *domain.Product) ProductEventData {
	return ProductEventData{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		Tags:        product.Tags,
		IsActive:    product.IsActive,
		Stock:       product.Stock,
		Metadata:    product.Metadata,
		MerchantID:  product.MerchantID,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	event, err := kafka.NewEvent(TopicProductCreated, product.ID, AggregateTypeProduct, SourceProductService, productData(product))
	if err != nil {
		return fmt.Errorf("create product.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductCreated, event); err != nil {
		return fmt.Errorf("publish product.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.created event",
		slog.String("product_id", product.ID),
	)

	return nil
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	event, err := kafka.NewEvent(TopicProductUpdated, product.ID, AggregateTypeProduct, SourceProductService, productData(product))
	if err != nil {
		return fmt.Errorf("create product.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductUpdated, event); err != nil {
		return fmt.Errorf("publish product.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.updated event",
		slog.String("product_id", product.ID),
	)

	return nil
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id string) error {
	event, err := kafka.NewEvent(TopicProductDeleted, id, AggregateTypeProduct, SourceProductService, ProductDeletedData{ID: id})
	if err != nil {
		return fmt.Errorf("create product.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductDeleted, event); err != nil {
		return fmt.Errorf("publish product.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.deleted event",
		slog.String("product_id", id),
	)

	return nil
}

// PublishIndexFailed publishes a product.index_failed reconciliation event.
func (p *Producer) PublishIndexFailed(ctx context.Context, id, operation string, cause error) error {
	data := IndexFailedData{
		ID:        id,
		Operation: operation,
		Reason:    cause.Error(),
	}

	event, err := kafka.NewEvent(TopicProductIndexFailed, id, AggregateTypeProduct, SourceProductService, data)
	if err != nil {
		return fmt.Errorf("create product.index_failed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductIndexFailed, event); err != nil {
		return fmt.Errorf("publish product.index_failed event: %w", err)
	}

	p.logger.WarnContext(ctx, "published product.index_failed event",
		slog.String("product_id", id),
		slog.String("operation", operation),
	)

	return nil
}
