package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dist-ecom/product-service/pkg/database"
	apperrors "github.com/dist-ecom/product-service/pkg/errors"

	"github.com/dist-ecom/product-service/internal/domain"
	"github.com/dist-ecom/product-service/internal/repository"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return mock
}

func strPtr(s string) *string { return &s }

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

var productCols = []string{
	"id", "name", "description", "price", "category", "tags", "images",
	"is_active", "stock", "metadata", "merchant_id", "created_at", "updated_at",
}

func sampleProduct() domain.Product {
	return domain.Product{
		ID:          "prod-1",
		Name:        "Wireless Headset",
		Description: "Bluetooth over-ear headset",
		Price:       129.99,
		Category:    "electronics",
		Tags:        []string{"audio", "wireless"},
		Images:      []string{"https://cdn.example.com/headset.jpg"},
		IsActive:    true,
		Stock:       25,
		Metadata:    map[string]any{"color": "black"},
		MerchantID:  strPtr("merchant-1"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func productRow(p domain.Product) []any {
	metaJSON, _ := json.Marshal(p.Metadata)
	return []any{
		p.ID, p.Name, p.Description, p.Price, p.Category, p.Tags, p.Images,
		p.IsActive, p.Stock, metaJSON, p.MerchantID, p.CreatedAt, p.UpdatedAt,
	}
}

func TestProductRepository_Create_AssignsID(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	p.ID = ""
	metaJSON, _ := json.Marshal(p.Metadata)

	mock.ExpectExec("INSERT INTO products").
		WithArgs(
			pgxmock.AnyArg(), p.Name, p.Description, p.Price, p.Category,
			p.Tags, p.Images, p.IsActive, p.Stock, metaJSON, p.MerchantID,
			pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), &p)
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Create_Error(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()

	mock.ExpectExec("INSERT INTO products").
		WithArgs(
			pgxmock.AnyArg(), p.Name, p.Description, p.Price, p.Category,
			p.Tags, p.Images, p.IsActive, p.Stock, pgxmock.AnyArg(), p.MerchantID,
			pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnError(errors.New("connection refused"))

	err := repo.Create(context.Background(), &p)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()

	mock.ExpectQuery("SELECT (.+) FROM products").
		WithArgs(p.ID).
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(productRow(p)...))

	got, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Tags, got.Tags)
	assert.Equal(t, p.Metadata, got.Metadata)
	require.NotNil(t, got.MerchantID)
	assert.Equal(t, "merchant-1", *got.MerchantID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM products").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(productCols))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_NoFilter(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p1 := sampleProduct()
	p2 := sampleProduct()
	p2.ID = "prod-2"
	p2.Name = "Coffee Grinder"

	mock.ExpectQuery("SELECT (.+) FROM products").
		WillReturnRows(pgxmock.NewRows(productCols).
			AddRow(productRow(p1)...).
			AddRow(productRow(p2)...))

	products, err := repo.List(context.Background(), repository.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "prod-1", products[0].ID)
	assert.Equal(t, "prod-2", products[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_ByCategory(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()

	mock.ExpectQuery("SELECT (.+) FROM products").
		WithArgs("electronics").
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(productRow(p)...))

	products, err := repo.List(context.Background(), repository.ProductFilter{Category: strPtr("electronics")})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_ByTags(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	tags := []string{"audio", "wireless"}

	mock.ExpectQuery("SELECT (.+) FROM products").
		WithArgs(tags).
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(productRow(p)...))

	products, err := repo.List(context.Background(), repository.ProductFilter{Tags: tags})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_Empty(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM products").
		WillReturnRows(pgxmock.NewRows(productCols))

	products, err := repo.List(context.Background(), repository.ProductFilter{})
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	metaJSON, _ := json.Marshal(p.Metadata)

	mock.ExpectExec("UPDATE products").
		WithArgs(
			p.Name, p.Description, p.Price, p.Category, p.Tags, p.Images,
			p.IsActive, p.Stock, metaJSON, pgxmock.AnyArg(), p.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), &p)
	require.NoError(t, err)
	assert.True(t, p.UpdatedAt.After(now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()

	mock.ExpectExec("UPDATE products").
		WithArgs(
			p.Name, p.Description, p.Price, p.Category, p.Tags, p.Images,
			p.IsActive, p.Stock, pgxmock.AnyArg(), pgxmock.AnyArg(), p.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &p)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectExec("DELETE FROM products").
		WithArgs("prod-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "prod-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectExec("DELETE FROM products").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
