package service

import (
	"context"
	"fmt"
	"strings"

	"inventory-service/internal/models"
	"inventory-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogStore is the persistence surface the catalog service needs.
type CatalogStore interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, name string, price decimal.Decimal, quantity int) (int64, error)
	DeleteProduct(ctx context.Context, id int64) error
	GetQuantity(ctx context.Context, id int64) (int, error)
	AdjustQuantity(ctx context.Context, id int64, delta int) error
}

// CatalogCache holds the pushed read view of the catalog.
type CatalogCache interface {
	SetCatalog(ctx context.Context, products []models.Product) error
	GetCatalog(ctx context.Context) ([]models.Product, bool, error)
}

// CatalogService manages the product catalog. Mutations commit to the
// store before returning and then push the fresh product list into the
// cache; a cache failure is logged, never surfaced.
type CatalogService struct {
	store  CatalogStore
	cache  CatalogCache
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service. cache may be nil
// when no Redis is configured.
func NewCatalogService(store CatalogStore, cache CatalogCache) *CatalogService {
	return &CatalogService{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// ListProducts returns the catalog, serving the cached view when warm.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	if s.cache != nil {
		products, ok, err := s.cache.GetCatalog(ctx)
		if err != nil {
			s.logger.Warn("Catalog cache read failed, falling back to DB", zap.Error(err))
		} else if ok {
			return products, nil
		}
	}
	return s.store.GetProducts(ctx)
}

// AddProduct validates and inserts a product.
func (s *CatalogService) AddProduct(ctx context.Context, name string, price decimal.Decimal, quantity int) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("%w: product name is required", models.ErrValidation)
	}
	if price.IsNegative() {
		return 0, fmt.Errorf("%w: price must not be negative", models.ErrValidation)
	}
	if quantity < 1 {
		return 0, fmt.Errorf("%w: quantity must be at least 1", models.ErrValidation)
	}

	id, err := s.store.CreateProduct(ctx, name, price, quantity)
	if err != nil {
		return 0, err
	}

	s.logger.Info("Product added",
		zap.Int64("product_id", id),
		zap.String("name", name),
		zap.Int("quantity", quantity))

	s.RefreshCache(ctx)
	return id, nil
}

// RemoveProduct deletes a product; removing an absent id is a no-op.
func (s *CatalogService) RemoveProduct(ctx context.Context, id int64) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.RefreshCache(ctx)
	return nil
}

// GetQuantity returns the quantity on hand for a product.
func (s *CatalogService) GetQuantity(ctx context.Context, id int64) (int, error) {
	return s.store.GetQuantity(ctx, id)
}

// AdjustQuantity applies a signed delta to a product's stock. Driving
// the quantity to zero or below removes the product.
func (s *CatalogService) AdjustQuantity(ctx context.Context, id int64, delta int) error {
	if err := s.store.AdjustQuantity(ctx, id, delta); err != nil {
		return err
	}
	s.RefreshCache(ctx)
	return nil
}

// RefreshCache pushes the current product list into the cache.
func (s *CatalogService) RefreshCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	products, err := s.store.GetProducts(ctx)
	if err != nil {
		s.logger.Warn("Catalog cache refresh failed reading products", zap.Error(err))
		return
	}
	if err := s.cache.SetCatalog(ctx, products); err != nil {
		s.logger.Warn("Catalog cache refresh failed", zap.Error(err))
	}
}
