package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/HYPERLOOPFIVER/lakes/pkg/config"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db/models"
	pkgerrors "github.com/HYPERLOOPFIVER/lakes/pkg/errors"
	"github.com/HYPERLOOPFIVER/lakes/pkg/logger"
	redisclient "github.com/HYPERLOOPFIVER/lakes/pkg/redis"
)

const (
	trendingMinRating  = 4.5
	relatedDefaultSize = 6
)

// Service exposes read operations over the product catalog.
type Service interface {
	ListProducts(ctx context.Context, category string) ([]models.Product, error)
	GetProduct(ctx context.Context, productID string) (*ProductDetail, error)
	TrendingProducts(ctx context.Context) ([]models.Product, error)
	SearchProducts(ctx context.Context, term string) ([]models.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

// ProductDetail is a product plus related listings from the same category.
type ProductDetail struct {
	Product models.Product   `json:"product"`
	Related []models.Product `json:"related"`
}

type productReader interface {
	ListAll(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
}

type listCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(parts ...string) string
}

type service struct {
	repo  productReader
	cache listCache
	cfg   config.CatalogConfig
	logg  *logger.Logger
}

// NewService constructs a catalog service.
func NewService(repo productReader, cache listCache, cfg config.CatalogConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.TrendingSize <= 0 {
		cfg.TrendingSize = 8
	}
	return &service{repo: repo, cache: cache, cfg: cfg, logg: logg}, nil
}

// ListProducts returns the catalog, optionally narrowed to one category.
func (s *service) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	products, err := s.loadProducts(ctx)
	if err != nil {
		return nil, err
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return products, nil
	}
	filtered := make([]models.Product, 0, len(products))
	for _, product := range products {
		if strings.EqualFold(product.Category, category) {
			filtered = append(filtered, product)
		}
	}
	return filtered, nil
}

// GetProduct loads one product and listings from the same category.
func (s *service) GetProduct(ctx context.Context, productID string) (*ProductDetail, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	detail := &ProductDetail{Product: *product, Related: []models.Product{}}
	if product.Category == "" {
		return detail, nil
	}

	products, err := s.loadProducts(ctx)
	if err != nil {
		// Related listings are decoration; the product itself already loaded.
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "related products unavailable")
		return detail, nil
	}
	for _, candidate := range products {
		if candidate.ID == product.ID {
			continue
		}
		if strings.EqualFold(candidate.Category, product.Category) {
			detail.Related = append(detail.Related, candidate)
			if len(detail.Related) == relatedDefaultSize {
				break
			}
		}
	}
	return detail, nil
}

// TrendingProducts returns flagged or highly rated products, capped, falling
// back to the head of the catalog when nothing qualifies.
func (s *service) TrendingProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.loadProducts(ctx)
	if err != nil {
		return nil, err
	}

	trending := make([]models.Product, 0, s.cfg.TrendingSize)
	for _, product := range products {
		if product.Trending || product.Rating >= trendingMinRating {
			trending = append(trending, product)
			if len(trending) == s.cfg.TrendingSize {
				return trending, nil
			}
		}
	}
	if len(trending) > 0 {
		return trending, nil
	}
	if len(products) > s.cfg.TrendingSize {
		products = products[:s.cfg.TrendingSize]
	}
	return products, nil
}

// SearchProducts matches the term case-insensitively across name,
// description, category, and tags.
func (s *service) SearchProducts(ctx context.Context, term string) ([]models.Product, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search term is required")
	}

	products, err := s.loadProducts(ctx)
	if err != nil {
		return nil, err
	}
	matches := make([]models.Product, 0)
	for _, product := range products {
		if productMatches(product, term) {
			matches = append(matches, product)
		}
	}
	return matches, nil
}

// Categories lists the distinct categories present in the catalog.
func (s *service) Categories(ctx context.Context) ([]string, error) {
	products, err := s.loadProducts(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]string)
	for _, product := range products {
		category := strings.TrimSpace(product.Category)
		if category == "" {
			continue
		}
		seen[strings.ToLower(category)] = category
	}
	categories := make([]string, 0, len(seen))
	for _, category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories, nil
}

func productMatches(product models.Product, term string) bool {
	if strings.Contains(strings.ToLower(product.Name), term) {
		return true
	}
	if strings.Contains(strings.ToLower(product.Description), term) {
		return true
	}
	if strings.Contains(strings.ToLower(product.Category), term) {
		return true
	}
	for _, tag := range product.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// loadProducts serves the catalog from the Redis cache when possible and
// falls back to Firestore, repopulating the cache best effort.
func (s *service) loadProducts(ctx context.Context) ([]models.Product, error) {
	var key string
	if s.cache != nil {
		key = s.cache.CacheKey("catalog", "products")
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var products []models.Product
			uerr := json.Unmarshal([]byte(cached), &products)
			if uerr == nil {
				return products, nil
			}
			s.logg.Warn(s.logg.WithField(ctx, "error", uerr.Error()), "catalog cache entry unreadable")
		} else if !redisclient.IsMiss(err) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "catalog cache read failed")
		}
	}

	products, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	if products == nil {
		products = []models.Product{}
	}

	if s.cache != nil {
		payload, err := json.Marshal(products)
		if err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cfg.CacheTTL); err != nil {
				s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "catalog cache write failed")
			}
		}
	}
	return products, nil
}
