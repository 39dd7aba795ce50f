package wishlist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/HYPERLOOPFIVER/lakes/pkg/db"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db/models"
	pkgerrors "github.com/HYPERLOOPFIVER/lakes/pkg/errors"
)

// Service exposes wishlist management for a user.
type Service interface {
	List(ctx context.Context, userID string) ([]ItemDTO, error)
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
}

// ItemDTO is a wishlist entry merged with its live product when it still
// exists. Product is nil for dangling references.
type ItemDTO struct {
	EntryID   string          `json:"entryId"`
	ProductID string          `json:"productId"`
	AddedAt   time.Time       `json:"addedAt"`
	Product   *models.Product `json:"product,omitempty"`
}

type entryStore interface {
	List(ctx context.Context, userID string) ([]Entry, error)
	Add(ctx context.Context, userID, productID string, now time.Time) (string, error)
	RemoveByProduct(ctx context.Context, userID, productID string) (int, error)
}

type productFinder interface {
	FindProduct(ctx context.Context, id string) (*models.Product, error)
	ProductsByIDs(ctx context.Context, ids []string) (map[string]models.Product, error)
}

type service struct {
	repo     entryStore
	products productFinder
	now      func() time.Time
}

// NewService builds a wishlist service.
func NewService(repo entryStore, products productFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wishlist repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	return &service{repo: repo, products: products, now: time.Now}, nil
}

// List returns the user's wishlist with live product documents attached.
func (s *service) List(ctx context.Context, userID string) ([]ItemDTO, error) {
	entries, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist")
	}
	if len(entries) == 0 {
		return []ItemDTO{}, nil
	}

	ids := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.ProductID]; ok {
			continue
		}
		seen[entry.ProductID] = struct{}{}
		ids = append(ids, entry.ProductID)
	}

	products, err := s.products.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist products")
	}

	items := make([]ItemDTO, 0, len(entries))
	for _, entry := range entries {
		item := ItemDTO{EntryID: entry.ID, ProductID: entry.ProductID, AddedAt: entry.AddedAt}
		if product, ok := products[entry.ProductID]; ok {
			p := product
			item.Product = &p
		}
		items = append(items, item)
	}
	return items, nil
}

// Add verifies the product exists and appends an entry.
func (s *service) Add(ctx context.Context, userID, productID string) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.products.FindProduct(ctx, productID); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if _, err := s.repo.Add(ctx, userID, productID, s.now()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add wishlist entry")
	}
	return nil
}

// Remove drops every entry for the product regardless of prior state.
func (s *service) Remove(ctx context.Context, userID, productID string) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.repo.RemoveByProduct(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist entry")
	}
	return nil
}
