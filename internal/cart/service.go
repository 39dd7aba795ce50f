package cart

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/HYPERLOOPFIVER/lakes/pkg/db"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db/models"
	pkgerrors "github.com/HYPERLOOPFIVER/lakes/pkg/errors"
	"github.com/HYPERLOOPFIVER/lakes/pkg/logger"
)

const (
	missingProductName  = "Product not found"
	missingProductImage = "/placeholder.jpg"
)

// Service owns the per-user cart document. Mutations follow a
// read-modify-write cycle without a transaction; concurrent writers settle
// last write wins.
type Service interface {
	GetCart(ctx context.Context, userID string) (*CartView, error)
	AddItem(ctx context.Context, userID, productID string, quantity int64) (*CartView, error)
	ChangeQuantity(ctx context.Context, userID, productID string, delta int64) (*CartView, error)
	RemoveItem(ctx context.Context, userID, productID string) (*CartView, error)
	Clear(ctx context.Context, userID string) (*CartView, error)
}

// CartLine is a cart entry merged with the live product document.
type CartLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
	ImageURL  string  `json:"imageUrl,omitempty"`
	ShopID    string  `json:"shopId,omitempty"`
	Stock     int64   `json:"stock"`
	Missing   bool    `json:"missing,omitempty"`
}

// CartView is the reconciled cart returned to clients.
type CartView struct {
	Items []CartLine `json:"items"`
	Total float64    `json:"total"`
}

type cartStore interface {
	Get(ctx context.Context, userID string) (*models.Cart, error)
	Init(ctx context.Context, userID string, now time.Time) error
	Save(ctx context.Context, userID string, items []models.CartItem, total float64, now time.Time) error
	FindProduct(ctx context.Context, id string) (*models.Product, error)
	ProductsByIDs(ctx context.Context, ids []string) (map[string]models.Product, error)
}

type service struct {
	repo cartStore
	logg *logger.Logger
	now  func() time.Time
}

// NewService constructs a cart service.
func NewService(repo cartStore, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg, now: time.Now}, nil
}

// GetCart loads the cart, initializing an empty document when absent, and
// reconciles surviving entries against live products. Entries whose product
// no longer exists keep their line with a placeholder so counts and totals
// stay auditable.
func (s *service) GetCart(ctx context.Context, userID string) (*CartView, error) {
	items, err := s.loadItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	valid := sanitizeItems(items)
	if len(valid) == 0 {
		return &CartView{Items: []CartLine{}}, nil
	}

	ids := make([]string, 0, len(valid))
	seen := make(map[string]struct{}, len(valid))
	for _, item := range valid {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	products, err := s.repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reconcile cart")
	}

	view := &CartView{Items: make([]CartLine, 0, len(valid))}
	for _, item := range valid {
		line := CartLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Name:      item.Name,
			ImageURL:  item.ImageURL,
		}
		if product, ok := products[item.ProductID]; ok {
			line.Name = product.Name
			line.ImageURL = product.ImageURL
			line.ShopID = product.ShopID
			line.Stock = product.Stock
		} else {
			line.Name = missingProductName
			line.Price = 0
			line.ImageURL = missingProductImage
			line.Missing = true
		}
		view.Total += line.Price * float64(line.Quantity)
		view.Items = append(view.Items, line)
	}
	return view, nil
}

// AddItem appends a new entry snapshotting the product's current price and
// name, or bumps the quantity of an existing entry.
func (s *service) AddItem(ctx context.Context, userID, productID string, quantity int64) (*CartView, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.repo.FindProduct(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	items, err := s.loadItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	items = sanitizeItems(items)

	found := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		items = append(items, models.CartItem{
			ProductID: productID,
			Quantity:  quantity,
			Price:     product.Price,
			Name:      product.Name,
			ImageURL:  product.ImageURL,
			AddedAt:   s.now(),
		})
	}

	return s.persist(ctx, userID, items)
}

// ChangeQuantity applies a signed delta to an entry. A result of zero or
// less removes the entry. Deltas for products not in the cart are ignored.
func (s *service) ChangeQuantity(ctx context.Context, userID, productID string, delta int64) (*CartView, error) {
	items, err := s.loadItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	items = sanitizeItems(items)

	updated := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.ProductID != productID {
			updated = append(updated, item)
			continue
		}
		item.Quantity += delta
		if item.Quantity > 0 {
			updated = append(updated, item)
		}
	}

	return s.persist(ctx, userID, updated)
}

// RemoveItem drops the entry for the product, if present.
func (s *service) RemoveItem(ctx context.Context, userID, productID string) (*CartView, error) {
	items, err := s.loadItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	items = sanitizeItems(items)

	updated := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.ProductID != productID {
			updated = append(updated, item)
		}
	}

	return s.persist(ctx, userID, updated)
}

// Clear empties the cart.
func (s *service) Clear(ctx context.Context, userID string) (*CartView, error) {
	if _, err := s.loadItems(ctx, userID); err != nil {
		return nil, err
	}
	return s.persist(ctx, userID, []models.CartItem{})
}

// loadItems reads the cart, creating an empty document on first touch.
func (s *service) loadItems(ctx context.Context, userID string) ([]models.CartItem, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			if err := s.repo.Init(ctx, userID, s.now()); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "init cart")
			}
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart.Items, nil
}

func (s *service) persist(ctx context.Context, userID string, items []models.CartItem) (*CartView, error) {
	total := totalOf(items)
	if err := s.repo.Save(ctx, userID, items, total, s.now()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}

	view := &CartView{Items: make([]CartLine, 0, len(items)), Total: total}
	for _, item := range items {
		view.Items = append(view.Items, CartLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			ImageURL:  item.ImageURL,
		})
	}
	return view, nil
}

func sanitizeItems(items []models.CartItem) []models.CartItem {
	valid := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.Valid() {
			valid = append(valid, item)
		}
	}
	return valid
}

func totalOf(items []models.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
