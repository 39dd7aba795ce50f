package shops

import (
	"context"
	"fmt"
	"strings"

	"github.com/HYPERLOOPFIVER/lakes/pkg/db"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db/models"
	pkgerrors "github.com/HYPERLOOPFIVER/lakes/pkg/errors"
	"github.com/HYPERLOOPFIVER/lakes/pkg/logger"
)

// Service exposes shop lookups. Display-name resolution never fails:
// checkout and order surfaces substitute the unknown-shop fallback instead
// of aborting on a bad seller document.
type Service interface {
	GetShop(ctx context.Context, shopID string) (*models.Shop, error)
	DisplayName(ctx context.Context, shopID string) string
}

type shopReader interface {
	FindByID(ctx context.Context, shopID string) (*models.Shop, error)
}

type service struct {
	repo shopReader
	logg *logger.Logger
}

// NewService constructs a shop service.
func NewService(repo shopReader, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shop repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// GetShop loads a shop document.
func (s *service) GetShop(ctx context.Context, shopID string) (*models.Shop, error) {
	shopID = strings.TrimSpace(shopID)
	if shopID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop id is required")
	}
	shop, err := s.repo.FindByID(ctx, shopID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shop")
	}
	return shop, nil
}

// DisplayName resolves a shop's name, falling back to the unknown-shop
// label when the id is the default sentinel or the lookup fails.
func (s *service) DisplayName(ctx context.Context, shopID string) string {
	shopID = strings.TrimSpace(shopID)
	if shopID == "" || shopID == models.DefaultShopID {
		return models.UnknownShopName
	}
	shop, err := s.repo.FindByID(ctx, shopID)
	if err != nil {
		if !db.IsNotFound(err) {
			s.logg.Warn(s.logg.WithShopID(ctx, shopID), "shop lookup failed")
		}
		return models.UnknownShopName
	}
	return shop.DisplayName()
}
