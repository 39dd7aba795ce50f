package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/HYPERLOOPFIVER/lakes/pkg/db"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db/models"
	pkgerrors "github.com/HYPERLOOPFIVER/lakes/pkg/errors"
	"github.com/HYPERLOOPFIVER/lakes/pkg/logger"
	"github.com/HYPERLOOPFIVER/lakes/pkg/types"
)

// Service exposes account operations: profile, delivery address, and the
// recent-search history behind the storefront search box.
type Service interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, input ProfileUpdate) (*models.User, error)
	SaveAddress(ctx context.Context, userID string, address types.Address) error
	Locate(ctx context.Context, userID string, lat, lng float64) (*types.Address, error)
	RecordSearch(ctx context.Context, userID, term string) error
	SearchHistory(ctx context.Context, userID string) ([]string, error)
}

// ProfileUpdate carries optional profile mutations; nil fields are left
// untouched.
type ProfileUpdate struct {
	DisplayName *string
	Phone       *string
}

type profileStore interface {
	Get(ctx context.Context, userID string) (*models.User, error)
	SaveProfile(ctx context.Context, userID string, fields map[string]any, now time.Time) error
	SaveAddress(ctx context.Context, userID string, address *types.Address, now time.Time) error
	SearchHistory(ctx context.Context, userID string) ([]models.SearchEntry, error)
	FindSearchEntry(ctx context.Context, userID, term string) (string, error)
	AddSearchEntry(ctx context.Context, userID, term string, now time.Time) error
	TouchSearchEntry(ctx context.Context, userID, entryID string, now time.Time) error
}

type geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (*types.Address, error)
}

type service struct {
	repo    profileStore
	geocode geocoder
	logg    *logger.Logger
	now     func() time.Time
}

// NewService constructs the account service. The geocoder may be nil when
// reverse geocoding is not configured; Locate then returns a validation
// error.
func NewService(repo profileStore, geocode geocoder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, geocode: geocode, logg: logg, now: time.Now}, nil
}

// GetProfile loads the caller's profile.
func (s *service) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.Get(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return user, nil
}

// UpdateProfile merges the provided fields and returns the fresh profile.
func (s *service) UpdateProfile(ctx context.Context, userID string, input ProfileUpdate) (*models.User, error) {
	fields := make(map[string]any)
	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "display name cannot be blank")
		}
		fields["displayName"] = name
	}
	if input.Phone != nil {
		fields["phone"] = strings.TrimSpace(*input.Phone)
	}
	if len(fields) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no profile fields to update")
	}

	if err := s.repo.SaveProfile(ctx, userID, fields, s.now()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save profile")
	}
	return s.GetProfile(ctx, userID)
}

// SaveAddress persists the delivery address used by checkout.
func (s *service) SaveAddress(ctx context.Context, userID string, address types.Address) error {
	if address.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}
	if err := s.repo.SaveAddress(ctx, userID, &address, s.now()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save address")
	}
	return nil
}

// Locate reverse-geocodes device coordinates into an address and saves it
// as the delivery address.
func (s *service) Locate(ctx context.Context, userID string, lat, lng float64) (*types.Address, error) {
	if s.geocode == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "geocoding is not configured")
	}
	address, err := s.geocode.Reverse(ctx, lat, lng)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveAddress(ctx, userID, address, s.now()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save address")
	}
	return address, nil
}

// RecordSearch stores a search term, refreshing the timestamp when the
// term was searched before instead of writing a duplicate.
func (s *service) RecordSearch(ctx context.Context, userID, term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "search term is required")
	}

	entryID, err := s.repo.FindSearchEntry(ctx, userID, term)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check search history")
	}
	if entryID != "" {
		if err := s.repo.TouchSearchEntry(ctx, userID, entryID, s.now()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refresh search entry")
		}
		return nil
	}
	if err := s.repo.AddSearchEntry(ctx, userID, term, s.now()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record search")
	}
	return nil
}

// SearchHistory lists the user's latest search terms, newest first.
func (s *service) SearchHistory(ctx context.Context, userID string) ([]string, error) {
	entries, err := s.repo.SearchHistory(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load search history")
	}
	terms := make([]string, 0, len(entries))
	for _, entry := range entries {
		terms = append(terms, entry.Query)
	}
	return terms, nil
}
