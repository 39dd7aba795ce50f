package models

import (
	"time"

	"github.com/HYPERLOOPFIVER/lakes/pkg/types"
)

// User is the profile document stored at users/{uid}. Historical writers
// populated different name fields, so DisplayNameOrFallback picks the
// first one present.
type User struct {
	ID          string         `firestore:"-" json:"id"`
	DisplayName string         `firestore:"displayName,omitempty" json:"displayName,omitempty"`
	FirstName   string         `firestore:"firstName,omitempty" json:"firstName,omitempty"`
	Name        string         `firestore:"name,omitempty" json:"name,omitempty"`
	Email       string         `firestore:"email,omitempty" json:"email,omitempty"`
	Phone       string         `firestore:"phone,omitempty" json:"phone,omitempty"`
	Address     *types.Address `firestore:"address,omitempty" json:"address,omitempty"`
	CreatedAt   time.Time      `firestore:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt   time.Time      `firestore:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// DisplayNameOrFallback returns the best available display name.
func (u User) DisplayNameOrFallback(fallback string) string {
	switch {
	case u.DisplayName != "":
		return u.DisplayName
	case u.FirstName != "":
		return u.FirstName
	case u.Name != "":
		return u.Name
	default:
		return fallback
	}
}

// WishlistItem is a document in users/{uid}/wishlist.
type WishlistItem struct {
	ID        string    `firestore:"-" json:"id"`
	ProductID string    `firestore:"productId" json:"productId"`
	AddedAt   time.Time `firestore:"addedAt,omitempty" json:"addedAt,omitempty"`
}

// SearchEntry is a document in users/{uid}/searchHistory.
type SearchEntry struct {
	ID        string    `firestore:"-" json:"id"`
	Query     string    `firestore:"query" json:"query"`
	Timestamp time.Time `firestore:"timestamp" json:"timestamp"`
}
