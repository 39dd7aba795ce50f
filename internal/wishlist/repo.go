package wishlist

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db/models"
	"google.golang.org/api/iterator"
)

// Entry is a wishlist sub-collection document plus its auto id.
type Entry struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	AddedAt   time.Time `json:"addedAt"`
}

// Repository persists wishlist entries under users/{uid}/wishlist.
type Repository struct {
	client *db.Client
}

func NewRepository(client *db.Client) (*Repository, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &Repository{client: client}, nil
}

func (r *Repository) collection(userID string) *firestore.CollectionRef {
	return r.client.Firestore().
		Collection(db.CollectionUsers).Doc(userID).
		Collection(db.SubcollectionWishlist)
}

// List returns every wishlist entry for the user.
func (r *Repository) List(ctx context.Context, userID string) ([]Entry, error) {
	iter := r.collection(userID).Documents(ctx)
	defer iter.Stop()

	var entries []Entry
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate wishlist: %w", err)
		}
		var item models.WishlistItem
		if err := doc.DataTo(&item); err != nil {
			return nil, fmt.Errorf("decode wishlist entry %s: %w", doc.Ref.ID, err)
		}
		entries = append(entries, Entry{ID: doc.Ref.ID, ProductID: item.ProductID, AddedAt: item.AddedAt})
	}
	return entries, nil
}

// Add appends a new entry document. Duplicate entries under racing adds are
// tolerated; RemoveByProduct deletes every entry for the product.
func (r *Repository) Add(ctx context.Context, userID, productID string, now time.Time) (string, error) {
	ref, _, err := r.collection(userID).Add(ctx, models.WishlistItem{
		ProductID: productID,
		AddedAt:   now,
	})
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

// RemoveByProduct scans for entries referencing the product and deletes them.
func (r *Repository) RemoveByProduct(ctx context.Context, userID, productID string) (int, error) {
	iter := r.collection(userID).Where("productId", "==", productID).Documents(ctx)
	defer iter.Stop()

	removed := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return removed, fmt.Errorf("scan wishlist: %w", err)
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
