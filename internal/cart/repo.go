package cart

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db/models"
	"google.golang.org/api/iterator"
)

// lookupChunkSize is the Firestore limit for documentId 'in' queries.
const lookupChunkSize = 10

// Repository reads and writes cart documents, one per user.
type Repository struct {
	client *db.Client
}

func NewRepository(client *db.Client) (*Repository, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &Repository{client: client}, nil
}

func (r *Repository) doc(userID string) *firestore.DocumentRef {
	return r.client.Firestore().Collection(db.CollectionCarts).Doc(userID)
}

// Get loads the user's cart document.
func (r *Repository) Get(ctx context.Context, userID string) (*models.Cart, error) {
	doc, err := r.doc(userID).Get(ctx)
	if err != nil {
		return nil, err
	}
	var cart models.Cart
	if err := doc.DataTo(&cart); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", userID, err)
	}
	return &cart, nil
}

// Init writes an empty cart document for the user. Last write wins when two
// devices race to initialize.
func (r *Repository) Init(ctx context.Context, userID string, now time.Time) error {
	_, err := r.doc(userID).Set(ctx, map[string]any{
		"items":     []models.CartItem{},
		"total":     0,
		"createdAt": now,
		"updatedAt": now,
	})
	return err
}

// Save replaces the cart's items and total in one write.
func (r *Repository) Save(ctx context.Context, userID string, items []models.CartItem, total float64, now time.Time) error {
	_, err := r.doc(userID).Set(ctx, map[string]any{
		"items":     items,
		"total":     total,
		"updatedAt": now,
	}, firestore.MergeAll)
	return err
}

// FindProduct loads a single product document.
func (r *Repository) FindProduct(ctx context.Context, id string) (*models.Product, error) {
	doc, err := r.client.Firestore().Collection(db.CollectionProducts).Doc(id).Get(ctx)
	if err != nil {
		return nil, err
	}
	var product models.Product
	if err := doc.DataTo(&product); err != nil {
		return nil, fmt.Errorf("decode product %s: %w", doc.Ref.ID, err)
	}
	product.ID = doc.Ref.ID
	return &product, nil
}

// ProductsByIDs fetches live product documents in chunks of ten, the
// documentId 'in' query limit. Ids with no backing document are simply
// absent from the result.
func (r *Repository) ProductsByIDs(ctx context.Context, ids []string) (map[string]models.Product, error) {
	products := make(map[string]models.Product, len(ids))
	col := r.client.Firestore().Collection(db.CollectionProducts)

	for start := 0; start < len(ids); start += lookupChunkSize {
		end := start + lookupChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		refs := make([]*firestore.DocumentRef, 0, end-start)
		for _, id := range ids[start:end] {
			refs = append(refs, col.Doc(id))
		}

		iter := col.Where(firestore.DocumentID, "in", refs).Documents(ctx)
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				iter.Stop()
				return nil, fmt.Errorf("lookup products: %w", err)
			}
			var product models.Product
			if err := doc.DataTo(&product); err != nil {
				iter.Stop()
				return nil, fmt.Errorf("decode product %s: %w", doc.Ref.ID, err)
			}
			product.ID = doc.Ref.ID
			products[product.ID] = product
		}
		iter.Stop()
	}
	return products, nil
}
