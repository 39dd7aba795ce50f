package catalog

import (
	"context"
	"fmt"

	"github.com/HYPERLOOPFIVER/lakes/pkg/db"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db/models"
	"google.golang.org/api/iterator"
)

// Repository reads product documents from Firestore.
type Repository struct {
	client *db.Client
}

// NewRepository constructs a catalog repository.
func NewRepository(client *db.Client) (*Repository, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &Repository{client: client}, nil
}

// ListAll fetches the whole products collection. The catalog is small enough
// that filtering happens in memory on top of the cached list.
func (r *Repository) ListAll(ctx context.Context) ([]models.Product, error) {
	iter := r.client.Firestore().Collection(db.CollectionProducts).Documents(ctx)
	defer iter.Stop()

	var products []models.Product
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate products: %w", err)
		}
		var product models.Product
		if err := doc.DataTo(&product); err != nil {
			return nil, fmt.Errorf("decode product %s: %w", doc.Ref.ID, err)
		}
		product.ID = doc.Ref.ID
		products = append(products, product)
	}
	return products, nil
}

// FindByID loads a single product document.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Product, error) {
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
