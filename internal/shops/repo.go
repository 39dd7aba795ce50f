package shops

import (
	"context"
	"fmt"

	"github.com/HYPERLOOPFIVER/lakes/pkg/db"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db/models"
)

// Repository reads shop documents.
type Repository struct {
	client *db.Client
}

func NewRepository(client *db.Client) (*Repository, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &Repository{client: client}, nil
}

// FindByID loads a shop document.
func (r *Repository) FindByID(ctx context.Context, shopID string) (*models.Shop, error) {
	doc, err := r.client.Firestore().Collection(db.CollectionShops).Doc(shopID).Get(ctx)
	if err != nil {
		return nil, err
	}
	var shop models.Shop
	if err := doc.DataTo(&shop); err != nil {
		return nil, fmt.Errorf("decode shop %s: %w", doc.Ref.ID, err)
	}
	shop.ID = doc.Ref.ID
	return &shop, nil
}
