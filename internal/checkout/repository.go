package checkout

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	pkgcheckout "github.com/HYPERLOOPFIVER/lakes/pkg/checkout"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db/models"
	pkgerrors "github.com/HYPERLOOPFIVER/lakes/pkg/errors"
)

// StockDelta is one product-level mutation committed with the orders:
// stock goes down by Quantity, purchaseCount goes up by it.
type StockDelta struct {
	ProductID string
	Name      string
	Quantity  int64
}

// CommitInput is everything the checkout transaction writes.
type CommitInput struct {
	UserID string
	Orders []*models.Order
	Deltas []StockDelta
	Now    time.Time
}

// Repository owns the atomic checkout commit.
type Repository struct {
	client *db.Client
}

func NewRepository(client *db.Client) (*Repository, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &Repository{client: client}, nil
}

// CommitOrders runs the whole checkout write set in one Firestore
// transaction: stock re-validation against the transactional reads, one
// order document per shop plus its user and shop mirrors, stock and
// purchase-count adjustments, the cart reset, and the emit callback for
// each order's outbox event. Any failure rolls back everything.
func (r *Repository) CommitOrders(ctx context.Context, input CommitInput, emit func(tx *firestore.Transaction, order *models.Order) error) error {
	fs := r.client.Firestore()
	products := fs.Collection(db.CollectionProducts)
	orders := fs.Collection(db.CollectionOrders)
	users := fs.Collection(db.CollectionUsers)
	shops := fs.Collection(db.CollectionShops)
	carts := fs.Collection(db.CollectionCarts)

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// All reads must precede writes inside a Firestore transaction.
		stocks := make([]pkgcheckout.StockValidationInput, 0, len(input.Deltas))
		liveRefs := make(map[string]*firestore.DocumentRef, len(input.Deltas))
		for _, delta := range input.Deltas {
			ref := products.Doc(delta.ProductID)
			doc, err := tx.Get(ref)
			if err != nil {
				if db.IsNotFound(err) {
					// Product vanished since the cart was reconciled;
					// the order line survives but no stock is adjusted.
					continue
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read product")
			}
			var product models.Product
			if err := doc.DataTo(&product); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode product")
			}
			stocks = append(stocks, pkgcheckout.StockValidationInput{
				ProductID:   delta.ProductID,
				ProductName: delta.Name,
				Available:   product.Stock,
				Requested:   delta.Quantity,
			})
			liveRefs[delta.ProductID] = ref
		}
		if err := pkgcheckout.ValidateStock(stocks); err != nil {
			return err
		}

		for _, order := range input.Orders {
			if err := tx.Create(orders.Doc(order.OrderID), order); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write order")
			}
			if err := tx.Set(users.Doc(order.UserID).Collection(db.SubcollectionOrders).Doc(order.OrderID), order); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write user order mirror")
			}
			if err := tx.Set(shops.Doc(order.ShopID).Collection(db.SubcollectionOrders).Doc(order.OrderID), order); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write shop order mirror")
			}
			if emit != nil {
				if err := emit(tx, order); err != nil {
					return err
				}
			}
		}

		for _, delta := range input.Deltas {
			ref, ok := liveRefs[delta.ProductID]
			if !ok {
				continue
			}
			if err := tx.Update(ref, []firestore.Update{
				{Path: "stock", Value: firestore.Increment(-delta.Quantity)},
				{Path: "purchaseCount", Value: firestore.Increment(delta.Quantity)},
				{Path: "updatedAt", Value: input.Now},
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust stock")
			}
		}

		if err := tx.Set(carts.Doc(input.UserID), map[string]any{
			"items":     []models.CartItem{},
			"total":     0,
			"updatedAt": input.Now,
		}, firestore.MergeAll); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset cart")
		}
		return nil
	})
}
