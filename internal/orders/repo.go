package orders

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db/models"
	"github.com/HYPERLOOPFIVER/lakes/pkg/enums"
	pkgerrors "github.com/HYPERLOOPFIVER/lakes/pkg/errors"
	"github.com/HYPERLOOPFIVER/lakes/pkg/pagination"
	"google.golang.org/api/iterator"
)

// activeStatuses are the lifecycle states shown on the home surface.
var activeStatuses = []string{
	string(enums.OrderStatusPlaced),
	string(enums.OrderStatusConfirmed),
	string(enums.OrderStatusPreparing),
	string(enums.OrderStatusOutForDelivery),
}

// EmitFunc queues an outbox event inside the repo's transaction.
type EmitFunc func(tx *firestore.Transaction, order *models.Order) error

// Repository reads and transitions order documents.
type Repository struct {
	client *db.Client
}

func NewRepository(client *db.Client) (*Repository, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &Repository{client: client}, nil
}

func (r *Repository) collection() *firestore.CollectionRef {
	return r.client.Firestore().Collection(db.CollectionOrders)
}

func (r *Repository) userQuery(userID string) firestore.Query {
	return r.collection().
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)
}

// List returns one window of the user's orders, newest first. The
// document ID breaks ties between equal createdAt values so a cursor
// never skips or repeats a row.
func (r *Repository) List(ctx context.Context, userID string, limit int, cursor *pagination.Cursor) ([]models.Order, error) {
	query := r.userQuery(userID).OrderBy(firestore.DocumentID, firestore.Desc)
	if cursor != nil {
		query = query.StartAfter(cursor.CreatedAt, cursor.ID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	return r.collect(query.Documents(ctx))
}

// ListActive returns the user's orders still in flight.
func (r *Repository) ListActive(ctx context.Context, userID string) ([]models.Order, error) {
	query := r.collection().
		Where("userId", "==", userID).
		Where("status", "in", activeStatuses)
	return r.collect(query.Documents(ctx))
}

// FindByID loads and normalizes one order document.
func (r *Repository) FindByID(ctx context.Context, orderID string) (*models.Order, error) {
	doc, err := r.collection().Doc(orderID).Get(ctx)
	if err != nil {
		return nil, err
	}
	order := normalizeOrder(doc.Ref.ID, doc.Data())
	return &order, nil
}

// Watch streams the user's order list on every snapshot change until the
// context is cancelled.
func (r *Repository) Watch(ctx context.Context, userID string) (<-chan []models.Order, error) {
	snaps := r.userQuery(userID).Snapshots(ctx)
	updates := make(chan []models.Order)

	go func() {
		defer close(updates)
		defer snaps.Stop()
		for {
			snap, err := snaps.Next()
			if err != nil {
				return
			}
			orders, err := r.collect(snap.Documents)
			if err != nil {
				continue
			}
			select {
			case updates <- orders:
			case <-ctx.Done():
				return
			}
		}
	}()
	return updates, nil
}

// Cancel transitions the order to cancelled inside a transaction so an
// order the shop has already started on is rejected without a write.
func (r *Repository) Cancel(ctx context.Context, userID, orderID string, now time.Time, emit EmitFunc) (*models.Order, error) {
	ref := r.collection().Doc(orderID)
	var cancelled models.Order

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		order, err := r.readForUser(tx, ref, userID)
		if err != nil {
			return err
		}
		if err := canCancel(order); err != nil {
			return err
		}

		if err := tx.Update(ref, []firestore.Update{
			{Path: "status", Value: string(enums.OrderStatusCancelled)},
			{Path: "cancelledAt", Value: now},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}

		order.Status = enums.OrderStatusCancelled
		order.CancelledAt = &now
		order.UpdatedAt = now
		cancelled = *order
		if emit != nil {
			return emit(tx, order)
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel transaction")
	}
	return &cancelled, nil
}

// ConfirmCashPayment settles a delivered cash order inside a transaction.
func (r *Repository) ConfirmCashPayment(ctx context.Context, userID, orderID string, amount float64, now time.Time, emit EmitFunc) (*models.Order, error) {
	ref := r.collection().Doc(orderID)
	var settled models.Order

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		order, err := r.readForUser(tx, ref, userID)
		if err != nil {
			return err
		}
		if err := canConfirmCash(order, amount); err != nil {
			return err
		}

		if err := tx.Update(ref, []firestore.Update{
			{Path: "paymentStatus", Value: string(enums.PaymentStatusPaid)},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm payment")
		}

		order.PaymentStatus = enums.PaymentStatusPaid
		order.UpdatedAt = now
		settled = *order
		if emit != nil {
			return emit(tx, order)
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm transaction")
	}
	return &settled, nil
}

// readForUser loads an order inside the transaction and hides documents
// belonging to other users behind not-found.
func (r *Repository) readForUser(tx *firestore.Transaction, ref *firestore.DocumentRef, userID string) (*models.Order, error) {
	doc, err := tx.Get(ref)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read order")
	}
	order := normalizeOrder(doc.Ref.ID, doc.Data())
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return &order, nil
}

func (r *Repository) collect(iter *firestore.DocumentIterator) ([]models.Order, error) {
	defer iter.Stop()

	var orders []models.Order
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate orders: %w", err)
		}
		orders = append(orders, normalizeOrder(doc.Ref.ID, doc.Data()))
	}
	return orders, nil
}
