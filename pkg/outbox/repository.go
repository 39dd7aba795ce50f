package outbox

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"

	dbpkg "github.com/HYPERLOOPFIVER/lakes/pkg/db"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db/models"
	"github.com/HYPERLOOPFIVER/lakes/pkg/enums"
)

// Repository persists outbox events in the outbox_events collection.
type Repository struct {
	fs *firestore.Client
}

func NewRepository(fs *firestore.Client) *Repository {
	return &Repository{fs: fs}
}

func (r *Repository) col() *firestore.CollectionRef {
	return r.fs.Collection(dbpkg.CollectionOutboxEvents)
}

// Insert writes the event document inside the supplied transaction so it
// commits or aborts together with the state change it describes.
func (r *Repository) Insert(tx *firestore.Transaction, id string, event models.OutboxEvent) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Create(r.col().Doc(id), event)
}

// FetchPending returns the oldest undelivered events, capped at limit.
func (r *Repository) FetchPending(ctx context.Context, limit int) ([]models.OutboxEvent, error) {
	snaps, err := r.col().
		Where("status", "==", string(enums.OutboxStatusPending)).
		OrderBy("createdAt", firestore.Asc).
		Limit(limit).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, err
	}

	events := make([]models.OutboxEvent, 0, len(snaps))
	for _, snap := range snaps {
		var event models.OutboxEvent
		if err := snap.DataTo(&event); err != nil {
			return nil, err
		}
		event.ID = snap.Ref.ID
		events = append(events, event)
	}
	return events, nil
}

// MarkPublished stamps the event as delivered.
func (r *Repository) MarkPublished(ctx context.Context, id string) error {
	now := time.Now()
	_, err := r.col().Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(enums.OutboxStatusPublished)},
		{Path: "publishedAt", Value: now},
	})
	return err
}

// MarkFailed records a delivery failure. Once maxAttempts is exhausted
// the event is parked in the failed state and no longer polled.
func (r *Repository) MarkFailed(ctx context.Context, id string, attempt int, maxAttempts int, cause error) error {
	updates := []firestore.Update{
		{Path: "attemptCount", Value: attempt},
		{Path: "lastError", Value: cause.Error()},
	}
	if maxAttempts > 0 && attempt >= maxAttempts {
		updates = append(updates, firestore.Update{Path: "status", Value: string(enums.OutboxStatusFailed)})
	}
	_, err := r.col().Doc(id).Update(ctx, updates)
	return err
}
