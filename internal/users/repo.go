package users

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db/models"
	"github.com/HYPERLOOPFIVER/lakes/pkg/types"
	"google.golang.org/api/iterator"
)

// searchHistorySize caps how many recent searches are read back.
const searchHistorySize = 5

// Repository persists user profiles and the searchHistory sub-collection.
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
	return r.client.Firestore().Collection(db.CollectionUsers).Doc(userID)
}

func (r *Repository) historyCollection(userID string) *firestore.CollectionRef {
	return r.doc(userID).Collection(db.SubcollectionSearchHistory)
}

// Get loads the user profile document.
func (r *Repository) Get(ctx context.Context, userID string) (*models.User, error) {
	doc, err := r.doc(userID).Get(ctx)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", userID, err)
	}
	user.ID = doc.Ref.ID
	return &user, nil
}

// SaveProfile merges the given fields into the profile document, creating
// it if absent.
func (r *Repository) SaveProfile(ctx context.Context, userID string, fields map[string]any, now time.Time) error {
	fields["updatedAt"] = now
	_, err := r.doc(userID).Set(ctx, fields, firestore.MergeAll)
	return err
}

// SaveAddress persists the delivery address on the profile.
func (r *Repository) SaveAddress(ctx context.Context, userID string, address *types.Address, now time.Time) error {
	_, err := r.doc(userID).Set(ctx, map[string]any{
		"address":   address,
		"updatedAt": now,
	}, firestore.MergeAll)
	return err
}

// SearchHistory returns the most recent search entries, newest first.
func (r *Repository) SearchHistory(ctx context.Context, userID string) ([]models.SearchEntry, error) {
	iter := r.historyCollection(userID).
		OrderBy("timestamp", firestore.Desc).
		Limit(searchHistorySize).
		Documents(ctx)
	defer iter.Stop()

	var entries []models.SearchEntry
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate search history: %w", err)
		}
		var entry models.SearchEntry
		if err := doc.DataTo(&entry); err != nil {
			return nil, fmt.Errorf("decode search entry %s: %w", doc.Ref.ID, err)
		}
		entry.ID = doc.Ref.ID
		entries = append(entries, entry)
	}
	return entries, nil
}

// FindSearchEntry returns the id of an existing entry for the term, or ""
// when the term has not been searched before.
func (r *Repository) FindSearchEntry(ctx context.Context, userID, term string) (string, error) {
	iter := r.historyCollection(userID).Where("query", "==", term).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find search entry: %w", err)
	}
	return doc.Ref.ID, nil
}

// AddSearchEntry appends a new history entry.
func (r *Repository) AddSearchEntry(ctx context.Context, userID, term string, now time.Time) error {
	_, _, err := r.historyCollection(userID).Add(ctx, models.SearchEntry{Query: term, Timestamp: now})
	return err
}

// TouchSearchEntry refreshes the timestamp of an existing entry.
func (r *Repository) TouchSearchEntry(ctx context.Context, userID, entryID string, now time.Time) error {
	_, err := r.historyCollection(userID).Doc(entryID).Update(ctx, []firestore.Update{
		{Path: "timestamp", Value: now},
	})
	return err
}
