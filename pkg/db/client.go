package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/HYPERLOOPFIVER/lakes/pkg/config"
	"github.com/HYPERLOOPFIVER/lakes/pkg/logger"
)

// Collection names used across the repositories.
const (
	CollectionProducts     = "products"
	CollectionCarts        = "carts"
	CollectionUsers        = "users"
	CollectionShops        = "shops"
	CollectionOrders       = "orders"
	CollectionOutboxEvents = "outbox_events"

	SubcollectionWishlist      = "wishlist"
	SubcollectionSearchHistory = "searchHistory"
	SubcollectionOrders        = "orders"
)

// Client wraps the shared Firestore connection plus the Firebase auth
// handle used by the token-verification middleware.
type Client struct {
	fs   *firestore.Client
	auth *firebaseauth.Client
}

// Pinger exposes the health check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New boots the Firebase app and Firestore client using the provided
// configuration. When no credentials file is configured, Application
// Default Credentials are used; the auth client is best-effort in dev so
// local runs work without a service account.
func New(ctx context.Context, cfg config.FirebaseConfig, logg *logger.Logger) (*Client, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("firebase project id is required")
	}

	var opts []option.ClientOption
	if cfg.ApplicationCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.ApplicationCredentials))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}

	fs, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("opening firestore client: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		fs.Close()
		return nil, fmt.Errorf("initializing firebase auth: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "firestore connection established")
	}

	return &Client{fs: fs, auth: authClient}, nil
}

// Firestore returns the underlying Firestore client.
func (c *Client) Firestore() *firestore.Client {
	return c.fs
}

// Auth returns the Firebase auth client.
func (c *Client) Auth() *firebaseauth.Client {
	return c.auth
}

// Ping verifies the datasource is reachable. Firestore has no ping RPC,
// so listing root collections stands in for one.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.fs == nil {
		return fmt.Errorf("firestore client is nil")
	}
	if _, err := c.fs.Collections(ctx).GetAll(); err != nil {
		return fmt.Errorf("firestore ping: %w", err)
	}
	return nil
}

// Close shuts down the Firestore connection.
func (c *Client) Close() error {
	if c == nil || c.fs == nil {
		return nil
	}
	return c.fs.Close()
}

// RunTransaction executes fn inside a Firestore transaction. Reads must
// happen before writes, and fn may be retried on contention.
func (c *Client) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx *firestore.Transaction) error) error {
	return c.fs.RunTransaction(ctx, fn)
}
