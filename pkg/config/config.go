package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	Service   ServiceConfig
	Firebase  FirebaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	PubSub    PubSubConfig
	Sendgrid  SendgridConfig
	Geocode   GeocodeConfig
	Checkout  CheckoutConfig
	Catalog   CatalogConfig
	RateLimit RateLimitConfig
	Outbox    OutboxConfig
	Eventing  EventingConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LAKES_APP_ENV" required:"true"`
	Port         string `envconfig:"LAKES_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LAKES_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LAKES_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"LAKES_SERVICE_KIND" default:"api"`
}

type FirebaseConfig struct {
	ProjectID              string `envconfig:"LAKES_GCP_PROJECT_ID" required:"true"`
	ApplicationCredentials string `envconfig:"LAKES_GOOGLE_APPLICATION_CREDENTIALS"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LAKES_REDIS_URL" required:"true"`
	Password     string        `envconfig:"LAKES_REDIS_PASSWORD"`
	DB           int           `envconfig:"LAKES_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LAKES_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LAKES_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LAKES_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LAKES_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LAKES_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig backs the dev-mode token issuer used when Firebase credentials
// are not configured, such as local runs and CI.
type JWTConfig struct {
	Secret            string `envconfig:"LAKES_JWT_SECRET"`
	Issuer            string `envconfig:"LAKES_JWT_ISSUER" default:"lakes"`
	ExpirationMinutes int    `envconfig:"LAKES_JWT_EXPIRATION_MINUTES" default:"1440"`
}

func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"LAKES_PUBSUB_ORDERS_TOPIC" required:"true"`
	OrdersSubscription string `envconfig:"LAKES_PUBSUB_ORDERS_SUBSCRIPTION" required:"true"`
}

type SendgridConfig struct {
	APIKey      string `envconfig:"LAKES_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"LAKES_SENDGRID_FROM_EMAIL"`
}

type GeocodeConfig struct {
	BaseURL   string        `envconfig:"LAKES_GEOCODE_BASE_URL" default:"https://nominatim.openstreetmap.org"`
	UserAgent string        `envconfig:"LAKES_GEOCODE_USER_AGENT" default:"lakes-backend"`
	Timeout   time.Duration `envconfig:"LAKES_GEOCODE_TIMEOUT" default:"5s"`
}

type CheckoutConfig struct {
	DeliveryFee    string        `envconfig:"LAKES_CHECKOUT_DELIVERY_FEE" default:"20"`
	TaxRate        string        `envconfig:"LAKES_CHECKOUT_TAX_RATE" default:"0.08"`
	SlotCount      int           `envconfig:"LAKES_CHECKOUT_SLOT_COUNT" default:"48"`
	SlotInterval   time.Duration `envconfig:"LAKES_CHECKOUT_SLOT_INTERVAL" default:"15m"`
	IdempotencyTTL time.Duration `envconfig:"LAKES_CHECKOUT_IDEMPOTENCY_TTL" default:"24h"`
}

type RateLimitConfig struct {
	Requests int           `envconfig:"LAKES_RATE_LIMIT_REQUESTS" default:"10"`
	Window   time.Duration `envconfig:"LAKES_RATE_LIMIT_WINDOW" default:"1m"`
}

type CatalogConfig struct {
	CacheTTL     time.Duration `envconfig:"LAKES_CATALOG_CACHE_TTL" default:"5m"`
	TrendingSize int           `envconfig:"LAKES_CATALOG_TRENDING_SIZE" default:"8"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"LAKES_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"LAKES_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"LAKES_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type EventingConfig struct {
	OutboxIdempotencyTTL time.Duration `envconfig:"LAKES_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}
