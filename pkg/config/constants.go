package config

// EnvPrefix is applied by envconfig to any field without an explicit tag.
const EnvPrefix = "LAKES"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names shared between Load and the test helpers.
const (
	EnvAppEnv   = "LAKES_APP_ENV"
	EnvPort     = "LAKES_APP_PORT"
	EnvLogLevel = "LAKES_LOG_LEVEL"

	EnvGCPProjectID   = "LAKES_GCP_PROJECT_ID"
	EnvGCPCredentials = "LAKES_GOOGLE_APPLICATION_CREDENTIALS"

	EnvRedisURL = "LAKES_REDIS_URL"

	EnvJWTSecret  = "LAKES_JWT_SECRET"
	EnvJWTIssuer  = "LAKES_JWT_ISSUER"
	EnvJWTExpMins = "LAKES_JWT_EXPIRATION_MINUTES"

	EnvPubSubOrdersTopic = "LAKES_PUBSUB_ORDERS_TOPIC"
	EnvPubSubOrdersSub   = "LAKES_PUBSUB_ORDERS_SUBSCRIPTION"

	EnvSendgridAPIKey = "LAKES_SENDGRID_API_KEY"
	EnvSendgridFrom   = "LAKES_SENDGRID_FROM_EMAIL"

	EnvGeocodeBaseURL = "LAKES_GEOCODE_BASE_URL"
)
