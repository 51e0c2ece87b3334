package config

// EnvPrefix is passed to envconfig; every field carries an explicit tag so the
// prefix only matters for untagged additions.
const EnvPrefix = "RENTWHEELS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names shared between Load, its error messages, and tests.
const (
	EnvAppEnv                 = "RENTWHEELS_APP_ENV"
	EnvPort                   = "RENTWHEELS_APP_PORT"
	EnvDBDSN                  = "RENTWHEELS_DB_DSN"
	EnvDBHost                 = "RENTWHEELS_DB_HOST"
	EnvDBUser                 = "RENTWHEELS_DB_USER"
	EnvDBName                 = "RENTWHEELS_DB_NAME"
	EnvRedisURL               = "RENTWHEELS_REDIS_URL"
	EnvJWTSecret              = "RENTWHEELS_JWT_SECRET"
	EnvJWTIssuer              = "RENTWHEELS_JWT_ISSUER"
	EnvJWTExpMins             = "RENTWHEELS_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "RENTWHEELS_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
