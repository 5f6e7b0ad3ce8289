package config

// EnvPrefix is passed to envconfig; individual tags carry the full names.
const EnvPrefix = "STITCHBOOK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "STITCHBOOK_APP_ENV"
	EnvPort       = "STITCHBOOK_APP_PORT"
	EnvDBDSN      = "STITCHBOOK_DB_DSN"
	EnvDBHost     = "STITCHBOOK_DB_HOST"
	EnvDBUser     = "STITCHBOOK_DB_USER"
	EnvDBName     = "STITCHBOOK_DB_NAME"
	EnvRedisURL   = "STITCHBOOK_REDIS_URL"
	EnvJWTSecret  = "STITCHBOOK_JWT_SECRET"
	EnvJWTIssuer  = "STITCHBOOK_JWT_ISSUER"
	EnvJWTExpMins = "STITCHBOOK_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
