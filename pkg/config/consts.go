package config

// EnvPrefix is passed to envconfig; individual fields pin their full
// variable names, so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "STATIONERY_APP_ENV"
	EnvPort       = "STATIONERY_APP_PORT"
	EnvDBDSN      = "STATIONERY_DB_DSN"
	EnvDBHost     = "STATIONERY_DB_HOST"
	EnvDBUser     = "STATIONERY_DB_USER"
	EnvDBName     = "STATIONERY_DB_NAME"
	EnvRedisURL   = "STATIONERY_REDIS_URL"
	EnvSMTPHost   = "STATIONERY_SMTP_HOST"
	EnvAdminEmail = "STATIONERY_ADMIN_EMAIL"
	EnvAdminKey   = "STATIONERY_ADMIN_API_KEY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
