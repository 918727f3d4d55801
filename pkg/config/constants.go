package config

// EnvPrefix is passed to envconfig; individual fields carry explicit
// RENTEASE_* names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv            = "RENTEASE_APP_ENV"
	EnvPort              = "RENTEASE_APP_PORT"
	EnvDBDSN             = "RENTEASE_DB_DSN"
	EnvDBHost            = "RENTEASE_DB_HOST"
	EnvDBUser            = "RENTEASE_DB_USER"
	EnvDBName            = "RENTEASE_DB_NAME"
	EnvRedisURL          = "RENTEASE_REDIS_URL"
	EnvJWTSecret         = "RENTEASE_JWT_SECRET"
	EnvJWTIssuer         = "RENTEASE_JWT_ISSUER"
	EnvJWTExpMins        = "RENTEASE_JWT_EXPIRATION_MINUTES"
	EnvRazorpayKeyID     = "RENTEASE_RAZORPAY_KEY_ID"
	EnvRazorpayKeySecret = "RENTEASE_RAZORPAY_KEY_SECRET"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
