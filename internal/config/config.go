package config // package config loads application configuration from environment variables

import (
	"log"     // log reports configuration errors and halts execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types

	"github.com/joho/godotenv" // optional .env file support for local development
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Three independent signing secrets keep the token
// kinds isolated from each other: a token issued for one purpose can never
// verify under another kind's check.
type Config struct {
	Env         string // application environment (e.g. "dev", "prod")
	Port        string // HTTP port to listen on
	MongoURI    string // MongoDB connection string
	MongoDB     string // database name
	ClientURL   string // frontend base URL used in email links
	CORSOrigins string // comma-separated list of allowed CORS origins

	ActivationSecret string // signs activation and password-reset tokens
	AccessSecret     string // signs short-lived access tokens
	RefreshSecret    string // signs long-lived refresh tokens

	AccessTTLMin     int // access token time-to-live in minutes
	RefreshTTLHours  int // refresh token time-to-live in hours
	ActivationTTLMin int // activation token TTL on initial registration
	ResendTTLMin     int // activation token TTL when re-sent
	ResetTTLMin      int // password-reset token TTL
	BcryptCost       int // bcrypt cost for password hashing

	SMTPHost string // SMTP server host
	SMTPPort int    // SMTP server port
	SMTPUser string // SMTP username, also used as the From address
	SMTPPass string // SMTP password

	AWSAccessKey string // static AWS credentials for the image bucket
	AWSSecretKey string
	S3Region     string // region of the image bucket
	S3Bucket     string // bucket holding product images
	S3BaseURL    string // public URL prefix of uploaded objects
}

// Load reads configuration values from environment variables and returns a
// Config. A .env file is loaded first if one exists. Required variables are
// enforced by must() and missing values cause the program to exit with a
// fatal log message.
func Load() Config {
	_ = godotenv.Load() // absent .env is fine; real env vars win

	return Config{
		Env:         getenv("APP_ENV", "dev"),
		Port:        getenv("APP_PORT", "8070"),
		MongoURI:    must("MONGO_URI"),
		MongoDB:     must("MONGO_DB"),
		ClientURL:   must("CLIENT_URL"),
		CORSOrigins: getenv("CORS_ORIGINS", "*"),

		ActivationSecret: must("JWT_SECRET"),
		AccessSecret:     must("ACCESS_TOKEN_SECRET"),
		RefreshSecret:    must("REFRESH_TOKEN_SECRET"),

		AccessTTLMin:     intDefault("ACCESS_TOKEN_TTL_MIN", 15),
		RefreshTTLHours:  intDefault("REFRESH_TOKEN_TTL_HOURS", 24),
		ActivationTTLMin: intDefault("ACTIVATION_TOKEN_TTL_MIN", 30),
		ResendTTLMin:     intDefault("RESEND_TOKEN_TTL_MIN", 60),
		ResetTTLMin:      intDefault("RESET_TOKEN_TTL_MIN", 30),
		BcryptCost:       intDefault("BCRYPT_COST", 10),

		SMTPHost: getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort: intDefault("SMTP_PORT", 587),
		SMTPUser: must("EMAIL_USER"),
		SMTPPass: must("EMAIL_PASSWORD"),

		AWSAccessKey: must("AWS_ACCESS_KEY_ID"),
		AWSSecretKey: must("AWS_SECRET_ACCESS_KEY"),
		S3Region:     must("S3_REGION"),
		S3Bucket:     must("AWS_BUCKET_NAME"),
		S3BaseURL:    must("S3_BASE_URL"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intDefault reads an integer env var, falling back to def when unset and
// exiting when the value is present but not a valid integer.
func intDefault(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
