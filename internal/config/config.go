package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The database fields are optional: when DB_HOST
// is unset the service runs without the snapshot store and booking
// receipts, which is the normal mode for local development.
type Config struct {
	Env            string // application environment ("dev", "test", "prod")
	Port           string // HTTP port to listen on
	OperatorAPIURL string // base URL of the operator API (seats, routes, bookings)
	SessionSecret  string // secret used to sign session tokens
	SessionTTLMin  int    // session token time-to-live in minutes
	DBUser         string // database username (optional)
	DBPass         string // database password (optional)
	DBHost         string // database host address (optional; empty disables persistence)
	DBPort         string // database port number
	DBName         string // database name
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		OperatorAPIURL: must("OPERATOR_API_URL"),
		SessionSecret:  must("SESSION_TOKEN_SECRET"),
		SessionTTLMin:  mustInt("SESSION_TOKEN_TTL_MIN"),
		DBUser:         os.Getenv("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         os.Getenv("DB_HOST"),
		DBPort:         getenv("DB_PORT", "3306"),
		DBName:         os.Getenv("DB_NAME"),
	}
}

// Production reports whether the service runs in production mode.  Outside
// production, a failing seat feed falls back to a generated placeholder
// seat map instead of an error.
func (c Config) Production() bool { return c.Env == "prod" }

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
