package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable.  Durations are expressed as
// minutes in the environment to keep deployments simple.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	DBUser          string        // database username
	DBPass          string        // database password (optional)
	DBHost          string        // database host address
	DBPort          string        // database port number
	DBName          string        // database name
	DBMaxOpen       int           // connection pool: max open connections
	DBMaxIdle       int           // connection pool: max idle connections
	DBConnLifetime  time.Duration // connection pool: max connection lifetime
	JWTSecret       string        // secret used to verify staff JWTs
	HoldTTL         time.Duration // default seat hold time-to-live
	SessionBuffer   time.Duration // default gap between sessions in a hall
}

// Load reads configuration values from environment variables and
// returns a Config.  Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		DBMaxOpen:      intOr("DB_MAX_OPEN", 25),
		DBMaxIdle:      intOr("DB_MAX_IDLE", 25),
		DBConnLifetime: time.Duration(intOr("DB_CONN_LIFETIME_MIN", 30)) * time.Minute,
		JWTSecret:      must("JWT_SECRET"),
		HoldTTL:        time.Duration(intOr("HOLD_TTL_MIN", 10)) * time.Minute,
		SessionBuffer:  time.Duration(intOr("HALL_BUFFER_MIN", 0)) * time.Minute,
	}
}

// must retrieves the value of a required environment variable.  If
// the variable is unset or empty, the application logs a fatal error
// and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intOr retrieves an integer environment variable, falling back to a
// default when unset.  An unparsable value is fatal.
func intOr(key string, def int) int {
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
