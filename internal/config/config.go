package config

import (
	"log"
	"os"
	"strconv"
)

// Config carries the core settings every request path depends on: the
// listener, the MySQL pool and the token signing parameters.  The rate
// limiter, response cache, Redis and broker settings have their own
// loaders so the optional subsystems stay decoupled from the required
// ones.
type Config struct {
	Env            string
	Port           string
	DBUser         string
	DBPass         string
	DBHost         string
	DBPort         string
	DBName         string
	JWTSecret      string
	AccessTTLMin   int // access token lifetime, minutes
	RefreshTTLDays int // refresh token lifetime, days
	BcryptCost     int
}

// Load reads the required environment variables.  The process refuses
// to start with a partial core config: serving bookings without a
// database or signing tokens with an empty secret is worse than not
// starting at all.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty password is valid for local MySQL
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
	}
}

func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
