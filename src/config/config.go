package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
)

var (
	// DefaultDBName is the default name of the database.
	DefaultDBName = "alice"

	// DefaultDBTestName is the default name of the test database.
	DefaultDBTestName = "alice_test"

	// DefaultPort is the default port to expose the API server.
	DefaultPort int = 8080

	// Port is the port the API server listens on.
	Port int

	// DBHost is the host machine running the postgres instance.
	DBHost string

	// DBPort is the port that exposes the db server.
	DBPort string

	// DBName is the postgres database name.
	DBName string

	// DBUser is the postgres user account.
	DBUser string

	// DBPassword is the password for the DBUser postgres account.
	DBPassword string

	// DBSSLMode sets the SSL mode of the postgres client.
	DBSSLMode string

	// LogLevel is the level of logging for the application.
	LogLevel string

	// RedisAddr is the address of the redis instance that caches the
	// selectable image list. Empty disables the cache.
	RedisAddr string

	// CacheTTLSeconds is how long the selectable image list stays cached.
	CacheTTLSeconds int
)

func Init() error {
	DBHost = getEnvWithDefault("ALICE_DB_HOST", "localhost")
	DBPort = getEnvWithDefault("ALICE_DB_PORT", "5432")
	DBName = getEnvWithDefault("ALICE_DB_NAME", DefaultDBName)
	DBUser = getEnvWithDefault("ALICE_DB_USER", "postgres")
	DBPassword = getEnvWithDefault("ALICE_DB_PASS", "")
	DBSSLMode = getEnvWithDefault("ALICE_DB_SSL_MODE", "disable")

	LogLevel = getEnvWithDefault("ALICE_LOG_LEVEL", strconv.Itoa(int(zerolog.InfoLevel)))

	RedisAddr = getEnvWithDefault("ALICE_REDIS_ADDR", "")

	port, err := strconv.Atoi(getEnvWithDefault("ALICE_PORT", strconv.Itoa(DefaultPort)))
	if err != nil {
		return fmt.Errorf("ALICE_PORT must be a number: %v", err)
	}
	Port = port

	ttl, err := strconv.Atoi(getEnvWithDefault("ALICE_CACHE_TTL", "60"))
	if err != nil {
		return fmt.Errorf("ALICE_CACHE_TTL must be a number of seconds: %v", err)
	}
	CacheTTLSeconds = ttl

	return nil
}

func getEnvWithDefault(name string, def string) string {
	res, found := os.LookupEnv(name)
	if !found {
		return def
	}
	return res
}
