package config // package config loads application configuration from environment variables

import (
	"os"   // os provides access to environment variables
	"time" // time expresses the token lifetime

	"github.com/joho/godotenv"       // godotenv loads an optional .env file into the environment
	log "github.com/sirupsen/logrus" // logrus reports fatal configuration errors
)

// Config holds the runtime configuration of the HTTP server.  Each field
// corresponds to an environment variable.
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	DBUser    string // database username
	DBPass    string // database password (optional)
	DBHost    string // database host address
	DBPort    string // database port number
	DBName    string // database name
	JWTSecret string // secret used to verify bearer tokens
	Statement StatementConfig
	AMQP      AMQPConfig
}

// Load reads a .env file when present and then builds a Config from the
// environment.  Variables already set in the environment win over the
// file.  Missing required variables cause the program to exit.
func Load() Config {
	LoadDotEnv()
	return Config{
		Env:       envStr("APP_ENV", "dev"),
		Port:      envStr("APP_PORT", "8080"),
		DBUser:    must("DB_USER"),
		DBPass:    os.Getenv("DB_PASS"),
		DBHost:    must("DB_HOST"),
		DBPort:    envStr("DB_PORT", "3306"),
		DBName:    must("DB_NAME"),
		JWTSecret: must("JWT_SECRET"),
		Statement: LoadStatementConfig(),
		AMQP:      LoadAMQPConfig(),
	}
}

// LoadDotEnv loads ENV_FILE (default ".env") if it exists.  A missing
// file is not an error.
func LoadDotEnv() {
	path := envStr("ENV_FILE", ".env")
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.WithError(err).Warnf("config: could not load %s", path)
	}
}

// AccessTTL is the default lifetime of minted tokens, read from
// ACCESS_TOKEN_TTL_MIN (minutes, default 60).
func AccessTTL() time.Duration {
	return time.Duration(envInt("ACCESS_TOKEN_TTL_MIN", 60)) * time.Minute
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
