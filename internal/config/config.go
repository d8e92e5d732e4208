package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, HTTP server, database connection,
// event delivery, password hashing, anti-forgery tokens, background workers,
// and graceful shutdown behavior.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"10s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MaxBodyBytes limits the size of registration request bodies
		MaxBodyBytes int64 `env:"HTTP_MAX_BODY_BYTES" env-default:"65536" yaml:"maxBodyBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
		// AllowedOrigins lists the browser origins allowed to call the API cross-origin. "*" allows any.
		AllowedOrigins []string `env:"HTTP_ALLOWED_ORIGINS" env-separator:"," yaml:"allowedOrigins"`
	} `yaml:"http"`

	// Database contains all database connection related configurations
	Database struct {
		// Username for database authentication
		Username string `env:"DATABASE_USERNAME" env-default:"myuser" yaml:"username"`
		// Password for database authentication
		Password string `env:"DATABASE_PASSWORD" env-default:"mypassword" yaml:"password"`
		// Host is the database server hostname or IP address
		Host string `env:"DATABASE_HOST" env-default:"localhost" yaml:"host"`
		// Port is the database server port number
		Port int `env:"DATABASE_PORT" env-default:"5432" yaml:"port"`
		// SslMode defines the SSL mode for the database connection
		SslMode string `env:"DATABASE_SSL_MODE" env-default:"disable" yaml:"sslMode"`
		// DatabaseName is the name of the database to connect to
		DatabaseName string `env:"DATABASE_NAME" env-default:"registration" yaml:"name"`
		// MaxOpenConnections limits the number of open connections to the database
		MaxOpenConnections int `env:"DATABASE_MAX_OPEN_CONNECTIONS" env-default:"10" yaml:"maxOpenConnections"`
		// MaxIdleConnections limits the number of connections in the idle connection pool
		MaxIdleConnections int `env:"DATABASE_MAX_IDLE_CONNECTIONS" env-default:"8" yaml:"maxIdleConnections"`
		// ConnMaxLifetime is the maximum amount of time a connection may be reused
		ConnMaxLifetime time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME" env-default:"3m" yaml:"connMaxLifetime"`
		// ConnMaxIdleTime is the maximum amount of time a connection may be idle
		ConnMaxIdleTime time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m" yaml:"connMaxIdleTime"`
	} `yaml:"database"`

	// Redis contains the connection and channel used to announce registrations
	Redis struct {
		// Addr is the host:port of the Redis server
		Addr string `env:"REDIS_ADDR" env-default:"localhost:6379" yaml:"addr"`
		// Password for Redis authentication
		Password string `env:"REDIS_PASSWORD" env-default:"" yaml:"password"`
		// DB is the Redis logical database index
		DB int `env:"REDIS_DB" env-default:"0" yaml:"db"`
		// Channel is the pub/sub channel AccountRegistered events are published to
		Channel string `env:"REDIS_CHANNEL" env-default:"accounts.registered" yaml:"channel"`
		// BreakerTimeout is how long the publisher circuit breaker stays open
		BreakerTimeout time.Duration `env:"REDIS_BREAKER_TIMEOUT" env-default:"30s" yaml:"breakerTimeout"`
		// BreakerFailures is the number of consecutive failures that opens the breaker
		BreakerFailures uint32 `env:"REDIS_BREAKER_FAILURES" env-default:"5" yaml:"breakerFailures"`
	} `yaml:"redis"`

	// Password contains the password hashing settings
	Password struct {
		// Algorithm used for new hashes: argon2id or bcrypt
		Algorithm string `env:"PASSWORD_ALGORITHM" env-default:"argon2id" yaml:"algorithm"`
		// BcryptCost is the bcrypt work factor
		BcryptCost int `env:"PASSWORD_BCRYPT_COST" env-default:"12" yaml:"bcryptCost"`
		// Argon2Memory is the argon2id memory cost in KiB
		Argon2Memory uint32 `env:"PASSWORD_ARGON2_MEMORY" env-default:"65536" yaml:"argon2Memory"`
		// Argon2Iterations is the argon2id time cost
		Argon2Iterations uint32 `env:"PASSWORD_ARGON2_ITERATIONS" env-default:"3" yaml:"argon2Iterations"`
		// Argon2Parallelism is the argon2id degree of parallelism
		Argon2Parallelism uint8 `env:"PASSWORD_ARGON2_PARALLELISM" env-default:"4" yaml:"argon2Parallelism"`
	} `yaml:"password"`

	// AntiForgery contains the CSRF token settings of the hosting HTTP layer
	AntiForgery struct {
		// Secret is the HMAC key used to sign tokens
		Secret string `env:"ANTI_FORGERY_SECRET" env-required:"true" yaml:"secret"`
		// TTL is how long an issued token stays valid
		TTL time.Duration `env:"ANTI_FORGERY_TTL" env-default:"2h" yaml:"ttl"`
		// CookieName is the name of the cookie holding the token nonce
		CookieName string `env:"ANTI_FORGERY_COOKIE_NAME" env-default:"csrf_nonce" yaml:"cookieName"`
		// SecureCookie marks the nonce cookie as HTTPS-only
		SecureCookie bool `env:"ANTI_FORGERY_SECURE_COOKIE" env-default:"false" yaml:"secureCookie"`
	} `yaml:"antiForgery"`

	// Worker contains the background job settings
	Worker struct {
		// MaxWorkers is the number of concurrent jobs processed by this instance
		MaxWorkers int `env:"WORKER_MAX_WORKERS" env-default:"10" yaml:"maxWorkers"`
		// MaxAttempts is how many times a job is tried before it is discarded
		MaxAttempts int `env:"WORKER_MAX_ATTEMPTS" env-default:"10" yaml:"maxAttempts"`
	} `yaml:"worker"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for yaml config file and returns a filled Config struct.
// Variables from envPath, when the file exists, are loaded into the process
// environment first so they can override yaml values.
func Load(configPath, envPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not load env file: %w", err)
		}
	}

	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
