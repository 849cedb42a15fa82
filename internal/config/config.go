package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all the configuration for the application.
type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"production"`
	HTTPServer `yaml:"http_server"`
	Database   `yaml:"database"`
	Auth       `yaml:"auth"`
	Shortener  `yaml:"shortener"`
}

// HTTPServer holds HTTP server specific configuration.
type HTTPServer struct {
	Port int `yaml:"port" env:"PORT" env-default:"3000"`
}

// Database holds PostgreSQL connection configuration.
type Database struct {
	Host            string `yaml:"host" env:"PG_HOST" env-default:"localhost"`
	Port            int    `yaml:"port" env:"PG_PORT" env-default:"5432"`
	User            string `yaml:"user" env:"PG_USER" env-default:"postgres"`
	Password        string `yaml:"password" env:"PG_PASSWORD"`
	DBName          string `yaml:"dbname" env:"PG_DATABASE" env-default:"tasklink"`
	SSLMode         string `yaml:"sslmode" env:"PG_SSLMODE" env-default:"disable"`
	ConnectTimeout  int    `yaml:"connect_timeout" env:"PG_CONNECT_TIMEOUT" env-default:"5"`
	MaxIdleConns    int    `yaml:"max_idle_conns" env:"PG_MAX_IDLE_CONNS" env-default:"5"`
	MaxOpenConns    int    `yaml:"max_open_conns" env:"PG_MAX_OPEN_CONNS" env-default:"20"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"PG_CONN_MAX_LIFETIME" env-default:"1h"`
	AutoMigrate     bool   `yaml:"auto_migrate" env:"PG_AUTO_MIGRATE" env-default:"true"`
}

// Auth holds token signing configuration. The secret has no default: the
// process refuses to start without it.
type Auth struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET"`
	TokenTTL  string `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"24h"`
}

// Shortener holds service-specific configuration.
type Shortener struct {
	CodeLength int    `yaml:"code_length" env:"SHORT_CODE_LENGTH" env-default:"7"`
	BaseURL    string `yaml:"base_url" env:"BASE_URL" env-default:"http://localhost:3000"`
}

// MustLoad loads the application configuration.
func MustLoad() *Config {
	// Try to load .env file (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}

	var cfg Config

	// Check if config file path is specified
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/local.yml" // default path
	}

	// Try to load config file
	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			log.Fatalf("cannot read config: %s", err)
		}
	} else {
		// If config file doesn't exist, use environment variables only
		log.Println("Config file not found, using environment variables only")
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read config from environment: %s", err)
		}
	}

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("FATAL: JWT_SECRET is not set")
	}

	return &cfg
}
