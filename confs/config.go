package confs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Hotel    HotelConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Email    EmailConfig
}

type ServerConfig struct {
	Port         string
	UploadDir    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Driver     string // postgres | sqlite
	URL        string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SQLitePath string

	MaxOpenConns int
	MaxIdleConns int
}

type AuthConfig struct {
	CodeTTL           time.Duration
	CodeSweepInterval time.Duration
}

type HotelConfig struct {
	MaxPageSize int
}

type RedisConfig struct {
	URL string
}

type NATSConfig struct {
	URL string
}

type EmailConfig struct {
	Driver        string // dev | smtp | mailersend
	FromName      string
	FromEmail     string
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPass      string
	SMTPUseTLS    bool
	MailerSendKey string
}

// LoadConfig loads environment variables from a .env file if present
// and builds the typed configuration from the environment.
func LoadConfig() (*Config, error) {
	// Load .env if it exists; ignore error if file not found
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("warning: could not load .env: %v", err)
		}
	}
	return FromEnv(), nil
}

// FromEnv reads the configuration without touching any .env file.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			URL:        getEnv("DB_URL", ""),
			Host:       getEnv("DB_HOST", ""),
			Port:       getEnv("DB_PORT", ""),
			User:       getEnv("DB_USER", ""),
			Password:   getEnv("DB_PASSWORD", ""),
			Name:       getEnv("DB_NAME", ""),
			SQLitePath: getEnv("SQLITE_PATH", "hotel.db"),

			MaxOpenConns: getInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns: getInt("DB_MAX_IDLE_CONNS", 10),
		},
		Auth: AuthConfig{
			CodeTTL:           getDuration("CODE_TTL", 5*time.Minute),
			CodeSweepInterval: getDuration("CODE_SWEEP_INTERVAL", time.Minute),
		},
		Hotel: HotelConfig{
			MaxPageSize: getInt("MAX_PAGE_SIZE", 100),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		NATS: NATSConfig{
			URL: getEnv("NATS_URL", ""),
		},
		Email: EmailConfig{
			Driver:        strings.ToLower(getEnv("MAIL_DRIVER", "dev")),
			FromName:      getEnv("MAIL_FROM_NAME", "Hotel Management"),
			FromEmail:     getEnv("MAIL_FROM_EMAIL", "noreply@hotel.local"),
			SMTPHost:      getEnv("SMTP_HOST", "localhost"),
			SMTPPort:      getInt("SMTP_PORT", 465),
			SMTPUser:      getEnv("SMTP_USER", ""),
			SMTPPass:      getEnv("SMTP_PASS", ""),
			SMTPUseTLS:    getBool("SMTP_USE_TLS", true),
			MailerSendKey: getEnv("MAILERSEND_API_KEY", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
