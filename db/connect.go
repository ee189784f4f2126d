package db

import (
	"fmt"
	"strings"

	"hotel-server/confs"
	"hotel-server/entities"
	"hotel-server/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the configured database, sizes its pool and migrates the
// user and hotel tables.
func Connect(cfg confs.DatabaseConfig) (Database, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:      gormlogger.Default.LogMode(gormlogger.Info),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	logger.Info("database connection established", "driver", driverName(cfg))

	if err := Migrate(gdb); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	logger.Info("database migrations completed")

	return &GormDatabase{DB: gdb}, nil
}

func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&entities.User{}, &entities.Hotel{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func driverName(cfg confs.DatabaseConfig) string {
	if cfg.Driver == "" {
		return "postgres"
	}
	return cfg.Driver
}

func dialectorFor(cfg confs.DatabaseConfig) (gorm.Dialector, error) {
	switch driverName(cfg) {
	case "sqlite":
		logger.Info("opening sqlite database", "path", cfg.SQLitePath)
		return sqlite.Open(cfg.SQLitePath), nil
	case "postgres":
		dsn, err := postgresDSN(cfg)
		if err != nil {
			return nil, err
		}
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// postgresDSN prefers DB_URL. Remote hosts get sslmode=require unless the
// URL already names a mode.
func postgresDSN(cfg confs.DatabaseConfig) (string, error) {
	if cfg.URL != "" {
		if strings.Contains(cfg.URL, "sslmode=") {
			return cfg.URL, nil
		}
		sep := "?"
		if strings.Contains(cfg.URL, "?") {
			sep = "&"
		}
		return cfg.URL + sep + "sslmode=require", nil
	}

	if cfg.Host == "" || cfg.Port == "" || cfg.User == "" || cfg.Password == "" || cfg.Name == "" {
		return "", fmt.Errorf("missing required database configuration: DB_URL or (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}

	sslMode := "require"
	if cfg.Host == "localhost" || cfg.Host == "127.0.0.1" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, sslMode), nil
}
