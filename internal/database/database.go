package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/trinodb/trino-go-client/trino" // Trino driver
)

// Config holds configuration for a Trino database connection
type Config struct {
	Type            string        `koanf:"type"`
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Catalog         string        `koanf:"catalog"`
	Schema          string        `koanf:"schema"`
	TableName       string        `koanf:"table_name"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// Database provides a Trino database connection
type Database struct {
	*sql.DB
	Config Config
}

// New initializes the Trino connection used as the BIC registry backing
// store.
func New(config Config) (*Database, error) {
	if config.Type != "trino" {
		return nil, fmt.Errorf("unsupported database type: %s", config.Type)
	}

	dsn := fmt.Sprintf("http://%s:%s@%s:%d?catalog=%s&schema=%s",
		config.User,
		config.Password,
		config.Host,
		config.Port,
		config.Catalog,
		config.Schema,
	)

	db, err := sql.Open("trino", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open Trino connection: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping Trino: %w", err)
	}

	return &Database{DB: db, Config: config}, nil
}
