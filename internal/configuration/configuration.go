package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/nvcfund/finmsg/internal/bic"
	"github.com/nvcfund/finmsg/internal/database"
	"github.com/nvcfund/finmsg/internal/messaging"
)

type Config struct {
	AppName  string                 `koanf:"app_name"`
	Database database.Config        `koanf:"database"`
	Bank     messaging.BankIdentity `koanf:"bank"`
	Log      struct {
		Level  string `koanf:"level"`
		Format string `koanf:"format"`
	} `koanf:"log"`
	Data struct {
		BICRegistryFile string `koanf:"bic_registry_file"`
		AutoLoad        bool   `koanf:"auto_load"`
	} `koanf:"data"`
	Server struct {
		Port int `koanf:"port"`
	} `koanf:"server"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	cfg := &Config{
		AppName: "finmsg",
		Log: struct {
			Level  string `koanf:"level"`
			Format string `koanf:"format"`
		}{
			Level:  "info",
			Format: "text",
		},
		Database: database.Config{
			Type:            "trino",
			Host:            "trino",
			Port:            8080,
			User:            "finmsg",
			Password:        "finmsg",
			Catalog:         "bank_catalog",
			Schema:          "default_schema",
			TableName:       "bic_registry",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 1 * time.Hour,
		},
		Bank: messaging.BankIdentity{
			Name:       "NVC Fund Bank",
			BIC:        "NVCFGLXX",
			IBAN:       "GL89NVCT0000000000000001",
			Street:     "African Finance Regulatory Authority Complex",
			City:       "Addis Ababa",
			Country:    "ET",
			PostalCode: "1000",
		},
		Data: struct {
			BICRegistryFile string `koanf:"bic_registry_file"`
			AutoLoad        bool   `koanf:"auto_load"`
		}{
			BICRegistryFile: "/app/bic_registry.csv",
			AutoLoad:        false,
		},
		Server: struct {
			Port int `koanf:"port"`
		}{
			Port: 8080,
		},
	}
	return cfg
}

// Load loads the configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	var k = koanf.New(".")

	// Load default values
	defaultConfig := DefaultConfig()
	if err := k.Load(structs.Provider(defaultConfig, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	// Load from config file if specified
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
				return nil, fmt.Errorf("error loading TOML config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error checking config file: %w", err)
		}
	} else {
		commonPaths := []string{
			"./config.toml",
			"./config/config.toml",
			"/etc/finmsg/config.toml",
		}
		for _, path := range commonPaths {
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
					return nil, fmt.Errorf("error loading TOML config file from %s: %w", path, err)
				}
				break
			}
		}
	}

	// Load environment variables with APP_ prefix
	callback := func(s string) string {
		s = strings.TrimPrefix(s, "APP_")
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, "_", ".")
		return s
	}
	if err := k.Load(env.Provider("APP_", ".", callback), nil); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	// Unmarshal the config into our Config struct
	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Validate the config
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

// validateConfig checks that required fields are present and valid
func validateConfig(config *Config) error {
	// Validate database config
	if config.Database.Host == "" {
		return errors.New("database host cannot be empty")
	}
	if config.Database.Catalog == "" {
		return errors.New("database catalog cannot be empty")
	}
	if config.Database.Schema == "" {
		return errors.New("database schema cannot be empty")
	}
	if config.Database.TableName == "" {
		return errors.New("database table_name cannot be empty")
	}

	// Validate connection pool settings
	if config.Database.MaxOpenConns < 0 {
		return errors.New("max open connections cannot be negative")
	}
	if config.Database.MaxIdleConns < 0 {
		return errors.New("max idle connections cannot be negative")
	}
	if config.Database.ConnMaxLifetime < 0 {
		return errors.New("connection max lifetime cannot be negative")
	}

	// Validate bank identity
	if config.Bank.Name == "" {
		return errors.New("bank name cannot be empty")
	}
	if err := bic.Validate(config.Bank.BIC); err != nil {
		return fmt.Errorf("bank BIC is invalid: %w", err)
	}
	if config.Bank.IBAN == "" {
		return errors.New("bank IBAN cannot be empty")
	}

	// Validate log config
	if config.Log.Level == "" {
		return errors.New("log level cannot be empty")
	}
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}
	if !validLogLevels[strings.ToLower(config.Log.Level)] {
		return errors.New("invalid log level: must be one of debug, info, warn, error, fatal")
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[strings.ToLower(config.Log.Format)] {
		return errors.New("invalid log format: must be text or json")
	}

	// Validate server config
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return errors.New("server port must be between 1 and 65535")
	}

	if config.Data.AutoLoad && config.Data.BICRegistryFile == "" {
		return errors.New("data.bic_registry_file cannot be empty when auto_load is set")
	}

	return nil
}
