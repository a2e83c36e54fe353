package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/db"
)

const (
	DefaultConfigPath = "/etc/tdd101"
	ConfigFileName    = "tdd101.yml"
)

// Store backends selectable with the store attribute
const (
	StoreGorm = "gorm"
	StoreSQLx = "sqlx"
)

// Attribute sources
const (
	SourceDefault     = "default"
	SourceFile        = "file"
	SourceEnvironment = "environment"
)

// Config holds all service configuration settings
type Config struct {
	// DatabaseURL is the connection URL handed to the database driver
	DatabaseURL string `json:"database_url"`

	// DatabaseDialect selects the database/sql driver
	DatabaseDialect db.Dialect `json:"database_dialect"`

	// Store is the repository backend used by the CLI, gorm or sqlx
	Store string `json:"store"`

	BindAddress string `json:"bind_address"`
	Port        string `json:"port"`

	// LogLevel is a zap level name
	LogLevel string `json:"log_level"`

	// ListLimitMax is the maximum page size for listing requests
	ListLimitMax int `json:"list_limit_max"`

	// JWTSecret enables bearer token auth on mutating routes when set
	JWTSecret string `json:"-"`

	AuditEnabled bool `json:"audit_enabled"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// fileConfig is the YAML shape of the config file. Pointers tell unset
// attributes from zero values.
type fileConfig struct {
	DatabaseURL     *string `yaml:"database_url"`
	DatabaseDialect *string `yaml:"database_dialect"`
	Store           *string `yaml:"store"`
	BindAddress     *string `yaml:"bind_address"`
	Port            *int    `yaml:"port"`
	LogLevel        *string `yaml:"log_level"`
	ListLimitMax    *int    `yaml:"list_limit_max"`
	JWTSecret       *string `yaml:"jwt_secret"`
	AuditEnabled    *bool   `yaml:"audit_enabled"`
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

func newDefault() *Config {
	c := &Config{
		DatabaseDialect: db.DialectPostgres,
		Store:           StoreSQLx,
		BindAddress:     "0.0.0.0",
		Port:            "8080",
		LogLevel:        "info",
		ListLimitMax:    1000,
		AuditEnabled:    true,
		sources:         make(map[string]string),
	}
	for _, name := range attributeNames() {
		c.sources[name] = SourceDefault
	}
	return c
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*Config, error) {
	config := newDefault()

	configPath := os.Getenv("TDD101_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	data, err := os.ReadFile(config.configFilePath)
	switch {
	case err == nil:
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		if err := config.applyFileConfig(&file); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", config.configFilePath, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read config file %s: %w", config.configFilePath, err)
	}

	if err := config.applyEnvConfig(); err != nil {
		return nil, err
	}
	return config, nil
}

func attributeNames() []string {
	return []string{
		"database_url", "database_dialect", "store",
		"bind_address", "port", "log_level",
		"list_limit_max", "jwt_secret", "audit_enabled",
	}
}

func (c *Config) applyFileConfig(file *fileConfig) error {
	if file.DatabaseURL != nil {
		c.DatabaseURL = *file.DatabaseURL
		c.sources["database_url"] = SourceFile
	}
	if file.DatabaseDialect != nil {
		dialect, err := db.DialectString(*file.DatabaseDialect)
		if err != nil {
			return fmt.Errorf("database_dialect: %w", err)
		}
		c.DatabaseDialect = dialect
		c.sources["database_dialect"] = SourceFile
	}
	if file.Store != nil {
		c.Store = *file.Store
		c.sources["store"] = SourceFile
	}
	if file.BindAddress != nil {
		c.BindAddress = *file.BindAddress
		c.sources["bind_address"] = SourceFile
	}
	if file.Port != nil {
		c.Port = strconv.Itoa(*file.Port)
		c.sources["port"] = SourceFile
	}
	if file.LogLevel != nil {
		c.LogLevel = *file.LogLevel
		c.sources["log_level"] = SourceFile
	}
	if file.ListLimitMax != nil {
		c.ListLimitMax = *file.ListLimitMax
		c.sources["list_limit_max"] = SourceFile
	}
	if file.JWTSecret != nil {
		c.JWTSecret = *file.JWTSecret
		c.sources["jwt_secret"] = SourceFile
	}
	if file.AuditEnabled != nil {
		c.AuditEnabled = *file.AuditEnabled
		c.sources["audit_enabled"] = SourceFile
	}
	return nil
}

// lookupEnv returns the first non-empty variable among names.
func lookupEnv(names ...string) (string, bool) {
	for _, name := range names {
		if val := os.Getenv(name); val != "" {
			return val, true
		}
	}
	return "", false
}

func (c *Config) applyEnvConfig() error {
	if val, ok := lookupEnv("TDD101_DATABASE_URL", "DATABASE_URL"); ok {
		c.DatabaseURL = val
		c.sources["database_url"] = SourceEnvironment
	}
	if val, ok := lookupEnv("TDD101_DATABASE_DIALECT"); ok {
		dialect, err := db.DialectString(val)
		if err != nil {
			return fmt.Errorf("TDD101_DATABASE_DIALECT: %w", err)
		}
		c.DatabaseDialect = dialect
		c.sources["database_dialect"] = SourceEnvironment
	}
	if val, ok := lookupEnv("TDD101_STORE"); ok {
		c.Store = val
		c.sources["store"] = SourceEnvironment
	}
	if val, ok := lookupEnv("TDD101_BIND_ADDRESS", "BIND_ADDRESS"); ok {
		c.BindAddress = val
		c.sources["bind_address"] = SourceEnvironment
	}
	if val, ok := lookupEnv("TDD101_PORT", "PORT"); ok {
		c.Port = val
		c.sources["port"] = SourceEnvironment
	}
	if val, ok := lookupEnv("TDD101_LOG_LEVEL"); ok {
		c.LogLevel = val
		c.sources["log_level"] = SourceEnvironment
	}
	if val, ok := lookupEnv("TDD101_LIST_LIMIT_MAX"); ok {
		if i, err := strconv.Atoi(val); err == nil {
			c.ListLimitMax = i
			c.sources["list_limit_max"] = SourceEnvironment
		}
	}
	if val, ok := lookupEnv("TDD101_JWT_SECRET"); ok {
		c.JWTSecret = val
		c.sources["jwt_secret"] = SourceEnvironment
	}
	if val, ok := lookupEnv("TDD101_AUDIT_ENABLED"); ok {
		c.AuditEnabled = val == "true" || val == "1"
		c.sources["audit_enabled"] = SourceEnvironment
	}
	return nil
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return SourceDefault
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return SourceDefault
}

// Address returns the host:port the server listens on
func (c *Config) Address() string {
	return net.JoinHostPort(c.BindAddress, c.Port)
}

// Level parses LogLevel
func (c *Config) Level() (zapcore.Level, error) {
	return zapcore.ParseLevel(c.LogLevel)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !c.DatabaseDialect.IsADialect() {
		return fmt.Errorf("invalid database_dialect: %s", c.DatabaseDialect)
	}

	switch c.Store {
	case StoreSQLx:
	case StoreGorm:
		if !c.DatabaseDialect.IsPostgres() {
			return fmt.Errorf("store %s requires a postgres database_dialect, got %s", c.Store, c.DatabaseDialect)
		}
	default:
		return fmt.Errorf("invalid store: %s", c.Store)
	}

	if port, err := strconv.Atoi(c.Port); err != nil || port < 0 || port > 65535 {
		return fmt.Errorf("invalid port: %s", c.Port)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}
	if c.ListLimitMax <= 0 {
		return fmt.Errorf("invalid list_limit_max: %d", c.ListLimitMax)
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources.
// Secrets are masked.
func (c *Config) Attributes() []Attribute {
	secret := ""
	if c.JWTSecret != "" {
		secret = "(set)"
	}

	return []Attribute{
		{Name: "database_url", Value: redact(c.DatabaseURL), Source: c.Source("database_url")},
		{Name: "database_dialect", Value: c.DatabaseDialect.String(), Source: c.Source("database_dialect")},
		{Name: "store", Value: c.Store, Source: c.Source("store")},
		{Name: "bind_address", Value: c.BindAddress, Source: c.Source("bind_address")},
		{Name: "port", Value: c.Port, Source: c.Source("port")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "list_limit_max", Value: strconv.Itoa(c.ListLimitMax), Source: c.Source("list_limit_max")},
		{Name: "jwt_secret", Value: secret, Source: c.Source("jwt_secret")},
		{Name: "audit_enabled", Value: strconv.FormatBool(c.AuditEnabled), Source: c.Source("audit_enabled")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-20s %-50s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-20s %-50s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-20s %-50s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// redact hides the password of a database URL.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
