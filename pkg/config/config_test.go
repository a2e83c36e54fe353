package config

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/db"
)

var envVars = []string{
	"TDD101_DATABASE_URL", "DATABASE_URL", "TDD101_DATABASE_DIALECT",
	"TDD101_STORE", "TDD101_BIND_ADDRESS", "BIND_ADDRESS", "TDD101_PORT",
	"PORT", "TDD101_LOG_LEVEL", "TDD101_LIST_LIMIT_MAX", "TDD101_JWT_SECRET",
	"TDD101_AUDIT_ENABLED",
}

// isolate points the config at an empty temp dir and clears the environment.
func isolate(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("TDD101_CONFIG_PATH", dir)
	for _, name := range envVars {
		t.Setenv(name, "")
	}

	configMu.Lock()
	globalConfig = nil
	configMu.Unlock()
	t.Cleanup(func() {
		configMu.Lock()
		globalConfig = nil
		configMu.Unlock()
	})
	return dir
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600))
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, db.DialectPostgres, cfg.DatabaseDialect)
	assert.Equal(t, StoreSQLx, cfg.Store)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 1000, cfg.ListLimitMax)
	assert.True(t, cfg.AuditEnabled)
	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, filepath.Join(dir, ConfigFileName), cfg.ConfigFilePath())

	for _, attr := range cfg.Attributes() {
		assert.Equal(t, SourceDefault, attr.Source, attr.Name)
	}
	assert.NoError(t, cfg.Validate())
}

func TestAddress(t *testing.T) {
	tests := []struct {
		bind string
		want string
	}{
		{"0.0.0.0", "0.0.0.0:8080"},
		{"localhost", "localhost:8080"},
		{"::", "[::]:8080"},
		{"::1", "[::1]:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.bind, func(t *testing.T) {
			cfg := &Config{BindAddress: tt.bind, Port: "8080"}
			assert.Equal(t, tt.want, cfg.Address())

			host, port, err := net.SplitHostPort(cfg.Address())
			require.NoError(t, err)
			assert.Equal(t, tt.bind, host)
			assert.Equal(t, "8080", port)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, `
database_url: postgres://app:hunter2@db:5432/people
database_dialect: pgx
store: gorm
port: 9090
log_level: debug
list_limit_max: 50
audit_enabled: false
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://app:hunter2@db:5432/people", cfg.DatabaseURL)
	assert.Equal(t, db.DialectPGX, cfg.DatabaseDialect)
	assert.Equal(t, StoreGorm, cfg.Store)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 50, cfg.ListLimitMax)
	assert.False(t, cfg.AuditEnabled)
	assert.Equal(t, SourceFile, cfg.Source("audit_enabled"))
	assert.Equal(t, SourceDefault, cfg.Source("bind_address"))

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "port: 9090\nstore: gorm\n")
	t.Setenv("PORT", "7070")
	t.Setenv("DATABASE_URL", "file:people.db")
	t.Setenv("TDD101_DATABASE_DIALECT", "sqlite")
	t.Setenv("TDD101_STORE", "sqlx")
	t.Setenv("TDD101_JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, SourceEnvironment, cfg.Source("port"))
	assert.Equal(t, db.DialectSQLite, cfg.DatabaseDialect)
	assert.Equal(t, StoreSQLx, cfg.Store)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.NoError(t, cfg.Validate())
}

func TestLoadPrefixedEnvironmentWins(t *testing.T) {
	isolate(t)
	t.Setenv("DATABASE_URL", "postgres://generic")
	t.Setenv("TDD101_DATABASE_URL", "postgres://specific")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://specific", cfg.DatabaseURL)
}

func TestLoadErrors(t *testing.T) {
	t.Run("malformed yaml", func(t *testing.T) {
		dir := isolate(t)
		writeConfig(t, dir, "port: [")

		_, err := Load()
		assert.ErrorContains(t, err, "failed to parse config file")
	})

	t.Run("unknown dialect in file", func(t *testing.T) {
		dir := isolate(t)
		writeConfig(t, dir, "database_dialect: oracle\n")

		_, err := Load()
		assert.ErrorContains(t, err, "database_dialect")
	})

	t.Run("unknown dialect in environment", func(t *testing.T) {
		isolate(t)
		t.Setenv("TDD101_DATABASE_DIALECT", "oracle")

		_, err := Load()
		assert.ErrorContains(t, err, "TDD101_DATABASE_DIALECT")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown store", func(c *Config) { c.Store = "bolt" }, "invalid store: bolt"},
		{"gorm on sqlite", func(c *Config) {
			c.Store = StoreGorm
			c.DatabaseDialect = db.DialectSQLite
		}, "store gorm requires a postgres database_dialect, got sqlite"},
		{"bad port", func(c *Config) { c.Port = "http" }, "invalid port: http"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "invalid log_level: loud"},
		{"zero list limit", func(c *Config) { c.ListLimitMax = 0 }, "invalid list_limit_max: 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newDefault()
			tt.mutate(cfg)
			assert.EqualError(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestAttributesMaskSecrets(t *testing.T) {
	cfg := newDefault()
	cfg.DatabaseURL = "postgres://app:hunter2@db:5432/people"
	cfg.JWTSecret = "s3cret"

	values := map[string]string{}
	for _, attr := range cfg.Attributes() {
		values[attr.Name] = attr.Value
	}

	assert.Equal(t, "postgres://app:xxxxx@db:5432/people", values["database_url"])
	assert.Equal(t, "(set)", values["jwt_secret"])
	assert.NotContains(t, cfg.FormatText(), "hunter2")
	assert.NotContains(t, cfg.FormatText(), "s3cret")
}

func TestFormat(t *testing.T) {
	dir := isolate(t)
	cfg, err := Load()
	require.NoError(t, err)

	text := cfg.FormatText()
	assert.Contains(t, text, "Config file: "+filepath.Join(dir, ConfigFileName))
	assert.Contains(t, text, "NAME")
	assert.Regexp(t, `database_url\s+\(not set\)\s+default`, text)

	out, err := cfg.FormatJSON()
	require.NoError(t, err)

	var decoded struct {
		ConfigFile string      `json:"config_file"`
		Attributes []Attribute `json:"attributes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, cfg.ConfigFilePath(), decoded.ConfigFile)
	assert.Equal(t, cfg.Attributes(), decoded.Attributes)
}

func TestGetAndReload(t *testing.T) {
	dir := isolate(t)

	assert.Equal(t, "info", Get().LogLevel)
	assert.Same(t, Get(), Get())

	writeConfig(t, dir, "log_level: warn\n")
	assert.Equal(t, "info", Get().LogLevel)

	require.NoError(t, Reload())
	assert.Equal(t, "warn", Get().LogLevel)

	writeConfig(t, dir, "port: [")
	assert.Error(t, Reload())
	assert.Equal(t, "warn", Get().LogLevel)
}

func TestGetFallsBackToDefaults(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "port: [")

	assert.Equal(t, "8080", Get().Port)
}

func TestWatch(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "log_level: info\n")

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan *Config, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, func(c *Config) {
			select {
			case changes <- c:
			default:
			}
		}, nil)
	}()

	// the watcher may not be registered yet, so keep rewriting until it sees a change
	require.Eventually(t, func() bool {
		writeConfig(t, dir, "log_level: error\n")
		select {
		case changed := <-changes:
			return changed.LogLevel == "error"
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, "error", Get().LogLevel)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	isolate(t)
	t.Setenv("TDD101_CONFIG_PATH", filepath.Join(t.TempDir(), "missing"))

	err := Watch(context.Background(), nil, nil)
	assert.ErrorContains(t, err, "failed to watch")
}
