// Package config provides configuration management for the people service.
//
// Values start from defaults, are overridden by the YAML config file and
// then by environment variables. Each attribute remembers which of these
// it came from, see Config.Attributes.
//
// # Configuration Sources
//
//   - $TDD101_CONFIG_PATH/tdd101.yml (default /etc/tdd101/tdd101.yml)
//   - Environment variables (take precedence)
//
// # Key Configuration Options
//
//   - DATABASE_URL / TDD101_DATABASE_URL: Database connection
//   - TDD101_DATABASE_DIALECT: postgres, pgx or sqlite
//   - TDD101_STORE: gorm or sqlx
//   - TDD101_LOG_LEVEL: Logging verbosity
//   - TDD101_JWT_SECRET: Enables bearer auth on mutating routes
//   - PORT / TDD101_PORT: Server listen port
package config
