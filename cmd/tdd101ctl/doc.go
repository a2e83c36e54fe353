// Command tdd101ctl runs and manages the tdd101 people service.
//
// The service keeps a table of people (first name, last name and email) and
// exposes it over a JSON API. The same table can be managed from the command
// line through the repository layer.
//
// # Quick Start
//
//	# Create the schema
//	tdd101ctl db migrate
//
//	# Start the server
//	tdd101ctl server
//
//	# Wait for it to answer on /status
//	tdd101ctl wait
//
//	# Add someone without going through HTTP
//	tdd101ctl people add --first-name Ada --last-name Lovelace --email ada@example.com
//
// # Environment Variables
//
//   - DATABASE_URL or TDD101_DATABASE_URL: connection string
//   - TDD101_DATABASE_DIALECT: postgres, pgx or sqlite
//   - TDD101_STORE: repository backend for the people commands, gorm or sqlx
//   - TDD101_JWT_SECRET: enables bearer token auth on mutating routes
//   - TDD101_LOG_LEVEL: debug, info, warn or error
//   - PORT or TDD101_PORT: server port (default: 8080)
//   - TDD101_CONFIG_PATH: directory holding tdd101.yml (default: /etc/tdd101)
package main
