// Package config manages configuration for the graph sync client.
//
// The config package loads and validates configuration from environment
// variables. All configuration is centralized here to provide a single
// source of truth.
//
// # Configuration Loading
//
// Configuration is loaded from environment variables:
//
//	cfg, err := config.Load()
//
// # Configuration Groups
//
// Configuration is organized into logical groups:
//
//   - StoreConfig: graph store backend selection
//   - SurrealConfig: SurrealDB connection settings
//   - BadgerConfig: embedded BadgerDB store settings
//   - ReconcileConfig: write reconciler timing settings
//
// # Environment Variables
//
// Key environment variables:
//
//	GRAPH_ENV          - deployment environment (default: development)
//	STORE_BACKEND      - memory, badger, or surreal (default: memory)
//	DB_HOST            - SurrealDB host
//	DB_PORT            - SurrealDB port
//	DB_NAMESPACE       - SurrealDB namespace
//	DB_DATABASE        - SurrealDB database name
//	BADGER_PATH        - on-disk directory for the embedded store
//	BADGER_SYNC_WRITES - fsync every embedded store write (default: false)
//	WRITE_ACK_TIMEOUT  - bound on waiting for a write ack
//	WRITE_VERIFY_DELAY - delay before read-back verification
//
// # Default Values
//
// Sensible defaults are provided for development:
//
//	func getEnv(key, defaultValue string) string {
//	    if value := os.Getenv(key); value != "" {
//	        return value
//	    }
//	    return defaultValue
//	}
package config
