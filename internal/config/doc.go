// Package config provides configuration management for the Filewright
// backend.
//
// Configuration is layered: built-in defaults, then an optional YAML
// file at ~/.config/filewright/config.yaml, then FW_* environment
// variables.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Archive: external archive tool settings
//   - Logging: log level and output format
//   - RateLimit: per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - FW_PORT, FW_HOST, FW_UNRAR_BINARY, FW_DATA_DIR
//   - FW_LOG_LEVEL, FW_LOG_DEV
//   - FW_RATE_LIMIT_RPS, FW_RATE_LIMIT_BURST, FW_RATE_LIMIT_ENABLED
package config
