// Package server provides HTTP server setup and initialization for the
// Filewright backend.
//
// This package orchestrates all components:
//   - HTTP routing with the Gin framework
//   - middleware stack (CORS, rate limiting, recovery, metrics)
//   - workspace manager, archive tool, filesystem services
//   - persistent store and directory watcher
//
// Server Lifecycle:
//  1. Load configuration (defaults, YAML file, FW_* environment)
//  2. Initialize logger (console in dev, JSON in prod)
//  3. Build services and register routes
//  4. Start the HTTP server
//  5. Graceful shutdown on signal
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.New(cfg, logger, home)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
