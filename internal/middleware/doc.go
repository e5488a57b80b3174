// Package middleware provides the HTTP middleware for the Filewright
// backend.
//
// Middleware stack includes:
//   - CORS: restricts origins to the local UI
//   - RateLimit: per-client token bucket rate limiting
//
// Example Usage:
//
//	router.Use(middleware.CORS(nil))
//	router.Use(middleware.RateLimit(cfg.RateLimit))
package middleware
