// Package middleware holds the Gin middleware shared by the REST and
// WebSocket routes: CORS for the local UI and per-IP rate limiting.
package middleware
