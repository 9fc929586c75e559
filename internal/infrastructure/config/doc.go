// Package config provides 12-factor configuration for the launcher backend.
//
// Values are layered: built-in defaults, then an optional YAML or TOML file
// (LAUNCHER_CONFIG or the -config flag), then environment variables.
//
// Configuration Sections:
//   - Server: HTTP listen address and allowed CORS origins
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting
//   - Ports: Fallback dev-server port range
//   - Storage: Directory holding workspace files
//   - Supervisor: Kill grace period and terminal session cap
//
// Environment Variables:
//   - PORT, HOST, CORS_ORIGINS
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - PORT_RANGE_START, PORT_RANGE_END
//   - CONFIG_DIR
//   - KILL_GRACE_MS, MAX_TERMINAL_SESSIONS
package config
