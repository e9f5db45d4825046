// Package config loads runtime configuration for the ministry admin CLI and
// the client library it drives.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c / -config or $MINISTRY_CONFIG.
//     Files ending in .yaml or .yml are parsed as YAML, anything else as JSON.
//  3. Environment: a .env file in the working directory is loaded first
//     (existing variables win), then MINISTRY_API_URL selects the backend.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   backend base URL
//	-d string   path of the local state database
//	-o string   directory for CSV/PDF exports
//	-l string   log level (debug, info, warn, error)
//
// # File schema
//
// Durations accept Go duration strings ("5m") or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://api.example.org",
//	  "stale_time": "5m",
//	  "request_timeout": "30s",
//	  "admin_passcode_hash": "$2a$10$..."
//	}
package config
