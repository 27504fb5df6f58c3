// Package config loads runtime configuration for the user fetcher.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config (see parseJson).
//  3. A dotenv file (-env, default ".env") and the process environment
//     (see parseEnv). API credentials only ever come from here.
//  4. Command-line flags (see parseFlags).
//
// Supported flags
//
//	-cache string    cache location (file path or sqlite DSN)
//	-backend string  cache backend: json or sqlite
//	-log string      log file path
//	-layout string   table layout: full or compact
//
// Environment
//
//	FORTYTWO_CLIENT_ID      API application uid (required to fetch)
//	FORTYTWO_CLIENT_SECRET  API application secret (required to fetch)
//	FORTYTWO_CAMPUS         campus name substring, default "Singapore"
//
// # JSON schema
//
// Durations accept "2s"-style strings or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://api.intra.42.fr",
//	  "page_retry_base": "2s",
//	  "enrich_delay": "200ms",
//	  "cache_backend": "sqlite",
//	  "cache_path": "users.db"
//	}
package config
