// Package config provides configuration management for relay.
//
// Configuration is read from an optional YAML file, completed with defaults
// and then overridden from environment variables:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Overrides use the RELAY_ prefix, for example:
//
//   - RELAY_LISTEN_ADDRESS overrides server.listen_address
//   - RELAY_COMPLETION_MODEL overrides completion.model
//   - RELAY_COMPLETION_TIMEOUT overrides completion.timeout
//   - RELAY_LOG_LEVEL overrides telemetry.logging.level
//
// The upstream credential itself is never part of the configuration. Only the
// name of the variable holding it (completion.api_key_env) is configured, and
// the variable is read on every completion call.
//
// # Dotenv Files
//
// LoadEnvFile loads a dotenv file into the process environment once at
// start-up. Variables already present in the environment take precedence.
//
// # Validation
//
// Validate combines validator struct tags with cross-field rules and returns a
// ValidationError listing every FieldError found.
//
// # Hot Reload
//
// Watcher reloads the file when it changes and publishes the result through
// SetConfig. Only settings that are safe to change at runtime, such as the log
// level, are applied by the caller's reload callback.
package config
