// Package logging builds the process-wide slog logger.
//
// New returns a *slog.Logger whose handler chain
//
//   - adds request_id from the context (see WithRequestID)
//   - masks API keys and bearer tokens in messages and string attributes
//   - filters by a slog.LevelVar that can be changed at runtime
//
// The returned Logger is installed with slog.SetDefault by the run command,
// so packages log through the slog top-level functions.
package logging
