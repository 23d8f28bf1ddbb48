// Package logging provides structured logging for Hearth.
//
// It wraps log/slog with JSON or text output, level filtering, and the
// default fields service and version on every entry.
//
// Logging is configured in config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "text"     # json, text
//	  output: "stderr"   # stderr, stdout, discard
//
// The interactive console writes to stdout, so logs default to stderr.
//
// Never log credentials. Usernames are fine; password hashes are not.
package logging
