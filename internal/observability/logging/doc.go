// Package logging provides structured logging utilities with context propagation.
//
// This package wraps the standard library's log/slog package with helper functions
// for the logging patterns used throughout the service.
//
// Key features:
//   - JSON (default) and text output formats
//   - Request ID propagation
//   - Context-aware logging
//   - Configurable log levels (LOG_LEVEL=debug|info|warn|error)
//
// Example usage:
//
//	import "page-hits/internal/observability/logging"
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("application started", slog.String("version", "1.0"))
//	}
//
//	func handleRequest(ctx context.Context) {
//	    logger := logging.FromContext(ctx)
//	    logger.Info("processing request")
//	}
package logging
