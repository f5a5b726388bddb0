// Package log provides secure logging built on top of the standard slog
// package.
//
// Classification attaches default credentials to records and captured
// pages carry raw response headers. Both end up in log attributes while
// debugging, so the SecureHandler masks:
//   - sensitive headers, also inside a map[string]string of headers
//   - credential notes and user/password pairs
//   - bearer, basic and JWT tokens
//   - the password part of URLs with user info, in messages, string
//     values and error values alike
//
// Even in verbose mode, sensitive values are masked.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("classified", "url", page.RemoteSystem, "headers", page.Headers)
//	slog.SetDefault(logger)
package log
