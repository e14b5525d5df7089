// Package logger provides verbosity-gated logging for gitseal CLI commands.
//
// Logging behavior is controlled by two flags:
//
//   - --verbose: shows info messages
//   - --debug: shows all messages including debug details
//
// Warnings and errors are always shown, on stderr, so they never mix with
// filter output on stdout.
package logger
