// Package ui provides semantic text formatting for CLI output.
//
// Formatters degrade gracefully when color is unavailable: values that need
// visual distinction fall back to textual markers (backticks, quotes) so
// output stays readable in logs and pipes.
package ui
