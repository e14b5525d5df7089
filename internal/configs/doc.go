// Package configs resolves per-repository paths and the committed
// .gitseal.toml project configuration.
package configs
