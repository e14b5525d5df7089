// Package workflows implements the business logic behind each gitseal
// command.
//
// Each workflow takes a context and an options struct and returns a result
// struct, leaving all terminal presentation to the cmd layer. Workflows
// resolve their environment (repository, settings, project config) through
// LoadEnv so every command sees the same view of the repository.
package workflows
