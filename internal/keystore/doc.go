// Package keystore manages the repository's versioned symmetric keys.
//
// Keys live in a single binary file under the git directory, outside the
// working tree, so they are never candidates for tracking. The file is an
// append-only sequence of immutable key records; rotation appends, import
// merges, and nothing ever silently overwrites a version. The same
// serialization doubles as the export/import interchange format.
package keystore
