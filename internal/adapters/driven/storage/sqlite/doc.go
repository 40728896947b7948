// Package sqlite provides SQLite-backed storage for the bridge's local
// state. Uses modernc.org/sqlite (pure Go, no cgo) with WAL journaling
// and embedded schema migrations.
package sqlite
