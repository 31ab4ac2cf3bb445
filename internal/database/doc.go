// Package database provides SQLite-based storage for check history.
//
// HistoryDB keeps one row per checked document: its name and title, a
// SHA3-256 hash of title and content, the verdict, the failed categories
// and the full result as JSON. Document bodies are not stored, so the same
// text checked twice can be recognized by hash without keeping the text.
//
// The database is a single file opened through modernc.org/sqlite, which
// needs no cgo. WAL mode is enabled by default.
package database
