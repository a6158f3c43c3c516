// Package sqlite provides a SQLite-based implementation of the task journal.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, so the robot binary cross-compiles for the controller.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.robotcore/data/journal.db
package sqlite
