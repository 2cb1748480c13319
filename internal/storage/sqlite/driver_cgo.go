//go:build cgo && !purego
// +build cgo,!purego

package sqlite

// CGO build: links the C SQLite library for better write throughput.
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3"
)

// DriverName is the SQLite driver registered for this build.
const DriverName = "sqlite3"
