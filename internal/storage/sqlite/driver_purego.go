//go:build !cgo || purego
// +build !cgo purego

package sqlite

// Pure Go build: no C compiler required, suitable for cross-compilation.
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

// DriverName is the SQLite driver registered for this build.
const DriverName = "sqlite"
