// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sqlite3 provides the sqlite3 driver for pointdb. It must be
// imported instead of go-sqlite3 to ensure in-memory databases are
// shared by every query.
package sqlite3

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mapfbench/mapfbench/pointdb"
)

func init() {
	pointdb.RegisterOpenHook("sqlite3", func(db *sql.DB) error {
		// Each connection to ":memory:" opens a fresh database.
		db.SetMaxOpenConns(1)
		return nil
	})
}
