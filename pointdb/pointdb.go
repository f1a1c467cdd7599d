// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pointdb stores loaded datasets in a SQL database, so that
// experiment points can be queried with other tools.
package pointdb

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"text/template"

	"github.com/mapfbench/mapfbench/aggstat"
	"github.com/mapfbench/mapfbench/dataset"
)

// DB is a point database. It's safe for concurrent use by multiple
// goroutines.
type DB struct {
	sql *sql.DB

	insertDataset *sql.Stmt
	findDataset   *sql.Stmt
	deletePoints  *sql.Stmt
	deleteDataset *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(driverName); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a
// connection to driverName. It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is evaluated with . as a map containing one entry whose
// key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Datasets (
	DatasetID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Name VARCHAR(255) NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS Points (
	DatasetID BIGINT UNSIGNED,
	PointID BIGINT UNSIGNED,
	X BIGINT,
	Y DOUBLE,
	Path VARCHAR(1024),
	PRIMARY KEY (DatasetID, PointID),
{{if not .sqlite3}}
	Index (X),
{{end}}
	FOREIGN KEY (DatasetID) REFERENCES Datasets(DatasetID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS PointsX ON Points(X);
{{end}}
`))

func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

func (db *DB) prepareStatements(driverName string) error {
	var err error
	prep := func(q string) *sql.Stmt {
		if err != nil {
			return nil
		}
		var s *sql.Stmt
		s, err = db.sql.Prepare(q)
		return s
	}
	db.insertDataset = prep("INSERT INTO Datasets(Name) VALUES (?)")
	db.findDataset = prep("SELECT DatasetID FROM Datasets WHERE Name = ?")
	db.deletePoints = prep("DELETE FROM Points WHERE DatasetID = ?")
	db.deleteDataset = prep("DELETE FROM Datasets WHERE DatasetID = ?")
	return err
}

const (
	// pointColumns is the number of parameters per inserted point.
	pointColumns = 5

	// maxParams is the smallest limit on query parameters among
	// the supported databases (SQLite before 3.32).
	maxParams = 999

	// insertBatch bounds the number of rows in one INSERT.
	insertBatch = maxParams / pointColumns
)

// InsertDataset stores the points of ds under ds.Name in a single
// transaction, replacing any dataset previously stored under that
// name.
func (db *DB) InsertDataset(ctx context.Context, ds *dataset.Dataset) (err error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var old int64
	switch err = tx.StmtContext(ctx, db.findDataset).QueryRowContext(ctx, ds.Name).Scan(&old); err {
	case nil:
		if _, err = tx.StmtContext(ctx, db.deletePoints).ExecContext(ctx, old); err != nil {
			return err
		}
		if _, err = tx.StmtContext(ctx, db.deleteDataset).ExecContext(ctx, old); err != nil {
			return err
		}
	case sql.ErrNoRows:
	default:
		return err
	}

	res, err := tx.StmtContext(ctx, db.insertDataset).ExecContext(ctx, ds.Name)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for start := 0; start < len(ds.Points); start += insertBatch {
		end := min(start+insertBatch, len(ds.Points))
		var args []interface{}
		for i := start; i < end; i++ {
			var path string
			if i < len(ds.Sources) {
				path = ds.Sources[i]
			}
			p := ds.Points[i]
			args = append(args, id, i, p.X, p.Y, path)
		}
		query := "INSERT INTO Points(DatasetID, PointID, X, Y, Path) VALUES " + strings.Repeat("(?, ?, ?, ?, ?), ", end-start)
		query = strings.TrimSuffix(query, ", ")
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}

// Points returns the points stored under name, in insertion order.
// It returns a nil slice if there is no such dataset.
func (db *DB) Points(ctx context.Context, name string) ([]aggstat.Point, error) {
	rows, err := db.sql.QueryContext(ctx, `
SELECT p.X, p.Y FROM Points p
JOIN Datasets d ON d.DatasetID = p.DatasetID
WHERE d.Name = ?
ORDER BY p.PointID`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var pts []aggstat.Point
	for rows.Next() {
		var p aggstat.Point
		if err := rows.Scan(&p.X, &p.Y); err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	return pts, rows.Err()
}

// Datasets returns the names of the stored datasets, sorted.
func (db *DB) Datasets(ctx context.Context) ([]string, error) {
	rows, err := db.sql.QueryContext(ctx, "SELECT Name FROM Datasets ORDER BY Name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	for _, s := range []*sql.Stmt{db.insertDataset, db.findDataset, db.deletePoints, db.deleteDataset} {
		if err := s.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}
