// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	_ "github.com/go-sql-driver/mysql"

	"github.com/mapfbench/mapfbench/pointdb"
	_ "github.com/mapfbench/mapfbench/pointdb/sqlite3"
)

type exportOptions struct {
	*rootOptions

	driver string
	dsn    string
}

func newExportCommand(root *rootOptions) *cobra.Command {
	o := &exportOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "export --dsn dsn [dataset...]",
		Short: "Write dataset points to a SQL database",
		Long: `Export loads the configured datasets, or only the named ones, and stores
their points in a sqlite3 or mysql database. A dataset already stored
under the same name is replaced.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}
	cmd.Flags().StringVar(&o.driver, "driver", "sqlite3", "database `driver`: sqlite3 or mysql")
	cmd.Flags().StringVar(&o.dsn, "dsn", "", "database `source` name, e.g. points.db or user:pass@tcp(host)/db")
	cmd.MarkFlagRequired("dsn")
	return cmd
}

func (o *exportOptions) run(cmd *cobra.Command, names []string) error {
	switch o.driver {
	case "sqlite3", "mysql":
	default:
		return errors.Errorf("unsupported driver %q", o.driver)
	}
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(cfg.Datasets) == 0 {
		return errors.New("no datasets in configuration")
	}
	dss, err := o.loadDatasets(cfg, names)
	if err != nil {
		return err
	}

	db, err := pointdb.OpenSQL(o.driver, o.dsn)
	if err != nil {
		return errors.Wrapf(err, "opening %s database", o.driver)
	}
	defer db.Close()

	ctx := cmd.Context()
	for _, ds := range dss {
		if err := db.InsertDataset(ctx, ds); err != nil {
			return errors.Wrapf(err, "exporting dataset %s", ds.Name)
		}
		o.log.WithFields(logrus.Fields{"dataset": ds.Name, "points": len(ds.Points)}).Info("exported dataset")
	}
	return nil
}
