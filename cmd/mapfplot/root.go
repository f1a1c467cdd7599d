// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mapfbench/mapfbench/config"
	"github.com/mapfbench/mapfbench/dataset"
)

// rootOptions holds the state shared by every subcommand.
type rootOptions struct {
	configFile string
	verbose    bool

	v   *viper.Viper
	log *logrus.Logger
}

func newRootCommand() *cobra.Command {
	o := &rootOptions{
		v:   config.New(),
		log: logrus.New(),
	}
	cmd := &cobra.Command{
		Use:   "mapfplot",
		Short: "Summarize and chart MAPF benchmark results",
		Long: `Mapfplot reads the result files of multi-agent pathfinding benchmark runs,
groups solve times by agent count, window size or search radius, and
renders confidence envelope, percentile, box plot and histogram charts.`,
		SilenceUsage: true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			o.log.SetOutput(cmd.ErrOrStderr())
			o.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
			o.log.SetLevel(logrus.InfoLevel)
			if o.verbose {
				o.log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	cmd.PersistentFlags().StringVar(&o.configFile, "config", config.DefaultFile, "read datasets and figures from `file`")
	cmd.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "log debugging output")

	cmd.AddCommand(
		newPlotCommand(o),
		newStatsCommand(o),
		newExportCommand(o),
	)
	return cmd
}

// loadConfig reads the configuration file. A missing default file is
// not an error; the built-in defaults are used instead.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := o.configFile
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			o.log.WithField("config", path).Debug("no configuration file, using defaults")
			path = ""
		}
	}
	return config.Load(o.v, path)
}

// loadDatasets loads the named datasets of cfg, or all of them if
// names is empty.
func (o *rootOptions) loadDatasets(cfg *config.Config, names []string) ([]*dataset.Dataset, error) {
	if len(names) == 0 {
		for _, d := range cfg.Datasets {
			names = append(names, d.Name)
		}
	}
	var out []*dataset.Dataset
	for _, name := range names {
		spec, ok := cfg.Dataset(name)
		if !ok {
			return nil, errors.Errorf("no dataset %q in configuration", name)
		}
		ds, err := dataset.Load(*spec, o.log)
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, nil
}
