package main

import (
	"fmt"

	"github.com/raykavin/sonify"
	"github.com/raykavin/sonify/pkg/core"
	"github.com/raykavin/sonify/pkg/loader"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func buildImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <name> <file>",
		Short: "Store a CSV or JSON data file in the library under a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			groups, err := loader.File(args[1])
			if err != nil {
				return err
			}

			// validate before storing
			if _, err := core.NewDataSet(groups...); err != nil {
				return fmt.Errorf("%s: %w", args[1], err)
			}

			library, err := openStorage(config)
			if err != nil {
				return err
			}
			defer library.Close()

			progressBar := progressbar.Default(int64(len(groups)), "reading groups")
			total := 0
			for _, group := range groups {
				total += len(group.Points)
				if err := progressBar.Add(1); err != nil {
					sonify.DefaultLog.WithError(err).Warn("progress bar")
				}
			}

			if err := library.SaveDataset(args[0], groups); err != nil {
				return err
			}

			sonify.DefaultLog.
				WithField("name", args[0]).
				WithField("groups", len(groups)).
				WithField("points", total).
				Info("data set stored")
			return nil
		},
	}
}
