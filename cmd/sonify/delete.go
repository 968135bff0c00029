package main

import (
	"github.com/raykavin/sonify"
	"github.com/spf13/cobra"
)

func buildDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a stored data set",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			library, err := openStorage(config)
			if err != nil {
				return err
			}
			defer library.Close()

			if err := library.DeleteDataset(args[0]); err != nil {
				return err
			}

			sonify.DefaultLog.WithField("name", args[0]).Info("data set deleted")
			return nil
		},
	}
}
