package main

import (
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func buildListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the stored data sets, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			library, err := openStorage(config)
			if err != nil {
				return err
			}
			defer library.Close()

			records, err := library.Records()
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Name", "Groups", "Points", "Updated"})
			table.SetColumnAlignment([]int{
				tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT,
			})
			for _, record := range records {
				table.Append([]string{
					record.Name,
					strconv.Itoa(len(record.Groups)),
					strconv.Itoa(record.Points()),
					time.Unix(0, record.UpdatedAt).Format(time.DateTime),
				})
			}
			table.Render()
			return nil
		},
	}
}
