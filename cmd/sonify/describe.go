package main

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/sonify"
	"github.com/raykavin/sonify/pkg/core"
	"github.com/raykavin/sonify/pkg/metadata"
	"github.com/raykavin/sonify/pkg/terminal"
	"github.com/spf13/cobra"
)

const (
	histogramBins      = 15
	bootstrapResamples = 10000
)

func buildDescribeCmd() *cobra.Command {
	describeCmd := &cobra.Command{
		Use:   "describe [file]",
		Short: "Print the spoken summary and statistics of a data set",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			groups, err := loadGroups(config, args)
			if err != nil {
				return err
			}

			out := terminal.New(io.Discard)
			engine, err := newEngine(config, groups, out, out)
			if err != nil {
				return err
			}

			return printDescription(cmd.OutOrStdout(), engine)
		},
	}

	describeCmd.Flags().StringVarP(&datasetName, "dataset", "d", "", "Stored data set to describe")

	return describeCmd
}

// printDescription writes the summary, a table of group statistics and a histogram of values
func printDescription(out io.Writer, engine *sonify.Sonify) error {
	fmt.Fprintln(out, engine.Summary())
	fmt.Fprintln(out)

	buffer := bytes.NewBuffer(nil)
	table := tablewriter.NewWriter(buffer)
	table.SetHeader([]string{"Group", "Label", "Shape", "Points", "Min", "Max", "Mean", "Mean 95% CI", "Std Dev", "Median"})

	values := make([]float64, 0)
	data := engine.DataSet()
	for i, meta := range engine.Metadata() {
		group := data.Groups[i]
		if meta.IsAbsent() {
			table.Append([]string{strconv.Itoa(i + 1), group.Label, "absent", "0", "-", "-", "-", "-", "-", "-"})
			continue
		}

		summary := metadata.Summarize(group)
		present := groupValues(group)
		table.Append([]string{
			strconv.Itoa(i + 1),
			group.Label,
			group.Shape().String(),
			strconv.Itoa(meta.Size),
			formatStat(meta.MinimumValue),
			formatStat(meta.MaximumValue),
			formatStat(summary.Mean),
			formatInterval(present),
			formatStat(summary.StdDev),
			formatStat(summary.Median),
		})

		values = append(values, present...)
	}
	table.Render()
	fmt.Fprint(out, buffer.String())

	if len(values) == 0 {
		return nil
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "------ VALUES -------")
	hist := histogram.Hist(histogramBins, values)
	return histogram.Fprint(out, hist, histogram.Linear(10))
}

// groupValues returns the present primary values of a single-valued group
func groupValues(group core.Group) []float64 {
	values := metadata.PrimaryValues(group)
	if values == nil {
		return nil
	}
	return values.Filter(func(v float64) bool { return !math.IsNaN(v) }).Values()
}

// formatInterval bootstraps the confidence interval of the mean of values
func formatInterval(values []float64) string {
	if len(values) < 2 {
		return "-"
	}
	interval := metadata.Bootstrap(values, metadata.Mean, bootstrapResamples, 0.95, nil)
	return fmt.Sprintf("%.2f ~ %.2f", interval.Lower, interval.Upper)
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
