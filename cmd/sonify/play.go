package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/raykavin/sonify"
	"github.com/raykavin/sonify/pkg/navigation"
	"github.com/raykavin/sonify/pkg/terminal"
	"github.com/spf13/cobra"
	"github.com/xhit/go-str2duration/v2"
)

var (
	linger  string
	noColor bool
)

func buildPlayCmd() *cobra.Command {
	playCmd := &cobra.Command{
		Use:   "play [file]",
		Short: "Navigate a data set with commands read from stdin",
		Long: `Navigate a data set with commands read from stdin, one per line.

Commands: ` + strings.Join(commandNames(), ", ") + `, focus, quit.
Single keys are accepted too: q and e change the speed, [ and ] jump by tenths,
< and > jump to the minimum and maximum.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runPlay,
	}

	playCmd.Flags().StringVarP(&datasetName, "dataset", "d", "", "Stored data set to play")
	playCmd.Flags().StringVar(&linger, "linger", "2s", "Time to keep playing after the input ends")
	playCmd.Flags().BoolVar(&noColor, "no-color", os.Getenv("NO_COLOR") != "", "Disable colored output")

	return playCmd
}

func commandNames() []string {
	names := make([]string, 0)
	for _, cmd := range navigation.Commands() {
		names = append(names, cmd.String())
	}
	return names
}

func runPlay(cmd *cobra.Command, args []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	wait, err := str2duration.ParseDuration(linger)
	if err != nil {
		return fmt.Errorf("invalid linger %q: %w", linger, err)
	}

	groups, err := loadGroups(config, args)
	if err != nil {
		return err
	}

	out := terminal.New(cmd.OutOrStdout(), terminal.WithColor(!noColor))
	engine, err := newEngine(config, groups, out, out)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- engine.Run(ctx) }()

	if err := feed(engine, cmd.InOrStdin()); err != nil {
		return err
	}

	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}

	cancel()
	return <-done
}

// feed sends every line of in to the engine until EOF or quit
func feed(engine *sonify.Sonify, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "focus":
			if err := engine.Focus(); err != nil {
				return err
			}
			continue
		}

		command, err := parseInput(line)
		if err != nil {
			sonify.DefaultLog.WithError(err).Warn("ignored input")
			continue
		}

		if err := engine.Send(command); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// parseInput accepts a command name or a single key
func parseInput(line string) (navigation.Command, error) {
	if command, ok := navigation.FromKey(line, false); ok {
		return command, nil
	}
	return navigation.ParseCommand(line)
}
