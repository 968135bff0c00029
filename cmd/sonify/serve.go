package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raykavin/sonify"
	"github.com/raykavin/sonify/pkg/bridge"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var address string

func buildServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve a browser player that plays the data set through Web Audio",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runServe,
	}

	serveCmd.Flags().StringVarP(&datasetName, "dataset", "d", "", "Stored data set to serve")
	serveCmd.Flags().StringVarP(&address, "address", "a", "", "Listen address (default localhost:8080)")

	return serveCmd
}

func runServe(cmd *cobra.Command, args []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	if address != "" {
		config.Address = address
	}

	groups, err := loadGroups(config, args)
	if err != nil {
		return err
	}

	player := bridge.New(sonify.DefaultLog)
	defer player.Close()

	engine, err := newEngine(config, groups, player, player)
	if err != nil {
		return err
	}
	player.SetController(engine)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              config.Address,
		Handler:           player.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 2)
	go func() { errs <- engine.Run(ctx) }()
	go func() {
		sonify.DefaultLog.WithField("address", "http://"+config.Address).Info("serving player")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err = <-errs:
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil && err == nil {
		err = shutdownErr
	}
	return err
}
