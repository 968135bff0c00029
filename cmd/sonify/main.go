package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/raykavin/sonify"
	"github.com/raykavin/sonify/pkg/core"
	"github.com/raykavin/sonify/pkg/loader"
	"github.com/raykavin/sonify/pkg/logger"
	logrusadapter "github.com/raykavin/sonify/pkg/logger/logrus"
	"github.com/raykavin/sonify/pkg/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Command line flags
var (
	configPath  string
	storagePath string
	datasetName string
	logLevel    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "sonify",
		Short:         "Listen to data series as tones and spoken descriptions",
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (e.g. ./sonify.yaml)")
	rootCmd.PersistentFlags().StringVar(&storagePath, "db", "", "Data set library file (default ./sonify.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(
		buildPlayCmd(),
		buildDescribeCmd(),
		buildImportCmd(),
		buildListCmd(),
		buildDeleteCmd(),
		buildServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and applies the persistent flags over it
func loadConfig() (*Config, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if storagePath != "" {
		config.StoragePath = storagePath
	}

	if logLevel != "" {
		config.LogLevel = logLevel
	}

	switch config.LogBackend {
	case backendZerolog:
	case backendLogrus:
		log := logrus.New()
		log.SetOutput(os.Stderr)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		sonify.DefaultLog = logrusadapter.NewAdapter(log)
	default:
		return nil, fmt.Errorf("unknown log backend %q", config.LogBackend)
	}

	level, err := logger.ParseLevel(config.LogLevel)
	if err != nil {
		return nil, err
	}
	sonify.DefaultLog.SetLevel(level)

	return config, nil
}

func openStorage(config *Config) (*storage.BuntStorage, error) {
	return storage.FromFile(config.StoragePath)
}

// loadGroups reads the data set named by --dataset or the file given as first argument
func loadGroups(config *Config, args []string) ([]core.GroupInput, error) {
	if datasetName != "" {
		library, err := openStorage(config)
		if err != nil {
			return nil, err
		}
		defer library.Close()

		return library.Dataset(datasetName)
	}

	if len(args) == 0 {
		return nil, errors.New("a data file or --dataset is required")
	}
	return loader.File(args[0])
}

// newEngine builds an engine from the configuration
func newEngine(config *Config, groups []core.GroupInput, renderer core.ToneRenderer,
	announcer core.Announcer, options ...sonify.Option) (*sonify.Sonify, error) {

	settings, err := config.Settings()
	if err != nil {
		return nil, err
	}

	note, err := config.Note()
	if err != nil {
		return nil, err
	}

	options = append([]sonify.Option{sonify.WithNoteLength(note)}, options...)
	return sonify.New(groups, settings, renderer, announcer, options...)
}
