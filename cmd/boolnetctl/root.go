package main

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"boolnet/internal/config"
	"boolnet/internal/logging"
	"boolnet/pkg/boolnet"
)

var validFormats = []string{"text", "json"}

// rootOptions holds the global flags and the settings resolved from them.
type rootOptions struct {
	ConfigPath string
	LogLevel   string
	Format     string
	StoreKind  string
	DBPath     string

	config *config.Config
	logger *slog.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "boolnetctl",
		Short:         "Inspect and simulate binary-state dynamical networks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "YAML configuration file")
	flags.StringVar(&opts.LogLevel, "log-level", "", "log level: info|debug|trace")
	flags.StringVar(&opts.Format, "format", "text", "output format: text|json")
	flags.StringVar(&opts.StoreKind, "store", "", "store backend: memory|sqlite|bolt")
	flags.StringVar(&opts.DBPath, "db-path", "", "database file of the sqlite and bolt backends")

	cmd.AddCommand(
		newUpdateCommand(opts),
		newNeighborsCommand(opts),
		newStatesCommand(opts),
		newGraphCommand(opts),
		newSimulateCommand(opts),
		newImportCommand(opts),
		newListCommand(opts),
		newShowCommand(opts),
		newDeleteCommand(opts),
	)
	return cmd
}

// resolve layers flags over the configuration file and environment.
func (o *rootOptions) resolve(cmd *cobra.Command) error {
	if !slices.Contains(validFormats, o.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", o.Format, validFormats)
	}

	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = o.LogLevel
	}
	if flags.Changed("store") {
		cfg.Store.Kind = o.StoreKind
	}
	if flags.Changed("db-path") {
		cfg.Store.Path = o.DBPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	o.config = cfg
	o.logger = logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
	return nil
}

// client opens and initializes the configured store.
func (o *rootOptions) client(ctx context.Context) (*boolnet.Client, error) {
	client, err := boolnet.New(boolnet.Options{
		StoreKind: o.config.Store.Kind,
		DBPath:    o.config.Store.Path,
		MaxSteps:  o.config.Simulate.MaxSteps,
		Logger:    o.logger,
	})
	if err != nil {
		return nil, err
	}
	if err := client.Init(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	o.logger.Debug("store ready", "kind", o.config.Store.Kind, "path", o.config.Store.Path)
	return client, nil
}

// withClient runs fn against a client that is closed afterwards.
func (o *rootOptions) withClient(cmd *cobra.Command, fn func(*boolnet.Client) error) error {
	client, err := o.client(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	return fn(client)
}
