package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/medspa-api/pkg/client"
	"github.com/jwalitptl/medspa-api/pkg/dashboard"
	"github.com/jwalitptl/medspa-api/pkg/logger"
)

// env is read from MEDSPA_* variables; flags override it.
type env struct {
	APIURL   string        `envconfig:"API_URL" default:"http://localhost:8000"`
	Timeout  time.Duration `envconfig:"TIMEOUT" default:"10s"`
	RedisURL string        `envconfig:"REDIS_URL"`
	Retries  uint64        `envconfig:"RETRIES" default:"2"`
	Verbose  bool          `envconfig:"VERBOSE"`
}

// app is shared by every subcommand once the root pre-run has built it.
type app struct {
	client *client.Client
	store  dashboard.Store
	log    zerolog.Logger
	close  func()
}

func (a *app) options() dashboard.Options {
	return dashboard.Options{Store: a.store, Logger: a.log}
}

func main() {
	var cfg env
	if err := envconfig.Process("medspa", &cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd(&cfg).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(cfg *env) *cobra.Command {
	a := &app{close: func() {}}

	rootCmd := &cobra.Command{
		Use:           "medspactl",
		Short:         "Terminal dashboard for the medspa API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Context(), *cfg)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "Base URL of the medspa API")
	flags.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Per-request timeout")
	flags.StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL for the local result cache (empty keeps it in memory)")
	flags.Uint64Var(&cfg.Retries, "retries", cfg.Retries, "Retries for failed requests")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Log debug output to stderr")

	rootCmd.AddCommand(patientsCmd(a))
	rootCmd.AddCommand(patientCmd(a))
	rootCmd.AddCommand(providersCmd(a))
	rootCmd.AddCommand(analyticsCmd(a))
	return rootCmd
}

func (a *app) init(ctx context.Context, cfg env) error {
	level := logger.WarnLevel
	if cfg.Verbose {
		level = logger.DebugLevel
	}
	a.log = logger.NewLogger(&logger.Config{Level: level, Output: os.Stderr}).ZL()

	c, err := client.New(client.Config{
		BaseURL:    cfg.APIURL,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.Retries,
	}, client.WithLogger(a.log))
	if err != nil {
		return err
	}
	a.client = c

	a.store = dashboard.NewMemoryStore()
	if cfg.RedisURL != "" {
		rs, err := dashboard.NewRedisStore(ctx, dashboard.RedisConfig{URL: cfg.RedisURL, TTL: 7 * 24 * time.Hour})
		if err != nil {
			// Cache is an enhancement; carry on without it.
			a.log.Warn().Err(err).Msg("redis cache unavailable, using memory")
			return nil
		}
		a.store = rs
		a.close = func() { rs.Close() }
	}
	return nil
}
