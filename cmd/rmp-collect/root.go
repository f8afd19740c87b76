package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Sternrassler/rmp-collector/internal/config"
	"github.com/Sternrassler/rmp-collector/pkg/client"
	"github.com/Sternrassler/rmp-collector/pkg/logging"
	"github.com/Sternrassler/rmp-collector/pkg/metrics"
	"github.com/Sternrassler/rmp-collector/pkg/ratings"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries what the subcommands share for one invocation.
type app struct {
	configPath string
	envFile    string

	cfg     *config.Config
	logger  zerolog.Logger
	redis   *redis.Client
	client  *client.Client
	service *ratings.Service
	started time.Time
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "rmp-collect",
		Short: "rmp-collect fetches schools, teachers and department listings from RateMyProfessors.",
		Long: "rmp-collect fetches schools, teachers and department listings from RateMyProfessors.\n\n" +
			"Configuration is read from the environment, a .env file and an optional YAML file:\n\n" +
			config.Usage(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsSetup(cmd) {
				return nil
			}
			return a.setup(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (environment overrides it)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(
		newDepartmentCmd(a),
		newSchoolsCmd(a),
		newTeachersCmd(a),
		newTeacherCmd(a),
	)
	for _, sub := range root.Commands() {
		a.withTeardown(sub)
	}
	return root
}

// needsSetup reports whether cmd talks to the API. Help and shell
// completion run without configuration.
func needsSetup(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// withTeardown makes cmd release its connections and push metrics whether
// its RunE succeeds or fails. Cobra skips post-run hooks on error.
func (a *app) withTeardown(cmd *cobra.Command) {
	run := cmd.RunE
	if run == nil {
		return
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			a.teardown(cmd.Context(), cmd.Name(), err)
		}()
		return run(cmd, args)
	}
}

func (a *app) setup(ctx context.Context) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", a.envFile, err)
		}
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.LogLevel(cfg.Log.Level)
	logCfg.Pretty = cfg.Log.Pretty
	logging.Setup(logCfg)
	a.logger = logging.NewLogger("cli")

	clientCfg := cfg.ClientConfig()
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return fmt.Errorf("connect to redis: %w", err)
		}
		a.redis = rdb
		a.logger.Info().Str("addr", opts.Addr).Msg("Connected to Redis")
		clientCfg.Redis = a.redis
	}

	a.client, err = client.New(clientCfg)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	a.service = ratings.NewService(a.client,
		ratings.WithLogger(logging.NewLogger("ratings")),
		ratings.WithMaxPages(cfg.RMP.MaxPages),
	)
	a.started = time.Now()
	return nil
}

func (a *app) teardown(ctx context.Context, command string, runErr error) {
	if a.client != nil {
		a.client.Close()
	}
	if a.redis != nil {
		a.redis.Close()
	}

	if runErr != nil {
		a.logger.Error().
			Err(runErr).
			Str("command", command).
			Dur("duration", time.Since(a.started)).
			Msg("Run failed")
	} else {
		a.logger.Debug().
			Str("command", command).
			Dur("duration", time.Since(a.started)).
			Msg("Run finished")
	}

	if a.cfg == nil || a.cfg.Pushgateway.URL == "" {
		return
	}
	err := metrics.Push(ctx, a.cfg.Pushgateway.URL, metrics.JobName, map[string]string{"command": command})
	if err != nil {
		// A push failure never changes the command's outcome.
		a.logger.Warn().Err(err).Str("url", a.cfg.Pushgateway.URL).Msg("Failed to push metrics")
		return
	}
	a.logger.Debug().Str("url", a.cfg.Pushgateway.URL).Msg("Metrics pushed")
}
