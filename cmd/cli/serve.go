package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/limaJavier/sectiontable/internal/cache"
	"github.com/limaJavier/sectiontable/internal/config"
	"github.com/limaJavier/sectiontable/internal/logger"
	"github.com/limaJavier/sectiontable/internal/metrics"
	"github.com/limaJavier/sectiontable/internal/server"
	"github.com/limaJavier/sectiontable/internal/service"
	"github.com/limaJavier/sectiontable/pkg/model"
)

func (a *app) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve timetable generation over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			cfg, err := config.Load(envFile, cmd.Flags())
			if err != nil {
				return err
			}
			file, _ := cmd.Flags().GetString("file")

			l, err := logger.New(cfg)
			if err != nil {
				return fmt.Errorf("cannot build logger: %w", err)
			}
			defer func() { _ = l.Sync() }()

			input, err := loadInput(file)
			if err != nil {
				return err
			}
			if cfg.Sections > 0 && cfg.Sections != input.Sections {
				if input, err = input.Restrict(cfg.Sections); err != nil {
					return err
				}
			}

			m := metrics.New()
			opts := service.Options{Metrics: m, Logger: l}
			if cfg.HasSeed {
				opts.Seed = &cfg.Seed
			}
			if cfg.Cache.Enabled {
				client, err := cache.NewRedis(cfg.Redis)
				if err != nil {
					l.Warn("redis unavailable, serving without a cache", zap.Error(err))
				} else {
					defer client.Close()
					opts.Cache = cache.NewRedisCache(client, cfg.Cache.TTL, l)
				}
			}

			svc := service.NewTimetableService(model.NewGreedyTimetabler(model.WithLogger(l)), input, opts)
			router := server.NewRouter(server.NewHandler(svc, m), l)
			return server.Run(cmd.Context(), cfg.Port, router, l)
		},
	}

	cmd.Flags().String("file", "", "Path to the default input file; the built-in curriculum is used when empty")
	cmd.Flags().Int("port", 8080, "Port to listen on")
	cmd.Flags().Uint64("seed", 0, "Seed used when a request carries none; a random seed is drawn per request when unset")
	cmd.Flags().Int("sections", 0, "Serve only the first N sections of the default input")
	cmd.Flags().String("log-level", "info", "Log level")
	cmd.Flags().Bool("cache-enabled", false, "Cache solved timetables in Redis")
	return cmd
}
