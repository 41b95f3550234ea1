package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"marquee/internal/logging"
	"marquee/internal/recommend"
	"marquee/internal/web"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			if value := strings.TrimSpace(bind); value != "" {
				cfg.Server.Bind = value
			}

			svc, closeFn, err := recommend.Build(signalCtx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeFn(); err != nil {
					logger.Warn("provider close failed",
						logging.Error(err),
						logging.String(logging.FieldEventType, "provider_close_failed"),
						logging.String(logging.FieldErrorHint, "safe to ignore during shutdown"),
						logging.String(logging.FieldImpact, "none"),
					)
				}
			}()

			srv, err := web.New(svc, cfg.Server, logger)
			if err != nil {
				return err
			}
			logger.Info("marquee starting",
				logging.String("bind", cfg.Server.Bind),
				logging.String("llm_provider", cfg.LLM.Provider),
				logging.String("llm_model", cfg.LLM.Model),
				logging.String("config_path", ctx.configPath),
			)
			return srv.Run(signalCtx)
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Override server.bind (host:port)")
	return cmd
}
