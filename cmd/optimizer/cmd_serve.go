package main

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"portfolioOptimizer/internal/config"
	"portfolioOptimizer/internal/server"
	"portfolioOptimizer/internal/telegram"
)

func newServeCommand() *cobra.Command {
	var noBot bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the telegram webhook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.close()

			var webhook http.HandlerFunc
			if !noBot {
				if err := cfg.ValidateBot(); err != nil {
					return err
				}
				tg, err := telegram.NewBot(cfg.TelegramToken, cfg.WebhookPublicURL, a.svc, cfg.OpenAIKey)
				if err != nil {
					return err
				}
				log.Info().Str("webhook", cfg.WebhookPublicURL).Msg("telegram: bot initialized")
				webhook = tg.WebhookHandler
			}

			router := server.NewRouter(webhook, a.svc)
			addr := ":" + cfg.Port
			log.Info().Str("addr", addr).Msg("http: listening")
			return server.ListenAndServe(addr, router)
		},
	}
	cmd.Flags().BoolVar(&noBot, "no-bot", false, "Serve only the HTTP API, without the telegram webhook")
	return cmd
}
