package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/hrms-portal/internal/devserver"
	"github.com/frahmantamala/hrms-portal/pkg/logger"
)

var devServerCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Run the local stub HRMS backend",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		logger.Init("devserver", cfg.Observability.Logging.Level)
		lg := logger.LoggerWrapper()

		srv, err := devserver.New(devserver.Config{
			JWTSecret:  cfg.DevServer.JWTSecret,
			TokenTTL:   cfg.DevServer.TokenTTL,
			BCryptCost: cfg.DevServer.BCryptCost,
		}, lg)
		if err != nil {
			return err
		}

		addr := fmt.Sprintf(":%d", cfg.DevServer.Port)
		lg.Info("dev server listening", "addr", addr)

		httpServer := &http.Server{
			Addr:         addr,
			Handler:      srv.Handler(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		return httpServer.ListenAndServe()
	},
}
