package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/frahmantamala/hrms-portal/internal"
	"github.com/frahmantamala/hrms-portal/internal/notify"
	"github.com/frahmantamala/hrms-portal/internal/session"
	"github.com/frahmantamala/hrms-portal/internal/session/sqlite"
	"github.com/frahmantamala/hrms-portal/internal/transport"
	"github.com/frahmantamala/hrms-portal/pkg/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "hrms-portal",
	Short: "HRMS Portal",
	Long:  `Command line client for the HR management system.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*internal.Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("HRMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// No config file is the common case for a CLI; fall back to env.
		cfg := internal.LoadConfigFromEnv()
		if verr := cfg.Validate(); verr != nil {
			return nil, fmt.Errorf("error validating config from environment: %w", verr)
		}
		return cfg, nil
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}
	return &cfg, nil
}

// app bundles the wiring every command needs: config, logger, the persisted
// session, and the API client.
type app struct {
	cfg    *internal.Config
	logger *slog.Logger
	store  *session.Store
	client *transport.Client
}

func newApp() (*app, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger.Init("cli", cfg.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	var storage session.Storage
	if cfg.Storage.Path == "" {
		storage = session.NewMemoryStorage()
	} else {
		storage, err = sqlite.NewStorage(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("opening session storage: %w", err)
		}
	}

	store := session.NewStore(storage, lg)
	client := transport.NewClient(transport.Config{
		BaseURL:              cfg.API.BaseURL,
		Timeout:              cfg.API.Timeout,
		MaxRequestsPerSecond: cfg.API.MaxRequestsPerSecond,
		MaxRetries:           cfg.API.MaxRetries,
		RetryBaseDelay:       cfg.API.RetryBaseDelay,
		SlowCallThreshold:    cfg.API.SlowCallThreshold,
	}, store, notify.NewLogNotifier(lg), lg)
	client.SetAuthExpiredHandler(func() {
		fmt.Fprintln(os.Stderr, "session expired, please log in again")
	})

	return &app{cfg: cfg, logger: lg, store: store, client: client}, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing config.yml")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(employeeCmd)
	rootCmd.AddCommand(salaryCmd)
	rootCmd.AddCommand(leaveCmd)
	rootCmd.AddCommand(announcementCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(devServerCmd)
}
