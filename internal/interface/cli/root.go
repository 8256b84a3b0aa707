package cli

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/YoshitsuguKoike/kindred/internal/app/config"
	infraConfig "github.com/YoshitsuguKoike/kindred/internal/infra/config"
)

var (
	// globalConfig holds the loaded configuration for all commands
	globalConfig config.Config
	// globalLogger is the zap logger built from globalConfig
	globalLogger *zap.Logger
	// settingsFs is where setting.yaml and local exports live
	settingsFs afero.Fs = afero.NewOsFs()
)

func NewRoot() *cobra.Command {
	var (
		home     string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:           "kindred",
		Short:         "Kindred journaling and personal growth server",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load configuration before any command runs
			// Priority: flags > setting.yaml > defaults
			baseDir := home
			if baseDir == "" {
				baseDir = infraConfig.ResolveHome()
			}

			cfg, err := infraConfig.LoadSettings(settingsFs, baseDir)
			if err != nil {
				return err
			}

			level := cfg.LogLevel()
			if logLevel != "" {
				level = logLevel
			}
			logger, err := NewLogger(level, cfg.LogFormat())
			if err != nil {
				return err
			}

			globalConfig = cfg
			globalLogger = logger
			InitializeLoggers(logger)
			logger.Debug("configuration loaded",
				zap.String("source", cfg.ConfigSource()),
				zap.String("home", cfg.Home()))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if globalLogger != nil {
				_ = globalLogger.Sync()
			}
		},
		RunE: func(c *cobra.Command, _ []string) error { return c.Help() },
	}

	cmd.PersistentFlags().StringVar(&home, "home", "", "data directory (default $KINDRED_HOME or .kindred)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log_level (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newCatalogCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}
