package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/hunglv/expensive/internal/cli"
	"github.com/hunglv/expensive/internal/common"
	"github.com/hunglv/expensive/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

func newRootCmd(rt *runtime) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "expensive",
		Short: "💰 Local-first personal expense tracker",
		Long: `expensive records what you spend, sorts it into categories and shows
where the money went. Everything stays on this machine.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rt.cfgFile, "config", "", "config file (default: $HOME/.config/expensive/config.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.String("backend", "", "storage backend (sqlite, redis, memory)")
	flags.String("db", "", "path of the SQLite database")

	_ = rt.v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = rt.v.BindPFlag("logging.format", flags.Lookup("log-format"))
	_ = rt.v.BindPFlag("storage.backend", flags.Lookup("backend"))
	_ = rt.v.BindPFlag("database.path", flags.Lookup("db"))

	rootCmd.AddCommand(
		addCmd(rt),
		editCmd(rt),
		deleteCmd(rt),
		listCmd(rt),
		summaryCmd(rt),
		budgetCmd(rt),
		categoriesCmd(rt),
		filterCmd(rt),
		loginCmd(rt),
		registerCmd(rt),
		logoutCmd(rt),
		whoamiCmd(rt),
		profileCmd(rt),
		importCmd(rt),
		exportCmd(rt),
		browseCmd(rt),
		backupCmd(rt),
		migrateCmd(rt),
		versionCmd(),
	)

	return rootCmd
}

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(newRuntime()).ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(common.UserMessage(err)))
		os.Exit(1)
	}
}

// init reads the config file, environment and flags into settings and sets
// up logging.
func (rt *runtime) init(cmd *cobra.Command) error {
	v := rt.v

	if rt.cfgFile != "" {
		v.SetConfigFile(rt.cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "expensive"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	settings, err := config.Load(v)
	if err != nil {
		return err
	}
	rt.settings = settings

	if err := common.SetupLogger(settings.Logging.Level, settings.Logging.Format); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	rt.logger = slog.Default()
	rt.logger.Debug("Configuration loaded",
		"command", cmd.Name(),
		"backend", settings.Storage.Backend,
		"config_file", v.ConfigFileUsed())
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "expensive %s\n", version)
		},
	}
}
