package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/publication-manager/cmd/publisher/tui"
	"github.com/publication-manager/internal/config"
	"github.com/publication-manager/internal/database"
	"github.com/publication-manager/internal/models"
	"github.com/publication-manager/internal/repository"
	"github.com/publication-manager/internal/service"
	"github.com/publication-manager/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath   string
	profilesPath string
	logFile      string
	logLevel     string
)

// rootCmd starts the publication form
var rootCmd = &cobra.Command{
	Use:   "publisher",
	Short: "Publication manager - create and edit publications in a terminal form",
	Long: `Publisher manages blog publications stored in PostgreSQL.

The connection is taken from the default profile in the local profile
database. Connection profiles can be changed from the settings screen;
changes take effect after a restart.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          run,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&profilesPath, "profiles-db", "", "Path to the connection profile database")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file, '-' for stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyFlags(cfg)

	log, closer, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer closer.Close()

	log.Info().Str("profiles", cfg.Profiles.Path).Msg("Starting publication manager")

	profiles := database.NewProfilesDB(cfg.Profiles.Path)
	services := service.NewServices(repository.New(nil, profiles), cfg, log)

	session, status, cleanup := openSession(cmd.Context(), cfg, profiles, services.Settings, log)
	defer cleanup()

	notice, err := tui.Run(tui.Options{
		Session:  session,
		Settings: services.Settings,
		Status:   status,
		Timeout:  cfg.Database.ConnectTimeout,
		Log:      log,
	})
	if err != nil {
		log.Error().Err(err).Msg("Terminal UI failed")
		return err
	}

	if notice != "" {
		fmt.Fprintln(cmd.OutOrStdout(), notice)
	}
	log.Info().Bool("restart", notice != "").Msg("Publication manager stopped")
	return nil
}

func applyFlags(cfg *config.Config) {
	if profilesPath != "" {
		cfg.Profiles.Path = profilesPath
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
}

// openSession connects to the default profile's database and starts a
// publication session. On failure the session is nil and status explains why.
func openSession(ctx context.Context, cfg *config.Config, profiles *database.ProfilesDB, settings service.SettingsService, log zerolog.Logger) (*service.PublicationSession, string, func()) {
	noop := func() {}

	profile, conn, err := settings.ResolveDefault(ctx)
	if err != nil {
		var notFound *models.NotFoundError
		if errors.As(err, &notFound) {
			log.Warn().Msg("No default connection profile")
			return nil, "No connection has been set as default", noop
		}
		log.Error().Err(err).Msg("Failed to resolve default connection")
		return nil, "Connection unavailable: " + err.Error(), noop
	}

	db, err := database.New(conn, &cfg.Database, log)
	if err != nil {
		log.Error().Err(err).Str("type", profile.Type).Msg("Failed to connect to default profile")
		return nil, fmt.Sprintf("Could not connect to %s as %s: %v", profile.URL, profile.Username, err), noop
	}
	closeDB := func() { db.Close() }

	if cfg.Database.AutoMigrate {
		if _, err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
			log.Error().Err(err).Msg("Failed to run database migrations")
			closeDB()
			return nil, "Database migrations failed: " + err.Error(), noop
		}
	}

	if err := db.HealthCheck(ctx); err != nil {
		log.Error().Err(err).Msg("Database health check failed")
		closeDB()
		return nil, "Database health check failed: " + err.Error(), noop
	}

	repos := repository.New(db, profiles)
	session, err := service.NewPublicationSession(ctx, repos.Publication, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to start publication session")
		closeDB()
		return nil, "Could not load publications: " + err.Error(), noop
	}

	return session, fmt.Sprintf("Connected to %s as %s", profile.URL, profile.Username), closeDB
}
