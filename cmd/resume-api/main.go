package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/auth"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/config"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/database"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/documents"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/export"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

var (
	cfgFile string
	envFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "resume-api",
		Short: "Resume builder backend service",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
		SilenceUsage: true,
	}

	setupFlags(rootCmd)
	rootCmd.AddCommand(newServeCommand(), newMigrateCommand(), newExportCommand(), newTokenCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to a .env file (defaults to ./.env when present)")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("allowed-origins", defaults.GetString("http.allowed_origins"), "Comma-separated CORS origins")
	cmd.PersistentFlags().String("database-driver", defaults.GetString("database.driver"), "Database driver (sqlite, postgres)")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "SQLite database path")
	cmd.PersistentFlags().String("database-url", defaults.GetString("database.url"), "Postgres connection URL")
	cmd.PersistentFlags().String("signing-secret", "", "Session token signing secret (overrides env)")
	cmd.PersistentFlags().Duration("autosave-debounce", defaults.GetDuration("autosave.debounce"), "Quiet period before an autosave")
	cmd.PersistentFlags().String("ai-provider", defaults.GetString("ai.provider"), "AI provider (gemini, openai, none)")
	cmd.PersistentFlags().String("storage-driver", defaults.GetString("storage.driver"), "Export archive storage (local, s3, none)")
	cmd.PersistentFlags().Bool("pdf", defaults.GetBool("pdf.enabled"), "Enable PDF export through Playwright")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "http.allowed_origins", "allowed-origins")
	bindFlag(cmd, "database.driver", "database-driver")
	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "database.url", "database-url")
	bindFlag(cmd, "auth.signing_secret", "signing-secret")
	bindFlag(cmd, "autosave.debounce", "autosave-debounce")
	bindFlag(cmd, "ai.provider", "ai-provider")
	bindFlag(cmd, "storage.driver", "storage-driver")
	bindFlag(cmd, "pdf.enabled", "pdf")
	bindFlag(cmd, "log.level", "log-level")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func loadRuntime() (config.AppConfig, *zap.Logger, error) {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return config.AppConfig{}, nil, err
	}
	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return config.AppConfig{}, nil, err
	}
	return appConfig, logger, nil
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(ctx context.Context) error {
	appConfig, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	app, err := buildApplication(ctx, appConfig, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	handler, err := app.httpHandler()
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              appConfig.HTTPAddress,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("address", appConfig.HTTPAddress),
			zap.String("database_driver", appConfig.DatabaseDriver),
			zap.String("ai_provider", appConfig.AIProvider),
			zap.String("storage_driver", appConfig.StorageDriver))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr := httpServer.Shutdown(shutdownCtx)
		if unsaved := app.sessions.Unsaved(); len(unsaved) > 0 {
			logger.Info("flushing unsaved sessions", zap.Int("count", len(unsaved)))
		}
		if err := app.sessions.CloseAll(shutdownCtx); err != nil {
			logger.Error("session flush failed",
				zap.String("operation", "main.shutdown"),
				zap.String("reason", "flush_failed"),
				zap.Error(err))
			return errors.Join(shutdownErr, err)
		}
		return shutdownErr
	case err := <-errCh:
		return err
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			return runMigrations(cmd.Context(), appConfig, logger)
		},
	}
}

func runMigrations(ctx context.Context, appConfig config.AppConfig, logger *zap.Logger) error {
	switch appConfig.DatabaseDriver {
	case config.DatabasePostgres:
		db, err := database.ConnectPostgres(ctx, appConfig.DatabaseURL, database.DefaultMigrateOptions(), logger)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.RunPostgresMigrations(ctx, db); err != nil {
			return err
		}
	default:
		db, err := database.OpenSQLite(appConfig.DatabasePath, logger)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()
	}
	logger.Info("migrations applied", zap.String("database_driver", appConfig.DatabaseDriver))
	return nil
}

func newExportCommand() *cobra.Command {
	var (
		documentID string
		ownerID    string
		formatName string
		outPath    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a stored resume to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			owner, err := documents.NewOwnerID(ownerID)
			if err != nil {
				return err
			}
			id, err := documents.NewDocumentID(documentID)
			if err != nil {
				return err
			}
			format, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}

			app, err := buildApplication(cmd.Context(), appConfig, logger)
			if err != nil {
				return err
			}
			defer app.Close()

			document, err := app.documents.Load(cmd.Context(), owner, id)
			if err != nil {
				return err
			}
			artifact, err := app.exporter.Export(cmd.Context(), document, format)
			if err != nil {
				return err
			}
			target := outPath
			if target == "" {
				target = artifact.FileName
			}
			if err := os.WriteFile(filepath.Clean(target), artifact.Data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), target)
			return nil
		},
	}
	cmd.Flags().StringVar(&documentID, "document", "", "Document id")
	cmd.Flags().StringVar(&ownerID, "owner", "", "Owner id")
	cmd.Flags().StringVar(&formatName, "format", string(export.FormatPDF), "Export format (pdf, docx, txt)")
	cmd.Flags().StringVar(&outPath, "out", "", "Output path (defaults to <title>.<format>)")
	_ = cmd.MarkFlagRequired("document")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func newTokenCommand() *cobra.Command {
	var (
		subject     string
		email       string
		displayName string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a session token for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}
			issuer, err := auth.NewTokenIssuer(auth.TokenIssuerConfig{
				SigningSecret: []byte(appConfig.SigningSecret),
				Issuer:        appConfig.Issuer,
				TokenTTL:      appConfig.TokenTTL,
			})
			if err != nil {
				return err
			}
			token, expiresAt, err := issuer.Issue(cmd.Context(), auth.Identity{
				Subject:     subject,
				Email:       email,
				DisplayName: displayName,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "Token subject (owner id)")
	cmd.Flags().StringVar(&email, "email", "", "Optional email claim")
	cmd.Flags().StringVar(&displayName, "name", "", "Optional display name claim")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
