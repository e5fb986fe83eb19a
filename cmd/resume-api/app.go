package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/assist"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/auth"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/autosave"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/config"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/database"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/documents"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/export"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/server"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/session"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/storage"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/users"
	"go.uber.org/zap"
)

const aiRetryBackoff = 500 * time.Millisecond

// application holds the wired services shared by the serve and export commands.
type application struct {
	config    config.AppConfig
	logger    *zap.Logger
	owners    server.OwnerResolver
	documents *documents.Service
	sessions  *session.Manager
	assist    *assist.Service
	exporter  *export.Exporter
	artifacts storage.ObjectStore
	realtime  *server.RealtimeDispatcher
	closers   []func() error
}

func buildApplication(ctx context.Context, appConfig config.AppConfig, logger *zap.Logger) (*application, error) {
	app := &application{
		config:   appConfig,
		logger:   logger,
		realtime: server.NewRealtimeDispatcher(),
	}

	repository, err := app.openRepository(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	idProvider := resume.NewUUIDProvider()
	app.documents, err = documents.NewService(documents.ServiceConfig{
		Repository: repository,
		Clock:      time.Now,
		IDProvider: idProvider,
		Publisher:  app.realtime,
		Logger:     logger,
	})
	if err != nil {
		app.Close()
		return nil, err
	}

	factory, err := resume.NewFactory(idProvider)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.sessions, err = session.NewManager(session.ManagerConfig{
		Documents:   app.documents,
		Factory:     factory,
		IDProvider:  idProvider,
		Scheduler:   autosave.SystemScheduler{},
		Debounce:    appConfig.AutosaveDebounce,
		SaveTimeout: appConfig.SaveTimeout,
		Logger:      logger,
	})
	if err != nil {
		app.Close()
		return nil, err
	}

	completer, err := newCompleter(ctx, appConfig)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.assist, err = assist.NewService(assist.ServiceConfig{
		Completer: completer,
		Factory:   factory,
		Logger:    logger,
	})
	if err != nil {
		app.Close()
		return nil, err
	}

	var printer export.PDFPrinter
	if appConfig.PDFEnabled {
		printer = export.PlaywrightPrinter{Timeout: appConfig.PDFTimeout}
	}
	app.exporter = export.NewExporter(printer, logger)

	app.artifacts, err = newObjectStore(ctx, appConfig)
	if err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// openRepository connects the configured database. SQLite deployments also
// map identities to owner ids through the users table.
func (a *application) openRepository(ctx context.Context) (documents.Repository, error) {
	switch a.config.DatabaseDriver {
	case config.DatabasePostgres:
		db, err := database.ConnectPostgres(ctx, a.config.DatabaseURL, database.DefaultServerOptions(), a.logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		if err := database.RunPostgresMigrations(ctx, db); err != nil {
			return nil, err
		}
		return &documents.PostgresRepository{DB: db}, nil
	default:
		db, err := database.OpenSQLite(a.config.DatabasePath, a.logger)
		if err != nil {
			return nil, err
		}
		var sqlDB *sql.DB
		if sqlDB, err = db.DB(); err != nil {
			return nil, err
		}
		a.closers = append(a.closers, sqlDB.Close)
		owners, err := users.NewService(users.ServiceConfig{Database: db, Logger: a.logger})
		if err != nil {
			return nil, err
		}
		a.owners = owners
		return documents.NewGormRepository(db)
	}
}

func newCompleter(ctx context.Context, appConfig config.AppConfig) (assist.Completer, error) {
	var (
		next assist.Completer
		err  error
	)
	switch appConfig.AIProvider {
	case config.AIProviderGemini:
		next, err = assist.NewGeminiCompleter(ctx, appConfig.GeminiAPIKey, appConfig.AIModel)
	case config.AIProviderOpenAI:
		var options []assist.OpenAIOption
		if appConfig.OpenAIEndpoint != "" {
			options = append(options, assist.WithEndpoint(appConfig.OpenAIEndpoint))
		}
		next, err = assist.NewOpenAICompleter(appConfig.OpenAIAPIKey, appConfig.AIModel, options...)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("configure %s completer: %w", appConfig.AIProvider, err)
	}
	return assist.RetryingCompleter{Next: next, Attempts: appConfig.AIAttempts, Backoff: aiRetryBackoff}, nil
}

func newObjectStore(ctx context.Context, appConfig config.AppConfig) (storage.ObjectStore, error) {
	switch appConfig.StorageDriver {
	case config.StorageLocal:
		return storage.NewLocalStore(appConfig.StorageDir)
	case config.StorageS3:
		return storage.NewS3Store(ctx, storage.S3Config{
			Region:   appConfig.S3Region,
			Bucket:   appConfig.S3Bucket,
			Prefix:   appConfig.S3Prefix,
			KMSKeyID: appConfig.S3KMSKeyID,
		})
	default:
		return nil, nil
	}
}

func (a *application) httpHandler() (http.Handler, error) {
	validator, err := auth.NewSessionValidator(auth.SessionValidatorConfig{
		SigningSecret: []byte(a.config.SigningSecret),
		Issuer:        a.config.Issuer,
		CookieName:    a.config.CookieName,
	})
	if err != nil {
		return nil, err
	}
	return server.NewHTTPHandler(server.Dependencies{
		Validator:      validator,
		Owners:         a.owners,
		Documents:      a.documents,
		Sessions:       a.sessions,
		Assist:         a.assist,
		Exporter:       a.exporter,
		Artifacts:      a.artifacts,
		Realtime:       a.realtime,
		AllowedOrigins: a.config.AllowedOrigins,
		Logger:         a.logger,
	})
}

// Close releases database handles in reverse order of acquisition.
func (a *application) Close() {
	for index := len(a.closers) - 1; index >= 0; index-- {
		if err := a.closers[index](); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
}
