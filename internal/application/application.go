package application

import (
	"context"
	"time"

	"mysql-table-backup/internal/config"
	"mysql-table-backup/internal/database"
	"mysql-table-backup/internal/executor"
	"mysql-table-backup/internal/logging"
	"mysql-table-backup/internal/storage"
)

// Config holds the application configuration assembled from CLI flags
type Config struct {
	ConfigFile string
	Directory  string
	Backup     bool
	Restore    bool
	Verbose    bool
	Quiet      bool
	LogFile    string
	Timeout    time.Duration
}

// Application wires the run configuration, the snapshot store and the
// executors together. Backup always precedes restore when both are requested;
// each connection is owned here and closed here.
type Application struct {
	cfg       Config
	runConfig *config.Config
	store     storage.Store
	dbService *database.Service
	logger    *logging.Logger
}

// NewApplication creates an application instance. Configuration-level errors
// (missing config file, missing snapshot directory) surface here, before any
// action runs.
func NewApplication(cfg Config) (*Application, error) {
	logLevel := logging.LogLevelNormal
	if cfg.Quiet {
		logLevel = logging.LogLevelQuiet
	} else if cfg.Verbose {
		logLevel = logging.LogLevelVerbose
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:   logLevel,
		Format:  "text",
		LogFile: cfg.LogFile,
	})
	if err != nil {
		return nil, err
	}

	runConfig, err := config.Load(cfg.ConfigFile)
	if err != nil {
		return nil, err
	}

	storageConfig := runConfig.Storage
	storageConfig.Directory = cfg.Directory

	store, err := storage.NewStore(storageConfig)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Application{
		cfg:       cfg,
		runConfig: runConfig,
		store:     store,
		dbService: database.NewServiceWithTimeout(logger, timeout),
		logger:    logger,
	}, nil
}

// Run executes the requested actions sequentially and prints a summary
func (app *Application) Run() error {
	ctx := context.Background()
	var results []*executor.Result

	if app.cfg.Backup {
		result, err := app.runBackup(ctx)
		if err != nil {
			return err
		}
		results = append(results, result)
	}

	if app.cfg.Restore {
		result, err := app.runRestore(ctx)
		if err != nil {
			return err
		}
		results = append(results, result)
	}

	if !app.cfg.Quiet {
		printSummary(results)
	}

	return nil
}

func (app *Application) runBackup(ctx context.Context) (*executor.Result, error) {
	db, err := app.dbService.Connect(app.runConfig.Source)
	if err != nil {
		return nil, err
	}
	defer app.dbService.Close(db)

	backup := executor.NewBackupExecutor(executor.Deps{
		DB:           db,
		Tables:       app.runConfig.Tables,
		Store:        app.store,
		Logger:       app.logger,
		QueryTimeout: app.cfg.Timeout,
	})
	backup.SetDatabaseName(app.runConfig.Source.Database)

	return backup.Execute(ctx)
}

func (app *Application) runRestore(ctx context.Context) (*executor.Result, error) {
	db, err := app.dbService.Connect(app.runConfig.Dest)
	if err != nil {
		return nil, err
	}
	defer app.dbService.Close(db)

	restore, err := executor.New(executor.ActionRestore, executor.Deps{
		DB:           db,
		Tables:       app.runConfig.Tables,
		Store:        app.store,
		Logger:       app.logger,
		QueryTimeout: app.cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}

	return restore.Execute(ctx)
}
