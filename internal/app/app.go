// Package app wires the stores, lifecycle manager, executor and pipeline
// service onto one SQLite handle.
package app

import (
	"database/sql"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"nathanbeddoewebdev/chatact/internal/actionstore"
	"nathanbeddoewebdev/chatact/internal/auditlog"
	"nathanbeddoewebdev/chatact/internal/config"
	"nathanbeddoewebdev/chatact/internal/database"
	"nathanbeddoewebdev/chatact/internal/executor"
	"nathanbeddoewebdev/chatact/internal/hints"
	"nathanbeddoewebdev/chatact/internal/lifecycle"
	"nathanbeddoewebdev/chatact/internal/logging"
	"nathanbeddoewebdev/chatact/internal/recordstore"
	"nathanbeddoewebdev/chatact/internal/services/action"
)

// App is a fully wired pipeline.
type App struct {
	Service *action.Service
	Audit   *auditlog.SQLiteRepository
	Records *recordstore.SQLiteStore
	Hints   *hints.SQLiteStore

	db *sql.DB
}

// Load reads the persisted config, builds a logger writing to w and opens the
// pipeline.
func Load(w io.Writer) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := logging.New(cfg.Level(), cfg.Format(), w)
	if err != nil {
		return nil, err
	}
	return Open(cfg, logger)
}

// Open opens the configured database and builds every component on it.
func Open(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	path := cfg.DatabasePath
	if path == "" {
		if path, err = database.DefaultPath(); err != nil {
			return nil, err
		}
	}
	db, err := database.Open(path)
	if err != nil {
		return nil, err
	}

	a, err := build(db, cfg, loc, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

func build(db *sql.DB, cfg *config.Config, loc *time.Location, logger *zap.Logger) (*App, error) {
	repo, err := actionstore.New(db)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	audit, err := auditlog.New(db)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	records, err := recordstore.New(db)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	hintStore, err := hints.New(db)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	lc := lifecycle.New(repo, audit,
		lifecycle.WithLogger(logger.Named("lifecycle")),
		lifecycle.WithPageSize(cfg.PageSize()),
	)
	exec := executor.New(records, lc, logger.Named("executor"))
	svc := action.NewService(lc, exec,
		action.WithContextStore(hintStore),
		action.WithLogger(logger.Named("action")),
		action.WithClock(func() time.Time { return time.Now().In(loc) }),
	)

	return &App{
		Service: svc,
		Audit:   audit,
		Records: records,
		Hints:   hintStore,
		db:      db,
	}, nil
}

// Close releases the shared database handle.
func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}
