package container

import (
	"context"
	"fmt"
	"os"
	"strings"

	"payslip/adapters/filestore"
	"payslip/adapters/github"
	"payslip/adapters/sqlstore"
	"payslip/domain/payroll"
	"payslip/internal"
	"payslip/internal/config"
	"payslip/internal/migration"
	payrollsvc "payslip/internal/payroll"
	"payslip/internal/slip"
	"payslip/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure; DB is only set for the SQL remotes
	DB *sqlx.DB

	Dataset  *filestore.DatasetFile
	Renderer *slip.Renderer
	Blobs    ports.BlobStore

	Lookup  *payrollsvc.LookupService
	Updater *payrollsvc.Updater
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Logger: NewLogger(cfg.Log),
	}

	c.Dataset = filestore.NewDatasetFile(cfg.Data.File, c.Logger)
	c.Renderer = slip.NewRenderer(slip.Config{FontPath: cfg.Slip.FontPath, Title: cfg.Slip.Title}, c.Logger)

	if err := c.initBlobStore(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize remote store: %w", err)
	}

	c.Lookup = payrollsvc.NewLookupService(c.Dataset, c.Renderer, c.Logger)
	c.Updater = payrollsvc.NewUpdater(payrollsvc.UpdaterConfig{
		Credential: payroll.NewCredential(cfg.Admin.Password),
		Sink:       c.Dataset,
		Blobs:      c.Blobs,
		RemoteKey:  cfg.Remote.Path,
		Logger:     c.Logger,
	})

	if cfg.Admin.UsingFallback {
		c.Logger.Warn("[Container] ADMIN_PASSWORD not set, using the fallback password")
	}
	c.Logger.Info("[Container] serving %s, remote store %s", cfg.Data.File, c.remoteName())
	return c, nil
}

// NewLogger builds the process logger from configuration
func NewLogger(cfg config.LogConfig) *internal.Logger {
	level := internal.ParseLogLevel(cfg.Level)
	if strings.EqualFold(cfg.Format, "json") {
		return internal.NewLoggerTo(os.Stderr, level)
	}
	return internal.NewLogger(level)
}

// initBlobStore selects the remote mirror
func (c *Container) initBlobStore(ctx context.Context) error {
	remote := c.Config.Remote
	switch remote.Kind {
	case config.RemoteGitHub:
		owner, repo, ok := remote.OwnerRepo()
		if !ok {
			return fmt.Errorf("invalid GITHUB_REPO %q", remote.GitHubRepo)
		}
		client := github.NewClient(remote.GitHubToken, remote.Timeout)
		c.Blobs = github.NewBlobStore(client, owner, repo, remote.Branch, c.Logger)

	case config.RemotePostgres:
		return c.initSQLStore(ctx, "postgres", remote.DatabaseURL)

	case config.RemoteSQLite:
		return c.initSQLStore(ctx, "sqlite3", remote.SQLitePath)
	}
	return nil
}

func (c *Container) initSQLStore(ctx context.Context, driver, dsn string) error {
	db, err := OpenDatabase(ctx, driver, dsn)
	if err != nil {
		return err
	}
	var migrator migration.Migrator = migration.NewRunner()
	if err := migrator.Run(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	c.Logger.Debug("[Container] %s schema at version %s", driver, migrator.Version())
	c.DB = db
	c.Blobs = sqlstore.NewBlobStore(db)
	return nil
}

// OpenDatabase connects with driver ("postgres" or "sqlite3") and checks the
// connection
func OpenDatabase(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if driver == "sqlite3" {
		// one writer; avoids SQLITE_BUSY between pooled connections
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

func (c *Container) remoteName() string {
	if c.Blobs == nil {
		return config.RemoteNone
	}
	return c.Blobs.Name()
}

// Close releases the database connection, if any
func (c *Container) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
