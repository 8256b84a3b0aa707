package di

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	authgateway "github.com/YoshitsuguKoike/kindred/internal/adapter/gateway/auth"
	storagegateway "github.com/YoshitsuguKoike/kindred/internal/adapter/gateway/storage"
	"github.com/YoshitsuguKoike/kindred/internal/app"
	appconfig "github.com/YoshitsuguKoike/kindred/internal/app/config"
	"github.com/YoshitsuguKoike/kindred/internal/application/port/output"
	"github.com/YoshitsuguKoike/kindred/internal/application/service"
	"github.com/YoshitsuguKoike/kindred/internal/domain/model/content"
	"github.com/YoshitsuguKoike/kindred/internal/domain/model/record"
	"github.com/YoshitsuguKoike/kindred/internal/domain/repository"
	"github.com/YoshitsuguKoike/kindred/internal/domain/service/selector"
	"github.com/YoshitsuguKoike/kindred/internal/infrastructure/catalog"
	"github.com/YoshitsuguKoike/kindred/internal/infrastructure/persistence/sqlite"
	"github.com/YoshitsuguKoike/kindred/internal/infrastructure/repository/memory"
	"github.com/YoshitsuguKoike/kindred/internal/infrastructure/transaction"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// Container is the DI container that holds all dependencies.
// Swapping the storage backend only changes what is built here.
type Container struct {
	// Infrastructure Layer - Database (nil for memory storage)
	db *sql.DB

	// Infrastructure Layer - Repositories
	recordRepo        repository.RecordRepository
	customizationRepo repository.CustomizationRepository

	// Infrastructure Layer - Gateways
	authGateway output.AuthGateway
	exportStore output.ExportStore

	// Infrastructure Layer - Transaction Manager
	txManager output.TransactionManager

	// Static content
	catalog *content.Catalog

	// Application Layer
	deps     service.Deps
	exporter *service.Exporter

	config appconfig.Config
	fs     afero.Fs
}

// Option customizes container construction
type Option func(*Container)

// WithFs replaces the filesystem used for local exports
func WithFs(fs afero.Fs) Option {
	return func(c *Container) { c.fs = fs }
}

// WithAuthGateway replaces the configured auth gateway
func WithAuthGateway(gw output.AuthGateway) Option {
	return func(c *Container) { c.authGateway = gw }
}

// WithExportStore replaces the configured export store
func WithExportStore(store output.ExportStore) Option {
	return func(c *Container) { c.exportStore = store }
}

// NewContainer creates and initializes the DI container
func NewContainer(ctx context.Context, cfg appconfig.Config, opts ...Option) (*Container, error) {
	c := &Container{
		config: cfg,
		fs:     afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(c)
	}

	// Initialize dependencies in dependency order
	if err := c.initializeInfrastructure(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize infrastructure: %w", err)
	}

	c.initializeApplication()
	return c, nil
}

// initializeInfrastructure initializes infrastructure layer components
func (c *Container) initializeInfrastructure(ctx context.Context) error {
	// 1. Load the content catalog
	cat, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("failed to load content catalog: %w", err)
	}
	c.catalog = cat

	// 2. Repositories and transaction manager for the configured backend
	switch c.config.Storage() {
	case StorageMemory, "":
		c.recordRepo = memory.NewRecordRepository()
		c.customizationRepo = memory.NewCustomizationRepository()
		c.txManager = transaction.NewPassthroughTransactionManager()

	case StorageSQLite:
		dbPath := c.config.DBPath()
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
		db, err := sqlite.Open(dbPath)
		if err != nil {
			return err
		}
		c.db = db
		c.recordRepo = sqlite.NewRecordRepository(db)
		c.customizationRepo = sqlite.NewCustomizationRepository(db)
		c.txManager = transaction.NewSQLiteTransactionManager(db)

	default:
		return fmt.Errorf("unknown storage type: %s", c.config.Storage())
	}

	// 3. Auth gateway
	if c.authGateway == nil {
		gw, err := authgateway.NewAuthGateway(
			c.config.AuthProvider(),
			c.config.AuthURL(),
			c.config.AuthAPIKey(),
			c.config.AuthTimeout(),
		)
		if err != nil {
			return fmt.Errorf("failed to create auth gateway: %w", err)
		}
		c.authGateway = gw
	}

	// 4. Export store: S3 when a bucket is configured, local files otherwise
	if c.exportStore == nil {
		if bucket := c.config.ExportBucket(); bucket != "" {
			store, err := storagegateway.NewS3ExportStore(ctx, storagegateway.S3Config{
				BucketName: bucket,
				Prefix:     c.config.ExportPrefix(),
				Region:     c.config.ExportRegion(),
			})
			if err != nil {
				return fmt.Errorf("failed to create S3 export store: %w", err)
			}
			c.exportStore = store
		} else {
			c.exportStore = storagegateway.NewLocalExportStore(c.fs, c.config.Home())
		}
	}

	app.GetLogger().Debug("container ready: storage=%s auth=%s", c.StorageName(), c.config.AuthProvider())
	return nil
}

// initializeApplication wires the shared service dependencies
func (c *Container) initializeApplication() {
	c.deps = service.Deps{
		Catalog:        c.catalog,
		Records:        c.recordRepo,
		Customizations: c.customizationRepo,
		Tx:             c.txManager,
		Auth:           c.authGateway,
		Selector:       selector.NewUniform(),
		IDs:            record.NewIDGenerator(),
		PublicURL:      c.config.PublicURL(),
	}
	c.exporter = service.NewExporter(c.deps)
}

// StorageName returns the active storage backend
func (c *Container) StorageName() string {
	if c.db != nil {
		return StorageSQLite
	}
	return StorageMemory
}

// NewWorkspace creates the page services of a new session
func (c *Container) NewWorkspace(owner string) *service.Workspace {
	return service.NewWorkspace(c.deps, owner)
}

// GetDeps returns the shared service dependencies
func (c *Container) GetDeps() service.Deps {
	return c.deps
}

// GetCatalog returns the content catalog
func (c *Container) GetCatalog() *content.Catalog {
	return c.catalog
}

// GetExporter returns the data exporter
func (c *Container) GetExporter() *service.Exporter {
	return c.exporter
}

// GetExportStore returns the export store
func (c *Container) GetExportStore() output.ExportStore {
	return c.exportStore
}

// GetAuthGateway returns the auth gateway
func (c *Container) GetAuthGateway() output.AuthGateway {
	return c.authGateway
}

// GetRecordRepository returns the record repository
func (c *Container) GetRecordRepository() repository.RecordRepository {
	return c.recordRepo
}

// GetConfig returns the configuration the container was built from
func (c *Container) GetConfig() appconfig.Config {
	return c.config
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.db != nil {
		err := c.db.Close()
		c.db = nil
		return err
	}
	return nil
}
