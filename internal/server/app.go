// Package server initializes and runs the truproof server. It opens the
// record store, applies migrations, selects the blob backend and serves the
// HTTP API until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/truproof/internal/logging"
	"github.com/dmitrijs2005/truproof/internal/server/blobstore"
	"github.com/dmitrijs2005/truproof/internal/server/config"
	"github.com/dmitrijs2005/truproof/internal/server/httpapi"
	"github.com/dmitrijs2005/truproof/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/truproof/internal/server/services"
)

var (
	logOutput io.Writer = os.Stdout

	newS3Client = func(ctx context.Context, c blobstore.S3Config) (blobstore.S3API, error) {
		return blobstore.NewS3Client(ctx, c)
	}
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(logOutput, c.LogLevel)

	db, rm, err := repomanager.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	blobs, err := newBlobStore(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	certs := services.NewCertificationService(db, rm, blobs, c, logger)
	profile := services.NewProfileService(db, rm, c, logger)
	handler := httpapi.NewHandler(certs, profile, db, c.MaxUploadSize, logger)

	return &App{
		config: c,
		logger: logger,
		db:     db,
		server: httpapi.NewServer(c.EndpointAddrHTTP, handler.Router(), c.ShutdownTimeout, logger),
	}, nil
}

func newBlobStore(ctx context.Context, c *config.Config) (blobstore.Store, error) {
	switch c.BlobBackend {
	case config.BlobBackendFS:
		return blobstore.NewFileStore(c.UploadDir)
	case config.BlobBackendS3:
		client, err := newS3Client(ctx, blobstore.S3Config{
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			return nil, err
		}
		store := blobstore.NewS3Store(client, c.S3Bucket)
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown blob backend %q", c.BlobBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is canceled or a termination signal arrives, then
// closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "driver", app.config.DatabaseDriver, "blob_backend", app.config.BlobBackend)

	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, "http server stopped", "error", err)
	}

	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "close database", "error", cerr)
	}
	return err
}
