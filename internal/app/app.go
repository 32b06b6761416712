// Package app builds the long-lived collaborators of a pipeline runner from
// configuration and owns their shutdown.
package app

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/JakeFAU/police-log-etl/internal/archive/postgres"
	"github.com/JakeFAU/police-log-etl/internal/archive/sqlite"
	systemclock "github.com/JakeFAU/police-log-etl/internal/clock/system"
	"github.com/JakeFAU/police-log-etl/internal/config"
	collyfetcher "github.com/JakeFAU/police-log-etl/internal/fetcher/colly"
	hashsha "github.com/JakeFAU/police-log-etl/internal/hash/sha256"
	uuidgen "github.com/JakeFAU/police-log-etl/internal/id/uuid"
	"github.com/JakeFAU/police-log-etl/internal/ingest"
	pubmemory "github.com/JakeFAU/police-log-etl/internal/publisher/memory"
	pubsubpublisher "github.com/JakeFAU/police-log-etl/internal/publisher/pubsub"
	gcsstore "github.com/JakeFAU/police-log-etl/internal/storage/gcs"
	localstore "github.com/JakeFAU/police-log-etl/internal/storage/local"
	memorystore "github.com/JakeFAU/police-log-etl/internal/storage/memory"
	s3store "github.com/JakeFAU/police-log-etl/internal/storage/s3"
)

// App holds the runner and the resources it depends on.
type App struct {
	Runner  *ingest.Runner
	logger  *zap.Logger
	closers []namedCloser
}

type namedCloser struct {
	name  string
	close func() error
}

// New wires storage, archive, publisher, and fetcher according to cfg. On
// error every resource opened so far is closed.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{logger: logger}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	blobs, err := a.blobStore(ctx, cfg.Storage)
	if err != nil {
		a.Close()
		return nil, err
	}
	records, err := a.recordStore(ctx, cfg.Archive)
	if err != nil {
		a.Close()
		return nil, err
	}
	publisher, err := a.publisher(ctx, cfg.PubSub)
	if err != nil {
		a.Close()
		return nil, err
	}

	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent: cfg.Source.UserAgent,
		Timeout:   cfg.FetchTimeout(),
	})
	a.Runner = ingest.New(
		fetcher,
		blobs,
		records,
		publisher,
		hashsha.New(),
		systemclock.New(),
		uuidgen.New(),
		ingest.Config{
			SourceURL:   cfg.Source.URL,
			KeyPrefix:   cfg.Storage.Prefix,
			ContentType: cfg.Storage.ContentType,
			Topic:       cfg.PubSub.TopicName,
			Location:    loc,
		},
		logger.Named("ingest"),
	)
	logger.Info("application services initialized",
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.String("archive_driver", cfg.Archive.Driver),
		zap.Bool("publish", cfg.PubSub.TopicName != ""),
	)
	return a, nil
}

func (a *App) blobStore(ctx context.Context, cfg config.StorageConfig) (ingest.BlobStore, error) {
	switch cfg.Backend {
	case config.BackendGCS:
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("create gcs client: %w", err)
		}
		a.addCloser("gcs client", client.Close)
		a.logger.Info("using GCS storage", zap.String("bucket", cfg.Bucket))
		return gcsstore.New(client, gcsstore.Config{Bucket: cfg.Bucket})
	case config.BackendS3:
		a.logger.Info("using S3 storage", zap.String("bucket", cfg.Bucket), zap.String("region", cfg.Region))
		return s3store.NewFromEnv(ctx, s3store.Config{Bucket: cfg.Bucket, Region: cfg.Region})
	case config.BackendLocal:
		a.logger.Info("using local storage", zap.String("dir", cfg.LocalDir))
		return localstore.New(localstore.Config{BaseDir: cfg.LocalDir})
	case config.BackendMemory:
		a.logger.Warn("using in-memory storage; uploads are discarded on exit")
		return memorystore.NewBlobStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Backend)
	}
}

func (a *App) recordStore(ctx context.Context, cfg config.ArchiveConfig) (ingest.RecordStore, error) {
	switch cfg.Driver {
	case "":
		return nil, nil
	case config.DriverPostgres:
		store, err := postgres.NewRecordStore(ctx, postgres.Config{DSN: cfg.DSN, Table: cfg.Table})
		if err != nil {
			return nil, fmt.Errorf("open postgres archive: %w", err)
		}
		a.addCloser("postgres archive", func() error {
			store.Close()
			return nil
		})
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.DSN, cfg.Table)
		if err != nil {
			return nil, fmt.Errorf("open sqlite archive: %w", err)
		}
		a.addCloser("sqlite archive", store.Close)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown archive driver: %q", cfg.Driver)
	}
}

func (a *App) publisher(ctx context.Context, cfg config.PubSubConfig) (ingest.Publisher, error) {
	if cfg.TopicName == "" {
		return pubmemory.New(), nil
	}
	p, err := pubsubpublisher.Dial(ctx, cfg.ProjectID, cfg.TopicName)
	if err != nil {
		return nil, fmt.Errorf("connect pubsub: %w", err)
	}
	a.addCloser("pubsub publisher", p.Close)
	return p, nil
}

func (a *App) addCloser(name string, fn func() error) {
	a.closers = append(a.closers, namedCloser{name: name, close: fn})
}

// Close releases resources in reverse order of acquisition. It is safe to
// call more than once.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.close(); err != nil {
			a.logger.Warn("error closing resource", zap.String("resource", c.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("close %s: %w", c.name, err))
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Handle runs the pipeline once. It lets App stand in wherever an invoker is
// expected.
func (a *App) Handle(ctx context.Context, event any) (ingest.Response, error) {
	if a.Runner == nil {
		return ingest.Response{}, fmt.Errorf("runner is not initialized")
	}
	return a.Runner.Handle(ctx, event)
}
