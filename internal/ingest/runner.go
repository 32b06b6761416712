package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/JakeFAU/police-log-etl/internal/metrics"
	"github.com/JakeFAU/police-log-etl/internal/policelog"
)

// Default values applied by New.
const (
	DefaultSourceURL   = "https://pdreport.slocity.org/policelog/rpcdsum.txt"
	DefaultKeyPrefix   = "Final_Logs_Combined"
	DefaultContentType = "text/csv; charset=utf-8"
)

const tracerName = "github.com/JakeFAU/police-log-etl/internal/ingest"

// Config controls Runner behavior.
type Config struct {
	SourceURL   string
	KeyPrefix   string
	ContentType string
	Topic       string
	// Location sets the calendar day used in the object key. Nil means UTC.
	Location *time.Location
}

// Runner executes the fetch, parse, and upload pipeline once per call.
type Runner struct {
	fetcher   Fetcher
	blobStore BlobStore
	records   RecordStore
	publisher Publisher
	hasher    Hasher
	clock     Clock
	idGen     IDGenerator
	cfg       Config
	logger    *zap.Logger
}

// New constructs a Runner. records and publisher may be nil.
func New(
	fetcher Fetcher,
	blobStore BlobStore,
	records RecordStore,
	publisher Publisher,
	hasher Hasher,
	clock Clock,
	idGen IDGenerator,
	cfg Config,
	logger *zap.Logger,
) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SourceURL == "" {
		cfg.SourceURL = DefaultSourceURL
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	if cfg.ContentType == "" {
		cfg.ContentType = DefaultContentType
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	metrics.Init()
	return &Runner{
		fetcher:   fetcher,
		blobStore: blobStore,
		records:   records,
		publisher: publisher,
		hasher:    hasher,
		clock:     clock,
		idGen:     idGen,
		cfg:       cfg,
		logger:    logger,
	}
}

// ObjectKey builds the storage key for a run on the given day.
func ObjectKey(prefix string, day time.Time) string {
	name := fmt.Sprintf("police-log-%s.csv", day.Format("2006-01-02"))
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// Handle is the invocation entry point. The event is accepted for
// compatibility with function runtimes and otherwise ignored.
func (r *Runner) Handle(ctx context.Context, _ any) (Response, error) {
	if _, err := r.Run(ctx); err != nil {
		return Response{}, err
	}
	return Response{StatusCode: 200, Body: SuccessMessage}, nil
}

// Run fetches, parses, and uploads the log, then archives and publishes when
// those collaborators are configured.
func (r *Runner) Run(ctx context.Context) (RunInfo, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ingest.Run")
	defer span.End()

	start := r.clock.Now()
	info, err := r.run(ctx, start)
	status := "succeeded"
	if err != nil {
		status = "failed"
	}
	metrics.ObserveRun(status, r.clock.Now().Sub(start))
	span.SetAttributes(
		attribute.String("run.id", info.ID),
		attribute.String("run.object_key", info.ObjectKey),
		attribute.Int("run.rows", info.Rows),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "run failed")
		r.logger.Error("run failed", zap.String("run_id", info.ID), zap.Error(err))
		return info, err
	}
	r.logger.Info("run complete",
		zap.String("run_id", info.ID),
		zap.String("object_key", info.ObjectKey),
		zap.String("uri", info.URI),
		zap.Int("rows", info.Rows),
	)
	return info, nil
}

func (r *Runner) run(ctx context.Context, start time.Time) (RunInfo, error) {
	if r.fetcher == nil || r.blobStore == nil {
		return RunInfo{}, fmt.Errorf("fetcher and blob store are required")
	}
	runID, err := r.idGen.NewID()
	if err != nil {
		return RunInfo{}, fmt.Errorf("generate run id: %w", err)
	}
	info := RunInfo{
		ID:        runID,
		SourceURL: r.cfg.SourceURL,
		ObjectKey: ObjectKey(r.cfg.KeyPrefix, start.In(r.cfg.Location)),
		StartedAt: start,
	}

	resp, err := r.fetcher.Fetch(ctx, FetchRequest{URL: r.cfg.SourceURL})
	if err != nil {
		return info, fmt.Errorf("fetch log: %w", err)
	}
	metrics.ObserveFetch(len(resp.Body))
	r.logger.Debug("log fetched",
		zap.String("run_id", runID),
		zap.String("url", resp.URL),
		zap.Int("bytes", len(resp.Body)),
		zap.Duration("duration", resp.Duration),
	)

	table := policelog.Parse(string(resp.Body))
	info.Rows = table.Len()
	metrics.ObserveIncidents(table.Len())

	payload, err := table.CSV()
	if err != nil {
		return info, fmt.Errorf("render csv: %w", err)
	}
	if info.Hash, err = r.hasher.Hash(payload); err != nil {
		return info, fmt.Errorf("hash csv: %w", err)
	}
	if info.URI, err = r.blobStore.PutObject(ctx, info.ObjectKey, r.cfg.ContentType, payload); err != nil {
		return info, fmt.Errorf("put object: %w", err)
	}

	if r.records != nil {
		if err := r.records.StoreRecords(ctx, info, table); err != nil {
			return info, fmt.Errorf("archive records: %w", err)
		}
	}
	if err := r.publishResult(ctx, info); err != nil {
		return info, err
	}
	return info, nil
}

func (r *Runner) publishResult(ctx context.Context, info RunInfo) error {
	if r.cfg.Topic == "" || r.publisher == nil {
		return nil
	}
	payload := map[string]any{
		"run_id":     info.ID,
		"object_key": info.ObjectKey,
		"uri":        info.URI,
		"sha256":     info.Hash,
		"rows":       info.Rows,
		"timestamp":  r.clock.Now().Format(time.RFC3339),
	}
	id, err := r.publisher.Publish(ctx, r.cfg.Topic, payload)
	if err != nil {
		return fmt.Errorf("publish payload: %w", err)
	}
	r.logger.Info("run published", zap.String("run_id", info.ID), zap.String("message_id", id))
	return nil
}
