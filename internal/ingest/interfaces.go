package ingest

import (
	"context"
	"time"

	"github.com/JakeFAU/police-log-etl/internal/policelog"
)

// Fetcher retrieves the raw dispatch log.
type Fetcher interface {
	Fetch(ctx context.Context, request FetchRequest) (FetchResponse, error)
}

// BlobStore writes the CSV artifact and returns a URI.
type BlobStore interface {
	PutObject(ctx context.Context, path string, contentType string, data []byte) (string, error)
}

// RecordStore archives parsed rows for querying.
type RecordStore interface {
	StoreRecords(ctx context.Context, run RunInfo, table policelog.Table) error
}

// Publisher pushes completion events to Pub/Sub (or similar).
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) (string, error)
}

// Hasher computes digests of the uploaded payload.
type Hasher interface {
	Hash(data []byte) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run IDs.
type IDGenerator interface {
	NewID() (string, error)
}
