package ingest

import (
	"net/http"
	"time"
)

// SuccessMessage is the response body of a completed invocation.
const SuccessMessage = "Successfully processed and uploaded police log data."

// FetchRequest captures everything needed to fetch the log.
type FetchRequest struct {
	URL     string
	Headers http.Header
}

// FetchResponse is the result returned by a Fetcher implementation.
type FetchResponse struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// RunInfo identifies one invocation and the artifact it produced.
type RunInfo struct {
	ID        string    `json:"run_id"`
	SourceURL string    `json:"source_url"`
	ObjectKey string    `json:"object_key"`
	URI       string    `json:"uri"`
	Hash      string    `json:"sha256"`
	Rows      int       `json:"rows"`
	StartedAt time.Time `json:"started_at"`
}

// Response is what the invocation entry point hands back to its caller.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}
