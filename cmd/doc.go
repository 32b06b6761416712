// Package cmd defines the police-log-etl CLI.
//
// Architecture overview:
//   - run: one invocation. Fetches the dispatch log with the Colly fetcher, parses it into incident rows,
//     renders a CSV, and writes it to the configured BlobStore (GCS, S3, local, or memory) under
//     <prefix>/police-log-YYYY-MM-DD.csv. Rows are optionally archived to Postgres or SQLite and a completion
//     notice is published to Pub/Sub when a topic is configured. Prints the invocation response as JSON.
//   - serve: the same invocation behind POST /v1/runs for schedulers and Cloud Run style triggers, plus
//     /healthz, /readyz, and /metrics. Shuts down cleanly on SIGTERM.
//   - parse: offline parser check. Reads a local text file and writes its CSV to stdout.
//
// Configuration comes from an optional YAML file (--config), a .env file, and POLICELOG_* environment
// variables, e.g. POLICELOG_STORAGE_BACKEND=gcs POLICELOG_STORAGE_BUCKET=my-bucket. PORT overrides
// server.port for serve.
package cmd
