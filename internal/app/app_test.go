package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/police-log-etl/internal/app"
	"github.com/JakeFAU/police-log-etl/internal/archive/sqlite"
	"github.com/JakeFAU/police-log-etl/internal/config"
	"github.com/JakeFAU/police-log-etl/internal/ingest"
)

const sourceLog = `SAN LUIS OBISPO POLICE DEPARTMENT
CALLS FOR SERVICE SUMMARY
Report generated 10/16/26
==============================================
231016001 10/16/26 Received:08:15 Dispatched:08:17 Arrived:08:25 Cleared:08:45
Type: TRAFFIC STOP Location: MONTEREY ST
Addr: 123 MAIN ST GRID A-12 Clearance Code: CITATION
CALL COMMENTS: VEHICLE STOPPED FOR SPEED
`

func baseConfig(sourceURL string) config.Config {
	return config.Config{
		Server:  config.ServerConfig{Port: 8080},
		Source:  config.SourceConfig{URL: sourceURL, UserAgent: "app-test", TimeoutSeconds: 5},
		Storage: config.StorageConfig{Backend: config.BackendMemory, Prefix: "Final_Logs_Combined"},
		Run:     config.RunConfig{Timezone: "UTC"},
	}
}

func TestNewMemoryBackend(t *testing.T) {
	t.Parallel()

	a, err := app.New(context.Background(), baseConfig("https://example.test/log.txt"), zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, a.Runner)
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	t.Parallel()

	cfg := baseConfig("https://example.test/log.txt")
	cfg.Storage.Backend = "ftp"
	_, err := app.New(context.Background(), cfg, zap.NewNop())
	require.ErrorContains(t, err, "unknown storage backend")
}

func TestNewRejectsUnknownArchiveDriver(t *testing.T) {
	t.Parallel()

	cfg := baseConfig("https://example.test/log.txt")
	cfg.Archive.Driver = "mysql"
	_, err := app.New(context.Background(), cfg, zap.NewNop())
	require.ErrorContains(t, err, "unknown archive driver")
}

func TestNewRejectsBadTimezone(t *testing.T) {
	t.Parallel()

	cfg := baseConfig("https://example.test/log.txt")
	cfg.Run.Timezone = "Mars/Olympus"
	_, err := app.New(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
}

func TestRunEndToEndLocalAndSQLite(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "app-test", r.UserAgent())
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(sourceLog))
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "archive.db")
	cfg := baseConfig(srv.URL + "/policelog/rpcdsum.txt")
	cfg.Storage.Backend = config.BackendLocal
	cfg.Storage.LocalDir = filepath.Join(dir, "out")
	cfg.Archive = config.ArchiveConfig{Driver: config.DriverSQLite, DSN: dbPath}

	a, err := app.New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	resp, err := a.Runner.Handle(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, ingest.Response{StatusCode: 200, Body: ingest.SuccessMessage}, resp)

	info, err := a.Runner.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, a.Close())

	data, err := os.ReadFile(filepath.Join(cfg.Storage.LocalDir, filepath.FromSlash(info.ObjectKey)))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, ",IncidentID,Date,Received,Dispatched,Arrived,Cleared,Type,Address,Comment,Grid", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0,231016001,10/16/26,08:15,08:17,08:25,08:45,TRAFFIC STOP,"))
	assert.True(t, strings.HasSuffix(lines[1], ",A-12"))
	assert.Equal(t, "1,,,,,,,,,,N/A", lines[2])

	archive, err := sqlite.Open(context.Background(), dbPath, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = archive.Close() })
	rows, err := archive.Records(context.Background(), info.ObjectKey)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "231016001", rows[0].IncidentID)
}

func TestRunSourceFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	a, err := app.New(context.Background(), baseConfig(srv.URL), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	_, err = a.Runner.Handle(context.Background(), nil)
	require.Error(t, err)
}
