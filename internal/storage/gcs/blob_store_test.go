package gcs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

// newTestClient points a storage client at a fake GCS JSON API.
func newTestClient(t *testing.T, handler http.Handler) *storage.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := storage.NewClient(
		context.Background(),
		option.WithEndpoint(server.URL),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	_, err := New(nil, Config{Bucket: "b"})
	assert.Error(t, err)

	client := newTestClient(t, http.NotFoundHandler())
	_, err = New(client, Config{})
	assert.Error(t, err)
}

func TestPutObjectUploadsCSV(t *testing.T) {
	t.Parallel()

	const (
		bucket = "police-logs"
		key    = "Final_Logs_Combined/police-log-2026-10-16.csv"
	)
	payload := []byte(",IncidentID\n0,231016001\n")

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, fmt.Sprintf("/upload/storage/v1/b/%s/o", bucket))
		assert.Equal(t, key, r.URL.Query().Get("name"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Contains(t, string(body), string(payload))
		assert.Contains(t, string(body), "text/csv")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"bucket":%q,"name":%q}`, bucket, key)
	})

	store, err := New(newTestClient(t, handler), Config{Bucket: bucket})
	require.NoError(t, err)

	uri, err := store.PutObject(context.Background(), key, "text/csv", payload)
	require.NoError(t, err)
	assert.Equal(t, "gs://"+bucket+"/"+key, uri)
}

func TestPutObjectRejectsEmptyPath(t *testing.T) {
	t.Parallel()

	store, err := New(newTestClient(t, http.NotFoundHandler()), Config{Bucket: "b"})
	require.NoError(t, err)

	_, err = store.PutObject(context.Background(), "  ", "text/csv", []byte("x"))
	assert.Error(t, err)
}

func TestPutObjectSurfacesServerError(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"denied"}}`, http.StatusForbidden)
	})
	store, err := New(newTestClient(t, handler), Config{Bucket: "b"})
	require.NoError(t, err)

	_, err = store.PutObject(context.Background(), "k.csv", "text/csv", []byte("x"))
	assert.Error(t, err)
}
