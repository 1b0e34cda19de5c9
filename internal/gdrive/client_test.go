package gdrive

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// newTestClient returns a Client pointed at srv, bypassing authentication.
func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()

	client, err := NewClient(context.Background(), AuthClient, Credentials{},
		WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return client
}

func TestAuthModeValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, AuthClient.Validate())
	require.NoError(t, AuthService.Validate())
	require.Error(t, AuthMode("oauth").Validate())
	require.Error(t, AuthMode("").Validate())
}

func TestFindNewest(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/files", r.URL.Path)

		q := r.URL.Query()
		require.Equal(t, "'folder-1' in parents and name = 'vehicle-1-sync.csv.zip' and trashed = false", q.Get("q"))
		require.Equal(t, "createdTime desc", q.Get("orderBy"))
		require.Equal(t, "1", q.Get("pageSize"))

		_ = json.NewEncoder(w).Encode(fileListResponse{Files: []File{
			{
				CreatedTime: time.Date(2024, 1, 15, 3, 0, 0, 0, time.UTC),
				ID:          "file-newest",
				Name:        "vehicle-1-sync.csv.zip",
			},
		}})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)

	file, err := client.FindNewest(context.Background(), "folder-1", "vehicle-1-sync.csv.zip")
	require.NoError(t, err)
	require.Equal(t, "file-newest", file.ID)
}

func TestFindNewestNoMatch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(fileListResponse{})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)

	file, err := client.FindNewest(context.Background(), "folder-1", "vehicle-9-sync.csv.zip")
	require.Error(t, err)
	require.Contains(t, err.Error(), `no file named "vehicle-9-sync.csv.zip"`)
	require.Nil(t, file)
}

func TestDownload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/files/file-1", r.URL.Path)
		require.Equal(t, "media", r.URL.Query().Get("alt"))

		_, _ = w.Write([]byte("archive-bytes"))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)

	data, err := client.Download(context.Background(), "file-1")
	require.NoError(t, err)
	require.Equal(t, []byte("archive-bytes"), data)
}

func TestDownloadError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)

	data, err := client.Download(context.Background(), "gone")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected status 404")
	require.Nil(t, data)
}
