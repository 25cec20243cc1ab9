package elastic

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/orders/_settings", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "elastic" || pass != "changeme" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"orders-v2":{"settings":{"index":{"number_of_shards":"3","number_of_replicas":"1","uuid":"x1"}}}}`))
	})
	mux.HandleFunc("/orders/_mapping", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"orders-v2":{"mappings":{"properties":{"id":{"type":"long"}}}}}`))
	})
	mux.HandleFunc("/legacy/_mapping", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"legacy":{"mappings":{"_doc":{"properties":{"name":{"type":"keyword"}}}}}}`))
	})
	mux.HandleFunc("/missing/_settings", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"index_not_found_exception"},"status":404}`))
	})
	mux.HandleFunc("/slow/_settings", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		_, _ = w.Write([]byte(`{"slow":{"settings":{"index":{}}}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Settings(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(Config{URL: srv.URL + "/", Username: "elastic", Password: "changeme", TimeoutSeconds: 5})

	settings, err := client.Settings(context.Background(), "orders")
	require.NoError(t, err)
	assert.Equal(t, "3", settings["number_of_shards"])
	assert.Equal(t, "x1", settings["uuid"])
}

func TestClient_SettingsUnauthorized(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(Config{URL: srv.URL})

	_, err := client.Settings(context.Background(), "orders")
	assert.Error(t, err)
}

func TestClient_Mapping(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(Config{URL: srv.URL})

	mapping, err := client.Mapping(context.Background(), "orders")
	require.NoError(t, err)
	assert.Contains(t, mapping, "properties")

	legacy, err := client.Mapping(context.Background(), "legacy")
	require.NoError(t, err)
	props := legacy["properties"].(map[string]any)
	assert.Contains(t, props, "name")
}

func TestClient_IndexNotFound(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(Config{URL: srv.URL})

	_, err := client.Settings(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrIndexNotFound)
}

func TestClient_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(Config{URL: "http://127.0.0.1:1"}).Settings(ctx, "orders")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_ContextInterruptsRequest(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(Config{URL: srv.URL, TimeoutSeconds: 30})

	t.Run("canceled while waiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(50*time.Millisecond, cancel)

		start := time.Now()
		_, err := client.Settings(ctx, "slow")
		assert.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("deadline shortens the timeout", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := client.Settings(ctx, "slow")
		assert.Error(t, err)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("expired deadline", func(t *testing.T) {
		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()

		_, err := client.Settings(ctx, "slow")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
