package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alpr-gate/internal/config"
	"alpr-gate/internal/domain/alpr"
	"alpr-gate/internal/registry"
)

func testRegistry(t *testing.T, plates string) *registry.Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plates.json")
	require.NoError(t, os.WriteFile(path, []byte(plates), 0o644))
	return registry.Load(path, "", zerolog.Nop())
}

func newTestWebhook(url, filter, method string, reg *registry.Registry) *Webhook {
	return NewWebhook(config.WebhookConfig{
		URL:     url,
		Filter:  filter,
		Method:  method,
		Timeout: 2 * time.Second,
	}, reg, zerolog.Nop())
}

func TestShouldFireFilterMatrix(t *testing.T) {
	reg := testRegistry(t, `{"KNOWN1": {}}`)

	tests := []struct {
		name   string
		filter string
		plate  string
		want   bool
	}{
		{"all fires for known", FilterAll, "known1", true},
		{"all fires for unknown", FilterAll, "STRANGER", true},
		{"known fires for known any case", FilterKnown, "kNoWn1", true},
		{"known skips unknown", FilterKnown, "STRANGER", false},
		{"unknown skips known", FilterUnknown, "KNOWN1", false},
		{"unknown fires for unknown", FilterUnknown, "STRANGER", true},
		{"unrecognized filter defaults to all", "sometimes", "STRANGER", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWebhook("http://example.com/hook", tt.filter, MethodPOST, reg)
			assert.Equal(t, tt.want, w.ShouldFire(tt.plate))
		})
	}
}

func TestShouldFireAlwaysFalseWithoutURL(t *testing.T) {
	reg := testRegistry(t, `{"KNOWN1": {}}`)

	for _, filter := range []string{FilterAll, FilterKnown, FilterUnknown, "bogus"} {
		w := newTestWebhook("", filter, MethodPOST, reg)
		assert.False(t, w.ShouldFire("KNOWN1"), "filter %q", filter)
		assert.False(t, w.ShouldFire("STRANGER"), "filter %q", filter)
		assert.False(t, w.Enabled())
	}
}

func TestDispatchPostSendsJSONEvent(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reg := testRegistry(t, `{}`)
	w := newTestWebhook(srv.URL, FilterAll, MethodPOST, reg)

	res := w.Dispatch(context.Background(), alpr.Event{
		Plate:      "XYZ789",
		Confidence: 77.25,
		Timestamp:  "2026-08-23T10:00:00Z",
		Filename:   "cam1.jpg",
		Known:      true,
		Metadata:   alpr.Metadata{"owner": "Jane"},
	})

	require.True(t, res.Delivered)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", gotContentType)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	assert.Equal(t, "XYZ789", payload["plate"])
	assert.Equal(t, 77.25, payload["confidence"])
	assert.Equal(t, "cam1.jpg", payload["filename"])
	assert.Equal(t, true, payload["known"])
	assert.Equal(t, map[string]interface{}{"owner": "Jane"}, payload["metadata"])
	assert.NotEmpty(t, payload["timestamp"])
}

func TestDispatchGetSendsNoBody(t *testing.T) {
	var gotMethod string
	var gotLen int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotLen = r.ContentLength
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reg := testRegistry(t, `{}`)
	w := newTestWebhook(srv.URL, FilterAll, MethodGET, reg)

	res := w.Dispatch(context.Background(), alpr.Event{Plate: "ABC123"})

	require.True(t, res.Delivered)
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.LessOrEqual(t, gotLen, int64(0))
}

func TestDispatchNonSuccessStatusIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	reg := testRegistry(t, `{}`)
	w := newTestWebhook(srv.URL, FilterAll, MethodPOST, reg)

	res := w.Dispatch(context.Background(), alpr.Event{Plate: "ABC123", Metadata: alpr.Metadata{}})
	assert.False(t, res.Delivered)
	assert.Equal(t, http.StatusBadGateway, res.StatusCode)
	assert.NoError(t, res.Err)
}

func TestDispatchTransportErrorIsSwallowed(t *testing.T) {
	reg := testRegistry(t, `{}`)
	// Port reserved by a closed listener: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	w := newTestWebhook(url, FilterAll, MethodPOST, reg)
	res := w.Dispatch(context.Background(), alpr.Event{Plate: "ABC123", Metadata: alpr.Metadata{}})

	assert.False(t, res.Delivered)
	assert.Error(t, res.Err)
}
