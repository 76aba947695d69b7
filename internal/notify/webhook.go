package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"alpr-gate/internal/config"
	"alpr-gate/internal/domain/alpr"
	"alpr-gate/internal/registry"
)

const (
	FilterAll     = "all"
	FilterKnown   = "known"
	FilterUnknown = "unknown"

	MethodGET  = "GET"
	MethodPOST = "POST"
)

// Result reports the outcome of one dispatch attempt. Delivery is
// best-effort: the caller gets the outcome but nothing retries.
type Result struct {
	Delivered  bool
	StatusCode int
	Err        error
}

// Webhook decides per detection whether to notify and performs the
// outbound call. A slow or failing target can cost at most the client
// timeout per detection; it can never fail the pipeline.
type Webhook struct {
	url      string
	filter   string
	method   string
	registry *registry.Registry
	client   *http.Client
	log      zerolog.Logger
}

func NewWebhook(cfg config.WebhookConfig, reg *registry.Registry, log zerolog.Logger) *Webhook {
	return &Webhook{
		url:      cfg.URL,
		filter:   cfg.Filter,
		method:   cfg.Method,
		registry: reg,
		client:   &http.Client{Timeout: cfg.Timeout},
		log:      log,
	}
}

// Enabled reports whether a target URL is configured.
func (w *Webhook) Enabled() bool {
	return w.url != ""
}

// ShouldFire applies the filter policy to one plate. With no target URL
// it is always false, checked before anything else so a disabled
// dispatcher never touches the registry or the network.
func (w *Webhook) ShouldFire(plate string) bool {
	if w.url == "" {
		return false
	}

	_, known := w.registry.Lookup(plate)

	switch w.filter {
	case FilterAll:
		return true
	case FilterKnown:
		return known
	case FilterUnknown:
		return !known
	default:
		w.log.Warn().Str("filter", w.filter).Msg("unrecognized webhook filter, defaulting to all")
		return true
	}
}

// Dispatch performs the outbound call. GET sends a bare trigger with no
// body; POST sends the JSON event. Failures are logged with whatever
// detail is available and swallowed.
func (w *Webhook) Dispatch(ctx context.Context, ev alpr.Event) Result {
	var req *http.Request
	var err error

	if w.method == MethodGET {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, w.url, nil)
	} else {
		var body []byte
		body, err = json.Marshal(ev)
		if err == nil {
			req, err = http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
			if err == nil {
				req.Header.Set("Content-Type", "application/json")
			}
		}
	}
	if err != nil {
		w.log.Error().Err(err).Str("method", w.method).Str("url", w.url).Msg("webhook request build failed")
		return Result{Err: err}
	}

	resp, err := w.client.Do(req)
	if err != nil {
		w.log.Error().Err(err).Str("method", w.method).Str("url", w.url).Msg("webhook call failed")
		return Result{Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		w.log.Error().
			Str("method", w.method).
			Str("url", w.url).
			Int("status", resp.StatusCode).
			Str("reason", resp.Status).
			Msg("webhook returned non-success status")
		return Result{StatusCode: resp.StatusCode}
	}

	w.log.Info().
		Str("method", w.method).
		Str("url", w.url).
		Int("status", resp.StatusCode).
		Str("plate", ev.Plate).
		Msg("webhook delivered")
	return Result{Delivered: true, StatusCode: resp.StatusCode}
}
