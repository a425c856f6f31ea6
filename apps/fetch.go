// SPDX-License-Identifier: MPL-2.0

package apps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const AppsPath = "/apps.json"

var (
	ErrTransport = errors.New("apps request failed")
	ErrDecode    = errors.New("failed to decode apps response")
)

// Outcomes passed to a Recorder.
const (
	OutcomeOK             = "ok"
	OutcomeNotOK          = "not_ok"
	OutcomeTransportError = "transport_error"
	OutcomeDecodeError    = "decode_error"
)

type Recorder interface {
	Observe(outcome string, d time.Duration)
}

type Config struct {
	// BaseURL is the origin /apps.json is resolved against, e.g. http://localhost:5454
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
	Recorder   Recorder
}

type Fetcher struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	recorder   Recorder
}

func NewFetcher(cfg Config) *Fetcher {
	f := &Fetcher{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
		recorder:   cfg.Recorder,
	}
	if f.httpClient == nil {
		f.httpClient = http.DefaultClient
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// FetchApps issues a single uncached GET for /apps.json and returns the
// decoded body. A response that is not ok yields an empty list and no error.
// Transport and decode failures are returned to the caller.
func (f *Fetcher) FetchApps(ctx context.Context) (any, error) {
	start := time.Now()
	result, outcome, err := f.fetch(ctx)
	if f.recorder != nil {
		f.recorder.Observe(outcome, time.Since(start))
	}
	return result, err
}

func (f *Fetcher) fetch(ctx context.Context) (any, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+AppsPath, nil)
	if err != nil {
		return nil, OutcomeTransportError, fmt.Errorf("%w: failed to build request: %w", ErrTransport, err)
	}
	setNoStore(req.Header)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, OutcomeTransportError, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if !ok(resp.StatusCode) {
		f.logger.DebugContext(ctx, "apps response not ok, using empty list",
			slog.String("url", req.URL.String()),
			slog.Int("status", resp.StatusCode),
		)
		return []any{}, OutcomeNotOK, nil
	}

	result, err := decode(resp.Body)
	if err != nil {
		return nil, OutcomeDecodeError, err
	}
	return result, OutcomeOK, nil
}

func setNoStore(h http.Header) {
	h.Set("Cache-Control", "no-store")
	h.Set("Pragma", "no-cache")
}

func ok(status int) bool {
	return status >= 200 && status <= 299
}

var utf8BOM = []byte("\xef\xbb\xbf")

// decode parses the whole body as exactly one JSON value. A leading UTF-8
// byte order mark is ignored.
func decode(r io.Reader) (any, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %w", ErrDecode, err)
	}
	body = bytes.TrimPrefix(body, utf8BOM)
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return v, nil
}
