// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"appsfeed/apps"
	"appsfeed/comms"
	"appsfeed/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

type fetchConfig struct {
	URL         string
	Pretty      bool
	Narrow      bool
	Interval    time.Duration
	MetricsAddr string
	Publish     bool
	NatsURL     string
	NatsToken   string
	Subject     string
}

type appsPublisher interface {
	PublishApps(ctx context.Context, subject string, v any) error
}

func runFetch(ctx context.Context, cfg fetchConfig, stdout io.Writer, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	fetcher := apps.NewFetcher(apps.Config{
		BaseURL:  cfg.URL,
		Logger:   logger.WithGroup("apps"),
		Recorder: metrics.NewFetchRecorder(reg),
	})

	var publisher appsPublisher
	if cfg.Publish {
		c, err := comms.New(comms.Config{
			URL:    cfg.NatsURL,
			Token:  cfg.NatsToken,
			Logger: logger.WithGroup("nats"),
		})
		if err != nil {
			return err
		}
		defer c.Close()
		publisher = c
	}

	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: metrics.Handler(reg)}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Error starting metrics server", slog.Any("error", err))
			}
		}()
		defer srv.Close()
		logger.Info("Serving fetch metrics", slog.String("addr", cfg.MetricsAddr))
	}

	if cfg.Interval <= 0 {
		return fetchOnce(ctx, fetcher, publisher, cfg, stdout)
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()
	for {
		if err := fetchOnce(ctx, fetcher, publisher, cfg, stdout); err != nil {
			logger.Error("Failed to fetch apps", slog.String("url", cfg.URL), slog.Any("error", err))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func fetchOnce(ctx context.Context, fetcher *apps.Fetcher, publisher appsPublisher, cfg fetchConfig, w io.Writer) error {
	result, err := fetcher.FetchApps(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch apps: %w", err)
	}
	if cfg.Narrow {
		list, err := apps.Narrow(result)
		if err != nil {
			return err
		}
		result = list
	}

	enc := json.NewEncoder(w)
	if cfg.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to write apps: %w", err)
	}

	if publisher != nil {
		if err := publisher.PublishApps(ctx, cfg.Subject, result); err != nil {
			return err
		}
	}
	return nil
}
