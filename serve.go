// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"log/slog"

	"appsfeed/metrics"
	"appsfeed/util/signals"
	"appsfeed/web"

	"github.com/prometheus/client_golang/prometheus"
)

type serveConfig struct {
	Addr string
	File string
}

func runServe(ctx context.Context, cfg serveConfig, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	metrics.Init(reg)

	e, errs := web.Start(web.Config{
		Addr:     cfg.Addr,
		File:     cfg.File,
		Logger:   logger,
		Registry: reg,
	})

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	go func() {
		if err, ok := <-errs; ok {
			cancel(err)
		}
	}()

	signals.HandleInterrupt(ctx, func(ctx context.Context) {
		logger.Info("stopping web server...")
		if err := e.Shutdown(ctx); err != nil {
			logger.ErrorContext(ctx, "error stopping server", slog.Any("error", err))
		}
	})

	if err := context.Cause(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
