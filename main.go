// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"appsfeed/comms"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

const (
	defaultOriginURL = "http://localhost:5454"
	defaultAddr      = ":5454"
	defaultAppsFile  = "./apps.json"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "err=%v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	rootFlags := ff.NewFlagSet("appsfeed")
	_ = rootFlags.StringLong("config", "", "path to config file")
	logLevel := rootFlags.StringLong("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd := &ff.Command{
		Name:  "appsfeed",
		Usage: "appsfeed <subcommand> [FLAGS]",
		Flags: rootFlags,
	}

	newLogger := func() (*slog.Logger, error) {
		var level slog.Level
		if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", *logLevel, err)
		}
		return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})), nil
	}

	// fetch subcommand
	fetchFlags := ff.NewFlagSet("fetch").SetParent(rootFlags)
	fetchURL := fetchFlags.String('u', "url", defaultOriginURL, "origin that serves /apps.json")
	fetchPretty := fetchFlags.BoolLong("pretty", "indent JSON output")
	fetchNarrow := fetchFlags.BoolLong("narrow", "decode the result into the typed apps list")
	fetchInterval := fetchFlags.DurationLong("interval", 0, "fetch repeatedly at this interval (0 fetches once)")
	fetchMetricsAddr := fetchFlags.StringLong("metrics-addr", "", "serve fetch metrics on this address")
	fetchPublish := fetchFlags.BoolLong("publish", "publish every result to NATS")
	fetchNatsURL := fetchFlags.StringLong("nats-url", "", "NATS server URL (default: embedded server)")
	fetchNatsToken := fetchFlags.StringLong("nats-token", "", "NATS authentication token")
	fetchSubject := fetchFlags.StringLong("subject", comms.DEFAULT_SUBJECT, "NATS subject to publish to")

	fetchCmd := &ff.Command{
		Name:      "fetch",
		Usage:     "appsfeed fetch [--url origin] [--pretty] [--narrow] [--publish]",
		ShortHelp: "fetch /apps.json from an origin and print it",
		Flags:     fetchFlags,
		Exec: func(ctx context.Context, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			return runFetch(ctx, fetchConfig{
				URL:         *fetchURL,
				Pretty:      *fetchPretty,
				Narrow:      *fetchNarrow,
				Interval:    *fetchInterval,
				MetricsAddr: *fetchMetricsAddr,
				Publish:     *fetchPublish,
				NatsURL:     *fetchNatsURL,
				NatsToken:   *fetchNatsToken,
				Subject:     *fetchSubject,
			}, stdout, logger)
		},
	}
	rootCmd.Subcommands = append(rootCmd.Subcommands, fetchCmd)

	// serve subcommand
	serveFlags := ff.NewFlagSet("serve").SetParent(rootFlags)
	serveAddr := serveFlags.String('a', "addr", defaultAddr, "address to listen on")
	serveFile := serveFlags.String('f', "file", defaultAppsFile, "JSON file served as /apps.json")

	serveCmd := &ff.Command{
		Name:      "serve",
		Usage:     "appsfeed serve [--addr :5454] [--file ./apps.json]",
		ShortHelp: "serve a local file as /apps.json without caching",
		Flags:     serveFlags,
		Exec: func(ctx context.Context, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			return runServe(ctx, serveConfig{Addr: *serveAddr, File: *serveFile}, logger)
		},
	}
	rootCmd.Subcommands = append(rootCmd.Subcommands, serveCmd)

	err := rootCmd.ParseAndRun(ctx, args,
		ff.WithEnvVarPrefix("APPSFEED"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
		ff.WithConfigIgnoreUndefinedFlags(),
	)
	if err != nil {
		selected := rootCmd.GetSelected()
		if selected == nil {
			selected = rootCmd
		}
		fmt.Fprintf(stderr, "%s\n", ffhelp.Command(selected))
		if errors.Is(err, ff.ErrHelp) {
			return nil
		}
		return err
	}
	return nil
}
