// SPDX-License-Identifier: MPL-2.0

package comms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

const (
	CONNECT_TIMEOUT = 10 * time.Second
	FLUSH_TIMEOUT   = 5 * time.Second
	DEFAULT_SUBJECT = "apps.list"
)

var ErrServerNotReady = errors.New("embedded nats server not ready")

type Config struct {
	// URL of a NATS server. When empty an in-process server is started.
	URL    string
	Token  string
	Logger *slog.Logger
}

type Comms struct {
	Conn   *nats.Conn
	Server *server.Server
	logger *slog.Logger
}

func New(cfg Config) (*Comms, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	clientOpts := []nats.Option{nats.Name("appsfeed")}
	if cfg.Token != "" {
		clientOpts = append(clientOpts, nats.Token(cfg.Token))
	}

	if cfg.URL != "" {
		nc, err := nats.Connect(cfg.URL, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to nats: %w", err)
		}
		return &Comms{Conn: nc, logger: cfg.Logger}, nil
	}

	opts := &server.Options{
		DontListen:    true,
		NoSigs:        true,
		Authorization: cfg.Token,
	}
	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create nats server: %w", err)
	}
	ns.SetLoggerV2(newNATSLogger(cfg.Logger), false, false, false)
	go ns.Start()
	if !ns.ReadyForConnections(CONNECT_TIMEOUT) {
		ns.Shutdown()
		return nil, ErrServerNotReady
	}
	clientOpts = append(clientOpts, nats.InProcessServer(ns))
	nc, err := nats.Connect(ns.ClientURL(), clientOpts...)
	if err != nil {
		ns.Shutdown()
		return nil, fmt.Errorf("failed to connect to embedded nats: %w", err)
	}
	return &Comms{Conn: nc, Server: ns, logger: cfg.Logger}, nil
}

// PublishApps sends the JSON encoding of v on subject and waits until the
// server has processed it.
func (c *Comms) PublishApps(ctx context.Context, subject string, v any) error {
	if subject == "" {
		subject = DEFAULT_SUBJECT
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode apps: %w", err)
	}
	if err := c.Conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish apps: %w", err)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, FLUSH_TIMEOUT)
		defer cancel()
	}
	if err := c.Conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush nats connection: %w", err)
	}
	c.logger.Debug("Published apps", slog.String("subject", subject), slog.Int("bytes", len(data)))
	return nil
}

func (c *Comms) Close() {
	c.Conn.Close()
	if c.Server != nil {
		c.Server.Shutdown()
		c.Server.WaitForShutdown()
	}
}
