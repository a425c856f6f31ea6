// SPDX-License-Identifier: MPL-2.0

package comms

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestComms(t *testing.T) *Comms {
	t.Helper()
	c, err := New(Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestPublishApps(t *testing.T) {
	c := newTestComms(t)

	sub, err := c.Conn.SubscribeSync("apps.test")
	require.NoError(t, err)

	apps := []any{map[string]any{"id": "a1"}}
	require.NoError(t, c.PublishApps(context.Background(), "apps.test", apps))

	msg, err := sub.NextMsg(time.Second)
	require.NoError(t, err)

	var got any
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, apps, got)
}

func TestPublishAppsDefaultSubject(t *testing.T) {
	c := newTestComms(t)

	sub, err := c.Conn.SubscribeSync(DEFAULT_SUBJECT)
	require.NoError(t, err)

	require.NoError(t, c.PublishApps(context.Background(), "", []any{}))

	msg, err := sub.NextMsg(time.Second)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(msg.Data))
}

func TestPublishAppsUnencodable(t *testing.T) {
	c := newTestComms(t)

	err := c.PublishApps(context.Background(), "apps.test", map[string]any{"bad": make(chan int)})
	assert.ErrorContains(t, err, "failed to encode apps")
}

func TestNewWithUnreachableURL(t *testing.T) {
	_, err := New(Config{URL: "nats://127.0.0.1:1"})
	assert.ErrorContains(t, err, "failed to connect to nats")
}
