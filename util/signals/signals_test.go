// SPDX-License-Identifier: MPL-2.0

package signals

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleInterruptOnContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	HandleInterrupt(ctx, func(shutdownCtx context.Context) {
		called = true
		deadline, ok := shutdownCtx.Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(SHUTDOWN_TIMEOUT), deadline, time.Second)
		assert.NoError(t, shutdownCtx.Err())
	})
	assert.True(t, called)
}
