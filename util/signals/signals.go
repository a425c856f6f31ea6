// SPDX-License-Identifier: MPL-2.0

package signals

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const SHUTDOWN_TIMEOUT = 10 * time.Second

// HandleInterrupt blocks until ctx is done or SIGINT/SIGTERM arrives, then
// calls onInterrupt with a context bounded by SHUTDOWN_TIMEOUT.
func HandleInterrupt(ctx context.Context, onInterrupt func(context.Context)) {
	ctx, stopInterruptNotify := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stopInterruptNotify()
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
	defer cancel()
	onInterrupt(shutdownCtx)
}
