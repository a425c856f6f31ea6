// SPDX-License-Identifier: MPL-2.0

package comms

import (
	"fmt"
	"log/slog"

	"github.com/nats-io/nats-server/v2/server"
)

// Routes embedded NATS server output through slog.
// Fatal errors are logged only; New reports startup failures as errors.
type natsLogger struct {
	logger *slog.Logger
}

func newNATSLogger(logger *slog.Logger) server.Logger {
	return &natsLogger{logger: logger}
}

func (n *natsLogger) Noticef(format string, v ...any) {
	n.logger.Debug(fmt.Sprintf(format, v...))
}

func (n *natsLogger) Warnf(format string, v ...any) {
	n.logger.Warn(fmt.Sprintf(format, v...))
}

func (n *natsLogger) Fatalf(format string, v ...any) {
	n.logger.Error(fmt.Sprintf(format, v...), slog.String("level", "fatal"))
}

func (n *natsLogger) Errorf(format string, v ...any) {
	n.logger.Error(fmt.Sprintf(format, v...))
}

func (n *natsLogger) Debugf(format string, v ...any) {
	n.logger.Debug(fmt.Sprintf(format, v...))
}

func (n *natsLogger) Tracef(format string, v ...any) {
	n.logger.Debug(fmt.Sprintf(format, v...), slog.String("level", "trace"))
}
