// Package logging carries a request-scoped logrus logger through context.
package logging

import (
	"context"

	"github.com/sirupsen/logrus"
)

type ctxKeyLog struct{}

// WithLogger returns a copy of ctx carrying log
func WithLogger(ctx context.Context, log logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, ctxKeyLog{}, log)
}

// FromContext returns the request logger, or the standard logger when none was attached
func FromContext(ctx context.Context) logrus.FieldLogger {
	if ctx != nil {
		if log, ok := ctx.Value(ctxKeyLog{}).(logrus.FieldLogger); ok {
			return log
		}
	}
	return logrus.StandardLogger()
}

// Setup configures the standard logger from a level name and format ("text" or "json")
func Setup(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)

	if format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
