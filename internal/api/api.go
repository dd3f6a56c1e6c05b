// Package api wraps every remote call the storefront makes. Each method
// performs exactly one call and reports failures as a remote.Error inside a
// remote.Result, logging them once with the operation name.
package api

import (
	"io"

	"github.com/sirupsen/logrus"

	"bookstore-storefront/internal/remote"
)

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func orDiscard(logger *logrus.Logger) *logrus.Logger {
	if logger == nil {
		return discardLogger()
	}
	return logger
}

// finish turns a (value, error) pair into a Result and logs failures.
func finish[T any](logger *logrus.Logger, op string, v T, err error, fields logrus.Fields) remote.Result[T] {
	res := remote.From(op, v, err)
	if !res.IsOk() {
		logger.WithFields(fields).WithField("op", op).WithError(err).Error("remote call failed")
	}
	return res
}
