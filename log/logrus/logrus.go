// Package logrus adapts sirupsen/logrus to the gridcache Logger.
package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/gridcache"
)

type Logger struct{ E *logrus.Entry }

var _ gridcache.Logger = Logger{}

func (l Logger) Debug(msg string, f gridcache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Debug(msg)
}

func (l Logger) Info(msg string, f gridcache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Info(msg)
}

func (l Logger) Warn(msg string, f gridcache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Warn(msg)
}

func (l Logger) Error(msg string, f gridcache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}
