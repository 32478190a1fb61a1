// Package zap adapts go.uber.org/zap to the gridcache Logger.
package zap

import (
	"go.uber.org/zap"

	"github.com/unkn0wn-root/gridcache"
)

type Logger struct{ L *zap.Logger }

var _ gridcache.Logger = Logger{}

func (z Logger) Debug(msg string, f gridcache.Fields) { z.L.Debug(msg, fields(f)...) }
func (z Logger) Info(msg string, f gridcache.Fields)  { z.L.Info(msg, fields(f)...) }
func (z Logger) Warn(msg string, f gridcache.Fields)  { z.L.Warn(msg, fields(f)...) }
func (z Logger) Error(msg string, f gridcache.Fields) { z.L.Error(msg, fields(f)...) }

func fields(f gridcache.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		out = append(out, zap.Any(k, v))
	}
	return out
}
