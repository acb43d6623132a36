package zap

import (
	"sort"

	"github.com/unkn0wn-root/varcache"
	"go.uber.org/zap"
)

var _ varcache.Logger = ZapLogger{}

// ZapLogger adapts a *zap.Logger. A nil L discards everything.
type ZapLogger struct{ L *zap.Logger }

func (z ZapLogger) Debug(msg string, f varcache.Fields) { z.l().Debug(msg, zf(f)...) }
func (z ZapLogger) Info(msg string, f varcache.Fields)  { z.l().Info(msg, zf(f)...) }
func (z ZapLogger) Warn(msg string, f varcache.Fields)  { z.l().Warn(msg, zf(f)...) }
func (z ZapLogger) Error(msg string, f varcache.Fields) { z.l().Error(msg, zf(f)...) }

func (z ZapLogger) l() *zap.Logger {
	if z.L == nil {
		return zap.NewNop()
	}
	return z.L
}

// zf emits fields in key order so log lines are stable.
func zf(f varcache.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(f))
	for _, k := range keys {
		if err, ok := f[k].(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, f[k]))
	}
	return out
}
