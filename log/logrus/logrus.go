package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/varcache"
)

var _ varcache.Logger = LogrusLogger{}

// LogrusLogger adapts a *logrus.Entry. A nil E logs through the standard
// logrus logger.
type LogrusLogger struct{ E *logrus.Entry }

func (l LogrusLogger) Debug(msg string, f varcache.Fields) { l.with(f).Debug(msg) }
func (l LogrusLogger) Info(msg string, f varcache.Fields)  { l.with(f).Info(msg) }
func (l LogrusLogger) Warn(msg string, f varcache.Fields)  { l.with(f).Warn(msg) }
func (l LogrusLogger) Error(msg string, f varcache.Fields) { l.with(f).Error(msg) }

func (l LogrusLogger) with(f varcache.Fields) *logrus.Entry {
	e := l.E
	if e == nil {
		e = logrus.NewEntry(logrus.StandardLogger())
	}
	if len(f) == 0 {
		return e
	}
	// logrus formatters sort keys themselves
	return e.WithFields(logrus.Fields(f))
}
