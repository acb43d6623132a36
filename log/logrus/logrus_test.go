package logrus

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/unkn0wn-root/varcache"
)

func TestLogrusLogger(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	l := LogrusLogger{E: logrus.NewEntry(base)}

	l.Debug("d", nil)
	l.Info("i", varcache.Fields{"key": "k"})
	l.Warn("w", nil)
	l.Error("e", varcache.Fields{logrus.ErrorKey: errors.New("boom")})

	entries := hook.AllEntries()
	if len(entries) != 4 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[1].Data["key"] != "k" || entries[1].Level != logrus.InfoLevel {
		t.Fatalf("info entry = %+v", entries[1])
	}
	last := hook.LastEntry()
	if last.Level != logrus.ErrorLevel || last.Message != "e" {
		t.Fatalf("error entry = %+v", last)
	}
	if err, _ := last.Data[logrus.ErrorKey].(error); err == nil || err.Error() != "boom" {
		t.Fatalf("error field = %v", last.Data[logrus.ErrorKey])
	}
}
