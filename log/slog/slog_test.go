package slog

import (
	"bytes"
	stdslog "log/slog"
	"strings"
	"testing"

	"github.com/unkn0wn-root/varcache"
)

func TestSlogLoggerSortedAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := stdslog.NewTextHandler(&buf, &stdslog.HandlerOptions{
		Level: stdslog.LevelDebug,
		ReplaceAttr: func(_ []string, a stdslog.Attr) stdslog.Attr {
			if a.Key == stdslog.TimeKey {
				return stdslog.Attr{}
			}
			return a
		},
	})
	l := Logger{L: stdslog.New(h)}

	l.Debug("batch", varcache.Fields{"prefix": "s:", "deleted": 3, "batch": 1})
	l.Warn("plain", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	if want := `level=DEBUG msg=batch batch=1 deleted=3 prefix=s:`; lines[0] != want {
		t.Fatalf("line = %q want %q", lines[0], want)
	}
	if want := `level=WARN msg=plain`; lines[1] != want {
		t.Fatalf("line = %q want %q", lines[1], want)
	}
}
