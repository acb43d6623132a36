package varcache

import "time"

const (
	// DefaultEvictBatchSize bounds the keys deleted by one server-side script.
	DefaultEvictBatchSize = 5000
	defaultScanCount      = 1000
)

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// Clock supplies the current time for client-side expiry computation.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
