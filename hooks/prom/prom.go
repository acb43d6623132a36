// Package promhooks counts varcache hook events with Prometheus metrics.
package promhooks

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/unkn0wn-root/varcache"
)

type Hooks struct {
	decodeFailed  prometheus.Counter
	shapeRejected *prometheus.CounterVec
	evictBatches  prometheus.Counter
	evictDeleted  prometheus.Counter
	evictFailed   prometheus.Counter
}

var _ varcache.Hooks = (*Hooks)(nil)

// New registers the collectors on reg (prometheus.DefaultRegisterer when nil).
func New(reg prometheus.Registerer, namespace string) (*Hooks, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	h := &Hooks{
		decodeFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "varcache", Name: "decode_failed_total",
			Help: "Stored values that could not be decoded.",
		}),
		shapeRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "varcache", Name: "shape_rejected_total",
			Help: "Caller values rejected before reaching the store.",
		}, []string{"op"}),
		evictBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "varcache", Name: "evict_batches_total",
			Help: "Prefix eviction batches deleted.",
		}),
		evictDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "varcache", Name: "evict_keys_deleted_total",
			Help: "Keys deleted by prefix eviction.",
		}),
		evictFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "varcache", Name: "evict_failed_total",
			Help: "Prefix evictions that stopped on an error.",
		}),
	}
	for _, c := range []prometheus.Collector{h.decodeFailed, h.shapeRejected, h.evictBatches, h.evictDeleted, h.evictFailed} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (h *Hooks) DecodeFailed(string, error) { h.decodeFailed.Inc() }

func (h *Hooks) ShapeRejected(op, _ string, _ error) { h.shapeRejected.WithLabelValues(op).Inc() }

func (h *Hooks) EvictBatch(_ string, _ int, deleted int64) {
	h.evictBatches.Inc()
	h.evictDeleted.Add(float64(deleted))
}

func (h *Hooks) EvictFailed(string, int64, error) { h.evictFailed.Inc() }
