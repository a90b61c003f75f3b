package health

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// HealthChecker is implemented by component-level checkers (store, scorer).
type HealthChecker interface {
	Name() string
	IsHealthy() bool
	Start(ctx context.Context, interval time.Duration)
}

// ServiceHealthChecker aggregates component checkers into a single service health flag.
// Components listed as optional are reported but never take the service down.
type ServiceHealthChecker struct {
	healthy  atomic.Int32
	deps     []HealthChecker
	optional map[string]bool
	log      zerolog.Logger
}

func NewServiceHealthChecker(log zerolog.Logger, deps ...HealthChecker) *ServiceHealthChecker {
	h := &ServiceHealthChecker{deps: deps, log: log, optional: map[string]bool{}}
	h.healthy.Store(0)
	return h
}

// Optional marks the named components as non-critical.
func (h *ServiceHealthChecker) Optional(names ...string) *ServiceHealthChecker {
	for _, n := range names {
		h.optional[n] = true
	}
	return h
}

// IsHealthy returns cached service health.
func (h *ServiceHealthChecker) IsHealthy() bool { return h.healthy.Load() == 1 }

// Components returns the current per-component status, keyed by checker name.
func (h *ServiceHealthChecker) Components() map[string]string {
	out := make(map[string]string, len(h.deps))
	for _, c := range h.deps {
		status := "down"
		if c.IsHealthy() {
			status = "up"
		}
		out[c.Name()] = status
	}
	return out
}

// Names lists the aggregated checkers in sorted order.
func (h *ServiceHealthChecker) Names() []string {
	names := make([]string, 0, len(h.deps))
	for _, c := range h.deps {
		names = append(names, c.Name())
	}
	sort.Strings(names)
	return names
}

// Start periodically evaluates dependency health and updates the service flag.
func (h *ServiceHealthChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prev := int32(0)
	eval := func() {
		all := true
		for _, c := range h.deps {
			if !c.IsHealthy() && !h.optional[c.Name()] {
				all = false
			}
		}
		if all {
			h.healthy.Store(1)
		} else {
			h.healthy.Store(0)
		}
		cur := h.healthy.Load()
		if cur != prev {
			if cur == 1 {
				h.log.Info().Msg("service health: UP")
			} else {
				h.log.Error().Stack().Interface("components", h.Components()).Msg("service health: DOWN")
			}
			prev = cur
		}
	}

	eval()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			eval()
		}
	}
}
