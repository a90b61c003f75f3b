package sentiment

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerStater reports a circuit breaker state.
type BreakerStater interface {
	State() gobreaker.State
}

// ScorerHealthChecker reports the remote scorer down while its breaker is open.
// It never calls the service itself.
type ScorerHealthChecker struct {
	scorer  BreakerStater
	healthy atomic.Int32
}

func NewScorerHealthChecker(scorer BreakerStater) *ScorerHealthChecker {
	return &ScorerHealthChecker{scorer: scorer}
}

func (hc *ScorerHealthChecker) Name() string { return "scorer" }

func (hc *ScorerHealthChecker) IsHealthy() bool { return hc.healthy.Load() == 1 }

func (hc *ScorerHealthChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	hc.Check()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			hc.Check()
		}
	}
}

// Check samples the breaker state once.
func (hc *ScorerHealthChecker) Check() {
	if hc.scorer.State() == gobreaker.StateOpen {
		hc.healthy.Store(0)
		return
	}
	hc.healthy.Store(1)
}
