package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/chillpill/chillpill/internal/metrics"
)

// DefaultURL is the public text-processing sentiment endpoint.
const DefaultURL = "http://text-processing.com/api/sentiment/"

// ErrBadResponse reports a reply the scorer could not use.
var ErrBadResponse = errors.New("bad sentiment response")

// RemoteConfig configures a RemoteScorer.
type RemoteConfig struct {
	URL     string
	Timeout time.Duration
	// BreakerFailures consecutive failures open the breaker for BreakerCooldown.
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// RemoteScorer posts text to a sentiment web service behind a circuit breaker.
type RemoteScorer struct {
	client  *resty.Client
	url     string
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

type sentimentResponse struct {
	Probability struct {
		Pos *float64 `json:"pos"`
	} `json:"probability"`
}

func NewRemoteScorer(cfg RemoteConfig, log zerolog.Logger) *RemoteScorer {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = 30 * time.Second
	}
	log = log.With().Str("component", "remote_scorer").Logger()

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	failures := cfg.BreakerFailures
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "sentiment",
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.ScorerBreakerState.Set(float64(to))
		},
	})

	return &RemoteScorer{client: client, url: cfg.URL, breaker: breaker, log: log}
}

// Positive returns probability.pos from the service reply.
func (s *RemoteScorer) Positive(ctx context.Context, text string) (float64, error) {
	out, err := s.breaker.Execute(func() (interface{}, error) {
		return s.call(ctx, text)
	})
	if err != nil {
		return 0, err
	}
	return out.(float64), nil
}

// State exposes the breaker state for health reporting.
func (s *RemoteScorer) State() gobreaker.State { return s.breaker.State() }

func (s *RemoteScorer) call(ctx context.Context, text string) (float64, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{"text": text}).
		Post(s.url)
	if err != nil {
		return 0, fmt.Errorf("post sentiment: %w", err)
	}
	if !resp.IsSuccess() {
		return 0, fmt.Errorf("%w: status %d", ErrBadResponse, resp.StatusCode())
	}

	var body sentimentResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if body.Probability.Pos == nil {
		return 0, fmt.Errorf("%w: missing probability.pos", ErrBadResponse)
	}
	return *body.Probability.Pos, nil
}
