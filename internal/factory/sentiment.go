package factory

import (
	"github.com/rs/zerolog"

	"github.com/chillpill/chillpill/internal/config"
	"github.com/chillpill/chillpill/internal/sentiment"
	"github.com/chillpill/chillpill/internal/sentiment/subjectivity"
)

// NewClassifier builds the classifier and the remote scorer it calls. The
// scorer is returned so its breaker can be health-checked.
func NewClassifier(cfg *config.Config, log zerolog.Logger) (*sentiment.Classifier, *sentiment.RemoteScorer) {
	scorer := sentiment.NewRemoteScorer(sentiment.RemoteConfig{
		URL:             cfg.SentimentURL,
		Timeout:         cfg.SentimentTimeout(),
		BreakerFailures: cfg.BreakerFailures,
		BreakerCooldown: cfg.BreakerCooldown(),
	}, log)
	c := sentiment.NewClassifier(subjectivity.New(), scorer, log, sentiment.WithTimeout(cfg.SentimentTimeout()))
	return c, scorer
}
