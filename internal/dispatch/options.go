package dispatch

import (
	"log/slog"

	"github.com/DjordjeVuckovic/semtab-eval/internal/annotation"
	"github.com/DjordjeVuckovic/semtab-eval/internal/blob"
	"github.com/DjordjeVuckovic/semtab-eval/internal/scorer"
)

// Option configures a Dispatcher.
type Option func(*config)

type config struct {
	topK                int
	ignoreSubProperties bool
	ancestorPolicy      scorer.AncestorPolicy
	normalizer          annotation.Normalizer
	opener              blob.Opener
	logger              *slog.Logger
}

func defaultConfig() config {
	return config{
		topK:           scorer.DefaultTopK,
		ancestorPolicy: scorer.ExactOnlyPolicy(),
		normalizer:     annotation.DefaultNormalizer(),
		opener:         blob.FileOpener{},
		logger:         slog.Default(),
	}
}

// WithTopK sets how many ranked CEA guesses are checked (default: 1).
func WithTopK(k int) Option {
	return func(c *config) {
		if k > 0 {
			c.topK = k
		}
	}
}

// WithIgnoreSubProperties lets CPA accept documented sub-properties of the
// expected property.
func WithIgnoreSubProperties(enabled bool) Option {
	return func(c *config) {
		c.ignoreSubProperties = enabled
	}
}

// WithAncestorPolicy sets CTA partial credit (default: exact matches only).
func WithAncestorPolicy(p scorer.AncestorPolicy) Option {
	return func(c *config) {
		c.ancestorPolicy = p
	}
}

func WithNormalizer(n annotation.Normalizer) Option {
	return func(c *config) {
		c.normalizer = n
	}
}

// WithOpener sets how references are opened (default: local files).
func WithOpener(o blob.Opener) Option {
	return func(c *config) {
		if o != nil {
			c.opener = o
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
