package usecase

import (
	"time"

	"github.com/m-mizutani/cadport/pkg/domain/interfaces"
	"github.com/m-mizutani/cadport/pkg/domain/model"
)

const (
	defaultMaxEntrySize = 64 << 20
	defaultSource       = "portal"
)

type options struct {
	now          func() time.Time
	metrics      interfaces.Metrics
	matchers     []interfaces.LinkMatcher
	maxEntrySize int64
	source       string
}

// Option is a functional option shared by the use case constructors
type Option func(*options)

// WithClock overrides the time source used for session and header timestamps
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithMetrics sets the outcome recorder
func WithMetrics(m interfaces.Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithMatchers sets the download-link strategies, evaluated in order
func WithMatchers(matchers ...interfaces.LinkMatcher) Option {
	return func(o *options) {
		o.matchers = matchers
	}
}

// WithMaxEntrySize caps the uncompressed size of a single archive entry
func WithMaxEntrySize(size int64) Option {
	return func(o *options) {
		if size > 0 {
			o.maxEntrySize = size
		}
	}
}

// WithSource sets the portal name reported in acquisition results
func WithSource(name string) Option {
	return func(o *options) {
		if name != "" {
			o.source = name
		}
	}
}

func buildOptions(opts []Option) *options {
	o := &options{
		now:          time.Now,
		metrics:      noopMetrics{},
		maxEntrySize: defaultMaxEntrySize,
		source:       defaultSource,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type noopMetrics struct{}

func (noopMetrics) ObserveAcquisition(string)  {}
func (noopMetrics) ObserveArtifact(model.Role) {}
func (noopMetrics) ObserveSearch(string)       {}
