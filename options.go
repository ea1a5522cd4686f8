package s3search

import (
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3search/metrics"
)

// DefaultPageSize is the number of objects requested per listing page.
const DefaultPageSize = 25

// Options holds the settings of a Searcher.
type Options struct {
	// PageSize is the MaxKeys of every listing request
	PageSize int32

	Logger  *slog.Logger
	Metrics *metrics.Metrics

	// RateLimit caps tag requests per second; zero disables pacing
	RateLimit float64

	// Client construction, used by New only
	Region         string
	Endpoint       string
	ForcePathStyle bool
	MaxRetries     int
	AWSConfig      *aws.Config
}

// Option configures a Searcher.
type Option func(*Options)

// WithPageSize sets the number of objects requested per listing page.
// Values outside 1..1000 are ignored.
func WithPageSize(size int) Option {
	return func(o *Options) {
		if size > 0 && size <= 1000 {
			o.PageSize = int32(size)
		}
	}
}

// WithLogger sets the logger for search progress. Page, fetch and match
// events are logged at debug level, the summary at info level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithMetrics records search activity in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Options) {
		o.Metrics = m
	}
}

// WithRateLimit paces tag requests to at most perSecond requests per second.
// Zero disables pacing.
func WithRateLimit(perSecond float64) Option {
	return func(o *Options) {
		if perSecond >= 0 {
			o.RateLimit = perSecond
		}
	}
}

// WithRegion sets the AWS region.
// If not specified, uses the region from the credential chain, then us-east-1.
func WithRegion(region string) Option {
	return func(o *Options) {
		o.Region = region
	}
}

// WithEndpoint sets a custom S3 endpoint URL.
// This is useful for S3-compatible services or local testing with LocalStack.
func WithEndpoint(endpoint string) Option {
	return func(o *Options) {
		o.Endpoint = endpoint
	}
}

// WithForcePathStyle forces path-style URLs instead of virtual-hosted style.
func WithForcePathStyle(forcePathStyle bool) Option {
	return func(o *Options) {
		o.ForcePathStyle = forcePathStyle
	}
}

// WithMaxRetries sets the maximum number of attempts of the SDK retryer.
// Zero keeps the SDK default.
func WithMaxRetries(maxRetries int) Option {
	return func(o *Options) {
		o.MaxRetries = maxRetries
	}
}

// WithAWSConfig provides a custom AWS configuration instead of loading the
// default credential chain.
func WithAWSConfig(cfg *aws.Config) Option {
	return func(o *Options) {
		o.AWSConfig = cfg
	}
}

func defaultOptions() Options {
	return Options{
		PageSize: DefaultPageSize,
	}
}
