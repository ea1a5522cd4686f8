package s3search

import (
	"context"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/time/rate"

	s3errors "github.com/input-output-hk/catalyst-forge-libs/aws/s3search/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3search/internal/fetch"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3search/storage"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3search/storage/awss3"
)

// Searcher finds objects by their tags. A Searcher holds no per-search
// state and may run several searches concurrently.
type Searcher struct {
	store   storage.Storage
	fetcher *fetch.Fetcher
	opts    Options
	logger  *slog.Logger
}

// New creates a Searcher backed by the AWS SDK. It loads credentials using
// the default credential chain unless WithAWSConfig is given.
//
// Example:
//
//	searcher, err := s3search.New(ctx,
//	    s3search.WithRegion("eu-central-1"),
//	    s3search.WithLogger(logger),
//	)
func New(ctx context.Context, opts ...Option) (*Searcher, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var cfg aws.Config
	if o.AWSConfig != nil {
		cfg = *o.AWSConfig
	} else {
		var err error
		cfg, err = config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, s3errors.NewBackendError("client initialization", "", "", err)
		}
	}

	if o.Region != "" {
		cfg.Region = o.Region
	} else if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	if o.MaxRetries > 0 {
		cfg.RetryMaxAttempts = o.MaxRetries
	}

	var s3Opts []func(*s3.Options)
	if o.ForcePathStyle {
		s3Opts = append(s3Opts, func(so *s3.Options) {
			so.UsePathStyle = true
		})
	}
	if o.Endpoint != "" {
		s3Opts = append(s3Opts, func(so *s3.Options) {
			so.BaseEndpoint = aws.String(o.Endpoint)
		})
	}

	return newSearcher(awss3.NewFromConfig(cfg, s3Opts...), o), nil
}

// NewWithStorage creates a Searcher over an existing storage implementation.
// Client construction options are ignored.
func NewWithStorage(store storage.Storage, opts ...Option) *Searcher {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newSearcher(store, o)
}

func newSearcher(store storage.Storage, o Options) *Searcher {
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	fetchOpts := []fetch.Option{fetch.WithLogger(logger)}
	if o.RateLimit > 0 {
		burst := int(o.RateLimit)
		if burst < 1 {
			burst = 1
		}
		fetchOpts = append(fetchOpts, fetch.WithLimiter(rate.NewLimiter(rate.Limit(o.RateLimit), burst)))
	}
	if o.Metrics != nil {
		fetchOpts = append(fetchOpts, fetch.WithObserver(o.Metrics))
	}

	return &Searcher{
		store:   store,
		fetcher: fetch.New(store, fetchOpts...),
		opts:    o,
		logger:  logger,
	}
}
