// Package main implements the s3search GitHub Action.
//
// It reads its settings from the environment, searches the bucket for
// objects carrying the requested tags and sets the "objects" step output to
// a JSON array of their keys. On failure the output is an empty array, an
// error annotation is emitted and the process exits with status 1.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/sethvargo/go-envconfig"
	"github.com/sethvargo/go-githubactions"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3search"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3search/config"
	s3errors "github.com/input-output-hk/catalyst-forge-libs/aws/s3search/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3search/internal/action"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3search/metrics"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3search/storage/minio"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	reporter := action.NewReporter(githubactions.New())
	err := run(ctx, config.Environment(), reporter, os.Stderr, newSearcher)
	stop()

	if err != nil {
		reporter.Fail(err)
		os.Exit(1)
	}
}

// searcherFactory builds the searcher for a validated configuration.
type searcherFactory func(ctx context.Context, cfg *config.Config, opts ...s3search.Option) (*s3search.Searcher, error)

func run(
	ctx context.Context,
	lookuper envconfig.Lookuper,
	reporter *action.Reporter,
	logOut io.Writer,
	factory searcherFactory,
) error {
	cfg, err := config.Load(ctx, lookuper)
	if err != nil {
		slog.New(slog.NewTextHandler(logOut, nil)).ErrorContext(ctx, "invalid configuration",
			"error", err,
			"code", s3errors.Code(err))
		return err
	}

	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: cfg.Level()})).
		With("run_id", uuid.NewString())

	m := metrics.New()
	if cfg.MetricsFile != "" {
		defer func() {
			if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
				logger.WarnContext(ctx, "failed to write metrics", "path", cfg.MetricsFile, "error", err)
			}
		}()
	}

	searcher, err := factory(ctx, cfg,
		s3search.WithPageSize(cfg.PageSize),
		s3search.WithLogger(logger),
		s3search.WithMetrics(m),
		s3search.WithRateLimit(cfg.TagFetchRate),
	)
	if err != nil {
		logger.ErrorContext(ctx, "failed to create storage client", "error", err)
		return err
	}

	logger.InfoContext(ctx, "searching bucket",
		"bucket", cfg.BucketName,
		"prefix", cfg.Prefix,
		"tags", cfg.Criteria().String(),
		"latest_only", cfg.Latest(),
		"storage_client", cfg.StorageClient)

	keys, err := searcher.Search(ctx, cfg.BucketName, s3search.Criteria{
		Tags:       cfg.Criteria(),
		LatestOnly: cfg.Latest(),
		Prefix:     cfg.Prefix,
	})
	if err != nil {
		logger.ErrorContext(ctx, "search failed",
			"bucket", cfg.BucketName,
			"error", err,
			"code", s3errors.Code(err))
		return err
	}

	return reporter.Succeed(keys)
}

func newSearcher(ctx context.Context, cfg *config.Config, opts ...s3search.Option) (*s3search.Searcher, error) {
	switch cfg.StorageClient {
	case config.ClientMinio:
		store, err := minio.NewFromEndpoint(cfg.Endpoint, cfg.Region)
		if err != nil {
			return nil, err
		}
		return s3search.NewWithStorage(store, opts...), nil
	default:
		opts = append(opts,
			s3search.WithRegion(cfg.Region),
			s3search.WithEndpoint(cfg.Endpoint),
			s3search.WithForcePathStyle(cfg.ForcePathStyle),
		)
		return s3search.New(ctx, opts...)
	}
}
