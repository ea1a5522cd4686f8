// Package config loads the settings of a search run from the environment.
//
// The configuration is read once, validated as a whole and treated as
// immutable afterwards. Every validation failure is a configuration error
// (see errors.IsConfig); several failures are joined into one error.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sethvargo/go-envconfig"

	s3errors "github.com/input-output-hk/catalyst-forge-libs/aws/s3search/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3search/storage"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3search/tags"
)

// Storage client names accepted by STORAGE_CLIENT.
const (
	ClientAWS   = "aws"
	ClientMinio = "minio"
)

// Config is the environment of a search run.
type Config struct {
	// BucketName is the bucket to search
	BucketName string `env:"BUCKET_NAME"`

	// Tags is a multi-line key=value block
	Tags string `env:"TAGS"`

	// TagKey and TagValue are the single-tag form of the first release,
	// used only when Tags is empty
	TagKey   string `env:"TAG_KEY"`
	TagValue string `env:"TAG_VALUE"`

	// LatestOnly enables latest-only mode when it is exactly "true"
	LatestOnly string `env:"LATEST_ONLY"`

	Prefix   string `env:"PREFIX"`
	PageSize int    `env:"PAGE_SIZE, default=25"`

	StorageClient  string `env:"STORAGE_CLIENT, default=aws"`
	Endpoint       string `env:"S3_ENDPOINT"`
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE, default=false"`
	Region         string `env:"AWS_REGION"`

	// TagFetchRate caps tag requests per second, 0 is unlimited
	TagFetchRate float64 `env:"TAG_FETCH_RATE, default=0"`

	LogLevel    string `env:"LOG_LEVEL, default=info"`
	MetricsFile string `env:"METRICS_FILE"`
}

// Load reads the configuration through lookuper and validates it.
// Use Environment() for the process environment.
func Load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var c Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &c,
		Lookuper: lookuper,
	}); err != nil {
		return nil, &s3errors.Error{Op: "config", Kind: s3errors.ErrConfig, Err: err}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Environment looks settings up in the process environment. Variables set to
// the empty string count as unset, since workflow files pass absent inputs
// that way.
func Environment() envconfig.Lookuper {
	return nonEmptyLookuper{envconfig.OsLookuper()}
}

type nonEmptyLookuper struct {
	envconfig.Lookuper
}

func (l nonEmptyLookuper) Lookup(key string) (string, bool) {
	v, ok := l.Lookuper.Lookup(key)
	if v == "" {
		return "", false
	}
	return v, ok
}

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error

	if err := ValidateBucketName(c.BucketName); err != nil {
		errs = append(errs, err)
	}

	switch {
	case strings.TrimSpace(c.Tags) != "":
		if len(tags.Parse(c.Tags)) == 0 {
			errs = append(errs, s3errors.NewConfigError("TAGS", "must contain at least one key=value pair"))
		}
	case c.TagKey != "":
		if c.TagValue == "" {
			errs = append(errs, s3errors.NewConfigError("TAG_VALUE", "must not be empty when TAG_KEY is set"))
		}
	default:
		errs = append(errs, s3errors.NewConfigError("TAGS", "must not be empty"))
	}

	if c.PageSize < 1 || c.PageSize > storage.MaxPageSize {
		errs = append(errs, s3errors.NewConfigError("PAGE_SIZE",
			fmt.Sprintf("must be between 1 and %d, got %d", storage.MaxPageSize, c.PageSize)))
	}

	switch c.StorageClient {
	case ClientAWS:
	case ClientMinio:
		if c.Endpoint == "" {
			errs = append(errs, s3errors.NewConfigError("S3_ENDPOINT", "is required for the minio client"))
		}
	default:
		errs = append(errs, s3errors.NewConfigError("STORAGE_CLIENT",
			fmt.Sprintf("must be %q or %q, got %q", ClientAWS, ClientMinio, c.StorageClient)))
	}

	if c.TagFetchRate < 0 {
		errs = append(errs, s3errors.NewConfigError("TAG_FETCH_RATE", "must not be negative"))
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		errs = append(errs, s3errors.NewConfigError("LOG_LEVEL", err.Error()))
	}

	return errors.Join(errs...)
}

// Criteria returns the tag criteria, from TAGS or else from the legacy
// TAG_KEY/TAG_VALUE pair.
func (c *Config) Criteria() tags.Map {
	if strings.TrimSpace(c.Tags) != "" {
		return tags.Parse(c.Tags)
	}
	if c.TagKey != "" {
		return tags.Map{c.TagKey: c.TagValue}
	}
	return tags.Map{}
}

// Latest reports whether latest-only mode is enabled.
func (c *Config) Latest() bool {
	return c.LatestOnly == "true"
}

// Level returns the configured log level, info when it does not parse.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
