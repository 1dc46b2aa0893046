package workflow

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/spot-stats/pkg/models/domain"
	"github.com/de-tools/spot-stats/pkg/services/config"
	"github.com/de-tools/spot-stats/pkg/services/pricing"
	"github.com/de-tools/spot-stats/pkg/store/artifact"
	"github.com/de-tools/spot-stats/pkg/store/client"
	"github.com/de-tools/spot-stats/pkg/store/sqlite"
	"github.com/de-tools/spot-stats/pkg/store/sqlite/history"
)

// Dependencies lets callers replace the AWS backed pieces, mostly in tests.
type Dependencies struct {
	Source pricing.Source
	S3     artifact.S3API
}

type Controller struct {
	Runner *Runner
	closer io.Closer
}

func (c *Controller) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// NewController wires a Runner for the variant from cfg. The one-shot variant
// writes the local file; the scheduled variant uploads to S3.
func NewController(
	ctx context.Context,
	cfg *config.Config,
	variant config.Variant,
	deps Dependencies,
	onRegionDone func(region domain.Region, records int),
) (*Controller, error) {
	if deps.Source == nil || (variant == config.Scheduled && deps.S3 == nil) {
		awsCfg, err := config.LoadAWSConfig(ctx, cfg.AWS)
		if err != nil {
			return nil, err
		}
		if deps.Source == nil {
			deps.Source = client.NewEC2Client(*awsCfg, client.EC2Settings{
				HomeRegion: cfg.AWS.Region,
				RateLimit:  cfg.Collector.RateLimit,
			})
		}
		if deps.S3 == nil {
			deps.S3 = s3.NewFromConfig(*awsCfg)
		}
	}

	policy := pricing.AbortOnError
	if cfg.Collector.SkipFailedRegions {
		policy = pricing.SkipFailedRegions
	}
	fleet := pricing.NewFleet(deps.Source, pricing.Settings{
		Concurrent:   cfg.Collector.Concurrent,
		Workers:      cfg.Collector.Workers,
		Policy:       policy,
		OnRegionDone: onRegionDone,
	})

	var sink artifact.Sink
	switch variant {
	case config.Scheduled:
		sink = artifact.NewObject(deps.S3, cfg.Output.Bucket, cfg.Output.Key)
	default:
		sink = artifact.NewFile(cfg.Output.Path)
	}

	ctrl := &Controller{}
	var opts []Option
	if cfg.History.Path != "" {
		db, err := sqlite.NewDB(ctx, sqlite.Settings{DbPath: cfg.History.Path})
		if err != nil {
			return nil, fmt.Errorf("failed to open history database: %w", err)
		}
		store, err := history.NewStore(db)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create history store: %w", err)
		}
		opts = append(opts, WithHistory(store))
		ctrl.closer = db
	}

	ctrl.Runner = NewRunner(fleet, []artifact.Sink{sink}, opts...)
	return ctrl, nil
}
