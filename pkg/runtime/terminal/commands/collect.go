package commands

import (
	"fmt"

	"github.com/de-tools/spot-stats/pkg/logging"
	"github.com/de-tools/spot-stats/pkg/services/config"
	"github.com/de-tools/spot-stats/pkg/services/pricing"
	"github.com/de-tools/spot-stats/pkg/services/workflow"
	"github.com/spf13/cobra"
)

// flag name -> config key
var collectFlagKeys = map[string]string{
	"output":      "output.path",
	"concurrent":  "collector.concurrent",
	"workers":     "collector.workers",
	"skip-failed": "collector.skip_failed_regions",
	"rate-limit":  "collector.rate_limit",
	"history":     "history.path",
	"profile":     "aws.profile",
	"log-level":   "log.level",
}

// AddCollectFlags registers the collection flags. The root command carries
// them too since it runs a collection when called without a subcommand.
func AddCollectFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP("output", "o", "stats.json", "Path of the artifact written by the run")
	flags.Bool("concurrent", false, "Collect regions concurrently")
	flags.Int("workers", pricing.DefaultWorkers, "Number of concurrent region workers")
	flags.Bool("skip-failed", false, "Leave out regions that fail instead of aborting the run")
	flags.Float64("rate-limit", 0, "Maximum EC2 requests per second per region, 0 for no limit")
	flags.String("history", "", "Path of a sqlite database recording every run")
	flags.String("profile", "", "AWS shared config profile")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
}

func NewCollectCmd(env Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect spot prices of every region and write the artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCollect(cmd, env)
		},
	}
	AddCollectFlags(cmd)
	return cmd
}

func runCollect(cmd *cobra.Command, env Env) error {
	v := config.New(config.OneShot)
	for flag, key := range collectFlagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}

	cfg, err := config.Load(v, env.configPath())
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(logging.Settings{Level: cfg.Log.Level, File: cfg.Log.File}, env.Logs)
	if err != nil {
		return err
	}
	defer closer.Close()
	ctx := logger.WithContext(cmd.Context())

	ctrl, err := workflow.NewController(ctx, cfg, config.OneShot, env.Deps, env.Progress.RegionDone)
	if err != nil {
		return fmt.Errorf("failed to set up collection: %w", err)
	}
	defer ctrl.Close()

	if _, err := ctrl.Runner.Run(ctx); err != nil {
		return err
	}
	return nil
}
