package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/spot-stats/pkg/runtime/terminal/export"
	"github.com/de-tools/spot-stats/pkg/services/config"
	"github.com/de-tools/spot-stats/pkg/services/query"
	"github.com/de-tools/spot-stats/pkg/store/artifact"
	"github.com/spf13/cobra"
)

type QueryCmd struct {
	env    Env
	input  string
	fromS3 bool
	asJSON bool
	color  bool
	filter query.Filter
}

func NewQueryCmd(env Env) *cobra.Command {
	qc := &QueryCmd{env: env}
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Show the cheapest offers of an artifact matching the filters",
		Args:  cobra.NoArgs,
		RunE:  qc.run,
	}

	flags := cmd.Flags()
	flags.StringVarP(&qc.input, "input", "i", artifact.DefaultFileName, "Path of the artifact to read")
	flags.BoolVar(&qc.fromS3, "s3", false, "Read the artifact from the configured bucket instead of a local file")
	flags.BoolVar(&qc.asJSON, "json", false, "Print matching rows as JSON")
	flags.BoolVar(&qc.color, "color", false, "Color power values by class")
	flags.Float64Var(&qc.filter.MinMemoryGiB, "memory", 0, "Minimum memory in GiB")
	flags.IntVar(&qc.filter.MinVCPUs, "vcpus", 0, "Minimum number of vCPUs")
	flags.Float64Var(&qc.filter.MinMemoryPerVCPU, "memory-per-vcpu", 0, "Minimum GiB of memory per vCPU")
	flags.StringVarP(&qc.filter.InstanceType, "type", "t", "", "Instance type regular expression (case-insensitive)")
	flags.BoolVar(&qc.filter.CurrentGeneration, "current-gen", false, "Only current generation instance types")
	flags.StringVarP(&qc.filter.Region, "region", "r", "", "Region to show, all regions when empty")
	flags.StringVar(&qc.filter.Architecture, "arch", query.AnyArchitecture, "Architecture: arm64, x86_64 or any")
	flags.IntVarP(&qc.filter.Limit, "limit", "n", query.DefaultLimit, "Maximum number of rows")

	return cmd
}

func (qc *QueryCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	src, err := qc.source(cmd)
	if err != nil {
		return err
	}

	stats, err := artifact.Load(ctx, src)
	if err != nil {
		return err
	}

	rows, err := query.Apply(stats, qc.filter)
	if err != nil {
		return err
	}

	if qc.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	meta := query.Meta(stats, time.Now())
	tableConfig := export.DefaultTableConfig()
	tableConfig.Colors = qc.color
	return qc.env.Table.WithConfig(tableConfig).Render(rows, meta)
}

func (qc *QueryCmd) source(cmd *cobra.Command) (artifact.Source, error) {
	if !qc.fromS3 {
		return artifact.NewFile(qc.input), nil
	}

	cfg, err := config.Load(config.New(config.Scheduled), qc.env.configPath())
	if err != nil {
		return nil, err
	}

	client := qc.env.Deps.S3
	if client == nil {
		awsCfg, err := config.LoadAWSConfig(cmd.Context(), cfg.AWS)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client = s3.NewFromConfig(*awsCfg)
	}
	return artifact.NewObject(client, cfg.Output.Bucket, cfg.Output.Key), nil
}
