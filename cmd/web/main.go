package main

import (
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/spot-stats/pkg/logging"
	"github.com/de-tools/spot-stats/pkg/server"
	"github.com/de-tools/spot-stats/pkg/services/config"
	"github.com/de-tools/spot-stats/pkg/store/artifact"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	fromS3  bool
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Serve spot pricing stats over HTTP",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to a config file")
	rootCmd.Flags().BoolVar(&fromS3, "s3", false, "Serve the artifact stored in the configured bucket")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load(config.New(config.OneShot), cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer, err := logging.New(logging.Settings{Level: cfg.Log.Level, File: cfg.Log.File}, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer closer.Close()
	ctx := logger.WithContext(cmd.Context())

	var source artifact.Source = artifact.NewFile(cfg.Output.Path)
	if fromS3 {
		awsCfg, err := config.LoadAWSConfig(ctx, cfg.AWS)
		if err != nil {
			return fmt.Errorf("failed to load AWS config: %w", err)
		}
		source = artifact.NewObject(s3.NewFromConfig(*awsCfg), cfg.Output.Bucket, cfg.Output.Key)
	}
	logger.Info().Msgf("Serving spot pricing stats from `%s`", source.Location())

	api := server.NewWebAPI(server.Config{
		Addr:            cfg.Server.Addr,
		ShutdownTimeout: 10 * time.Second,
		Dependencies: server.Dependencies{
			Stats:  source,
			Logger: logger,
		},
	})

	return api.Start()
}
