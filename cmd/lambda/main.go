package main

import (
	"context"
	"fmt"
	"os"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/de-tools/spot-stats/pkg/logging"
	"github.com/de-tools/spot-stats/pkg/runtime/lambda"
	"github.com/de-tools/spot-stats/pkg/services/config"
	"github.com/de-tools/spot-stats/pkg/services/workflow"
)

func main() {
	cfg, err := config.Load(config.New(config.Scheduled), os.Getenv("SPOTSTATS_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, _, err := logging.New(logging.Settings{Level: cfg.Log.Level}, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithContext(context.Background())
	ctrl, err := workflow.NewController(ctx, cfg, config.Scheduled, workflow.Dependencies{}, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize spot pricing collector")
	}
	defer ctrl.Close()

	handler := lambda.NewHandler(ctrl.Runner, logger)
	awslambda.Start(handler.Handle)
}
