package lambda

import (
	"context"
	"encoding/json"

	"github.com/de-tools/spot-stats/pkg/services/workflow"
	"github.com/rs/zerolog"
)

// Runner is satisfied by *workflow.Runner.
type Runner interface {
	Run(ctx context.Context) (*workflow.RunSummary, error)
}

type Handler struct {
	runner Runner
	logger zerolog.Logger
}

func NewHandler(runner Runner, logger zerolog.Logger) *Handler {
	return &Handler{runner: runner, logger: logger}
}

// Handle runs one scheduled collection. The event payload carries no
// configuration and is ignored.
func (h *Handler) Handle(ctx context.Context, _ json.RawMessage) error {
	ctx = h.logger.WithContext(ctx)

	summary, err := h.runner.Run(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("spot pricing update failed")
		return err
	}

	h.logger.Info().
		Str("run_id", summary.ID).
		Strs("locations", summary.Locations).
		Int("records", summary.Records).
		Msg("spot pricing updated")
	return nil
}
