package lambda

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/de-tools/spot-stats/pkg/services/workflow"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context) (*workflow.RunSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.RunSummary), args.Error(1)
}

func TestHandler_Handle(t *testing.T) {
	var logs bytes.Buffer
	runner := &mockRunner{}
	runner.On("Run", mock.MatchedBy(func(ctx context.Context) bool {
		return zerolog.Ctx(ctx).GetLevel() != zerolog.Disabled
	})).Return(&workflow.RunSummary{
		ID:        "run-1",
		Records:   42,
		Locations: []string{"s3://cpeccei-public/spot_pricing_stats.json"},
	}, nil).Once()

	h := NewHandler(runner, zerolog.New(&logs))
	require.NoError(t, h.Handle(context.Background(), json.RawMessage(`{"source":"aws.events"}`)))

	runner.AssertExpectations(t)
	assert.Contains(t, logs.String(), `"records":42`)
	assert.Contains(t, logs.String(), "s3://cpeccei-public/spot_pricing_stats.json")
}

func TestHandler_Handle_Failure(t *testing.T) {
	var logs bytes.Buffer
	runner := &mockRunner{}
	runner.On("Run", mock.Anything).Return(nil, errors.New("throttled")).Once()

	h := NewHandler(runner, zerolog.New(&logs))
	err := h.Handle(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, logs.String(), "spot pricing update failed")
}
