package artifact

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/de-tools/spot-stats/pkg/models/api"
)

const ContentType = "application/json"

// Sink persists an encoded artifact.
type Sink interface {
	Write(ctx context.Context, data []byte) error
	Location() string
}

// Source reads a previously persisted artifact.
type Source interface {
	Read(ctx context.Context) ([]byte, error)
	Location() string
}

func Encode(stats []api.SpotStat) ([]byte, error) {
	if stats == nil {
		stats = []api.SpotStat{}
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return nil, fmt.Errorf("failed to encode spot stats: %w", err)
	}
	return data, nil
}

func Decode(data []byte) ([]api.SpotStat, error) {
	var stats []api.SpotStat
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode spot stats: %w", err)
	}
	return stats, nil
}

// Load reads and decodes the artifact behind src.
func Load(ctx context.Context, src Source) ([]api.SpotStat, error) {
	data, err := src.Read(ctx)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
