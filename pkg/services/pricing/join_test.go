package pricing

import (
	"testing"

	"github.com/de-tools/spot-stats/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoin_DerivesMetrics(t *testing.T) {
	record, err := Join(quote("us-west-1", "us-west-1a", "m5.large", 0.05), catalogOf(m5Large))
	require.NoError(t, err)

	assert.Equal(t, "m5.large", record.InstanceType)
	assert.Equal(t, domain.Region("us-west-1"), record.Region)
	assert.Equal(t, "us-west-1a", record.AvailabilityZone)
	assert.True(t, record.CurrentGeneration)
	assert.Equal(t, domain.ArchitectureX86, record.Architecture)
	assert.Equal(t, 2, record.VCPUs)
	assert.Equal(t, 8.0, record.MemoryGiB)
	assert.Equal(t, 4.0, record.MemoryGiBPerVCPU)
	assert.InDelta(t, 160.0, record.MemoryGiBPerDollar, 1e-9)
	assert.InDelta(t, 40.0, record.VCPUsPerDollar, 1e-9)
	assert.Equal(t, int64(1700000000000), record.LastUpdateEpochTimeMs)
}

func TestJoin_ArchitecturePrefersARM(t *testing.T) {
	multi := domain.InstanceTypeSpec{
		InstanceType: "a1.large", SupportedArchitectures: []string{"x86_64", "arm64"},
		DefaultVCPUs: 2, MemoryMiB: 4096,
	}
	record, err := Join(quote("us-east-1", "us-east-1a", "a1.large", 0.02), catalogOf(multi, t2Micro))
	require.NoError(t, err)
	assert.Equal(t, domain.ArchitectureARM64, record.Architecture)

	record, err = Join(quote("us-east-1", "us-east-1a", "t2.micro", 0.003), catalogOf(multi, t2Micro))
	require.NoError(t, err)
	assert.Equal(t, domain.ArchitectureX86, record.Architecture)
}

func TestJoin_UnknownInstanceType(t *testing.T) {
	_, err := Join(quote("us-west-1", "us-west-1a", "m7i.large", 0.05), catalogOf(m5Large))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownInstanceType)
	assert.Contains(t, err.Error(), "m7i.large")
}
