package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		places int
		want   float64
	}{
		{"representation noise", 160.00000000000003, 4, 160},
		{"truncates digits", 0.123449, 4, 0.1234},
		{"rounds up", 0.099249, 3, 0.099},
		{"tie goes to even down", 2.5, 0, 2},
		{"tie goes to even up", 3.5, 0, 4},
		{"negative", -1.23456, 2, -1.23},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Round(tt.value, tt.places))
		})
	}

	assert.True(t, math.IsNaN(Round(math.NaN(), 4)))
	assert.True(t, math.IsInf(Round(math.Inf(1), 4), 1))
}

func TestInstanceTypeSpec_Architecture(t *testing.T) {
	arm := InstanceTypeSpec{SupportedArchitectures: []string{"arm64"}}
	x86 := InstanceTypeSpec{SupportedArchitectures: []string{"i386", "x86_64"}}
	mac := InstanceTypeSpec{SupportedArchitectures: []string{"x86_64_mac"}}

	assert.Equal(t, ArchitectureARM64, arm.Architecture())
	assert.Equal(t, ArchitectureX86, x86.Architecture())
	assert.Equal(t, ArchitectureX86, mac.Architecture())
	assert.Equal(t, ArchitectureX86, InstanceTypeSpec{}.Architecture())
}

func TestInstanceTypeSpec_MemoryGiB(t *testing.T) {
	assert.Equal(t, 8.0, InstanceTypeSpec{MemoryMiB: 8192}.MemoryGiB())
	assert.Equal(t, 0.5, InstanceTypeSpec{MemoryMiB: 512}.MemoryGiB())
}

func TestEpochMillis(t *testing.T) {
	base := time.Unix(1700000000, 0)

	assert.Equal(t, int64(1700000000000), EpochMillis(base))
	assert.Equal(t, int64(1700000000001), EpochMillis(base.Add(1400*time.Microsecond)))
	assert.Equal(t, int64(1700000000002), EpochMillis(base.Add(1500*time.Microsecond)))
}
