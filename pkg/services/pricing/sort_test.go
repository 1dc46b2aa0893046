package pricing

import (
	"testing"

	"github.com/de-tools/spot-stats/pkg/models/domain"
	"github.com/stretchr/testify/assert"
)

func TestSortRecords(t *testing.T) {
	records := []domain.SpotRecord{
		{InstanceType: "c", DollarsPerHour: 0.05, Power: 0.1},
		{InstanceType: "a", DollarsPerHour: 0.01, Power: 0.1},
		{InstanceType: "d", DollarsPerHour: 0.05, Power: 0.6},
		{InstanceType: "b", DollarsPerHour: 0.03, Power: 0.2},
		{InstanceType: "e", DollarsPerHour: 0.05, Power: 0.1},
	}

	SortRecords(records)

	var order []string
	for _, r := range records {
		order = append(order, r.InstanceType)
	}
	// equal keys keep their input order
	assert.Equal(t, []string{"a", "b", "d", "c", "e"}, order)
}

func TestSortRecords_ComparesAtArtifactPrecision(t *testing.T) {
	// both prices publish as 0.0503, so the stronger offer must come first
	records := []domain.SpotRecord{
		{InstanceType: "weak", DollarsPerHour: 0.05031, Power: 0.1},
		{InstanceType: "strong", DollarsPerHour: 0.05034, Power: 0.2},
	}

	SortRecords(records)

	assert.Equal(t, "strong", records[0].InstanceType)
	assert.Equal(t, "weak", records[1].InstanceType)
}
