package pricing

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/de-tools/spot-stats/pkg/adapters"
	"github.com/de-tools/spot-stats/pkg/models/domain"
	"github.com/de-tools/spot-stats/pkg/store/artifact"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func assertOrdered(t *testing.T, records []domain.SpotRecord) {
	t.Helper()
	stats := adapters.MapSpotRecordsDomainToApi(records)
	for i := 1; i < len(stats); i++ {
		a, b := stats[i-1], stats[i]
		ok := a.DollarsPerHour < b.DollarsPerHour ||
			(a.DollarsPerHour == b.DollarsPerHour && a.Power >= b.Power)
		assert.True(t, ok, "record %d (%v) precedes record %d (%v)", i-1, a, i, b)
	}
}

func TestFleet_Collect_Sequential(t *testing.T) {
	src := fleetSource(3)
	var done []domain.Region

	report, err := NewFleet(src, Settings{
		OnRegionDone: func(region domain.Region, _ int) { done = append(done, region) },
	}).Collect(testContext(t))
	require.NoError(t, err)

	assert.Equal(t, src.regions, report.Regions)
	assert.Equal(t, src.regions, done)
	assert.Empty(t, report.Failed)
	assert.Len(t, report.Records, 3*5)
	assertOrdered(t, report.Records)

	// cheapest offer first
	assert.Equal(t, "t2.micro", report.Records[0].InstanceType)
}

func TestFleet_Collect_ConcurrentMatchesSequential(t *testing.T) {
	src := fleetSource(40)

	sequential, err := NewFleet(src, Settings{}).Collect(testContext(t))
	require.NoError(t, err)

	concurrent, err := NewFleet(src, Settings{Concurrent: true, Workers: 16}).Collect(testContext(t))
	require.NoError(t, err)

	assert.ElementsMatch(t, sequential.Records, concurrent.Records)
	// concatenation happens in region order, so even the order matches
	assert.Equal(t, sequential.Records, concurrent.Records)
	assertOrdered(t, concurrent.Records)
}

func TestFleet_Collect_WorkerBound(t *testing.T) {
	src := fleetSource(20)
	src.delay = 5 * time.Millisecond

	var done int
	report, err := NewFleet(src, Settings{
		Concurrent:   true,
		Workers:      4,
		OnRegionDone: func(domain.Region, int) { done++ },
	}).Collect(testContext(t))
	require.NoError(t, err)

	assert.Len(t, report.Records, 20*5)
	assert.Equal(t, 20, done)
	assert.LessOrEqual(t, src.maxInflight, 4)
	assert.GreaterOrEqual(t, src.maxInflight, 1)
}

func TestFleet_Collect_AbortOnError(t *testing.T) {
	for _, concurrent := range []bool{false, true} {
		src := fleetSource(10)
		failing := src.regions[4]
		src.failures = map[domain.Region]error{failing: errors.New("UnauthorizedOperation")}

		report, err := NewFleet(src, Settings{Concurrent: concurrent}).Collect(testContext(t))
		require.Error(t, err)
		assert.Nil(t, report)

		var regionErr *RegionError
		require.ErrorAs(t, err, &regionErr)
		assert.Equal(t, failing, regionErr.Region)
	}
}

func TestFleet_Collect_SequentialAbortStopsEarly(t *testing.T) {
	src := fleetSource(10)
	src.failures = map[domain.Region]error{src.regions[2]: errors.New("boom")}

	_, err := NewFleet(src, Settings{}).Collect(testContext(t))
	require.Error(t, err)
	assert.Equal(t, src.regions[:3], src.fetched)
}

func TestFleet_Collect_SkipFailedRegions(t *testing.T) {
	for _, concurrent := range []bool{false, true} {
		src := fleetSource(6)
		failing := src.regions[1]
		src.failures = map[domain.Region]error{failing: errors.New("boom")}

		report, err := NewFleet(src, Settings{Concurrent: concurrent, Policy: SkipFailedRegions}).Collect(testContext(t))
		require.NoError(t, err)

		require.Len(t, report.Failed, 1)
		assert.Equal(t, failing, report.Failed[0].Region)
		assert.Len(t, report.Records, 5*5)
		for _, record := range report.Records {
			assert.NotEqual(t, failing, record.Region)
		}
	}
}

func TestFleet_Collect_MissingCatalogEntryFailsRun(t *testing.T) {
	src := fleetSource(2)
	region := src.regions[1]
	src.quotes[region] = append(src.quotes[region], quote(region, "zone-b", "m7i.large", 0.02))

	_, err := NewFleet(src, Settings{Concurrent: true}).Collect(testContext(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownInstanceType)
}

func TestFleet_Collect_ListRegionsFailure(t *testing.T) {
	src := fleetSource(2)
	src.listErr = errors.New("AuthFailure")

	_, err := NewFleet(src, Settings{}).Collect(testContext(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AuthFailure")
	assert.Empty(t, src.fetched)
}

func TestFleet_Collect_Idempotent(t *testing.T) {
	encode := func(concurrent bool) []byte {
		report, err := NewFleet(fleetSource(12), Settings{Concurrent: concurrent}).Collect(testContext(t))
		require.NoError(t, err)
		data, err := artifact.Encode(adapters.MapSpotRecordsDomainToApi(report.Records))
		require.NoError(t, err)
		return data
	}

	first := encode(false)
	assert.True(t, bytes.Equal(first, encode(false)))
	assert.True(t, bytes.Equal(first, encode(true)))
}

func TestFleet_Collect_EndToEndExample(t *testing.T) {
	src := &fakeSource{
		regions:  []domain.Region{"us-west-1"},
		catalogs: map[domain.Region]domain.Catalog{"us-west-1": catalogOf(m5Large)},
		quotes: map[domain.Region][]domain.SpotPriceQuote{
			"us-west-1": {quote("us-west-1", "us-west-1a", "m5.large", 0.05)},
		},
	}

	report, err := NewFleet(src, Settings{}).Collect(testContext(t))
	require.NoError(t, err)
	require.Len(t, report.Records, 1)

	stat := adapters.MapSpotRecordDomainToApi(report.Records[0])
	assert.Equal(t, "m5.large", stat.InstanceType)
	assert.Equal(t, 0.05, stat.DollarsPerHour)
	assert.Equal(t, "us-west-1", stat.Region)
	assert.Equal(t, "us-west-1a", stat.AvailabilityZone)
	assert.True(t, stat.CurrentGeneration)
	assert.Equal(t, "x86_64", stat.Architecture)
	assert.Equal(t, 2, stat.VCPUs)
	assert.Equal(t, 8.0, stat.MemoryGiB)
	assert.Equal(t, int64(1700000000000), stat.LastUpdateEpochTimeMs)
	assert.Equal(t, 4.0, stat.MemoryGiBPerVCPU)
	assert.Equal(t, 160.0, stat.MemoryGiBPerDollar)
	assert.Equal(t, 40.0, stat.VCPUsPerDollar)
	assert.Equal(t, 0.0992, stat.Power)
}

func TestFleet_Collect_SkipFailedRegionsAllFail(t *testing.T) {
	for _, concurrent := range []bool{false, true} {
		src := fleetSource(3)
		src.failures = map[domain.Region]error{}
		for _, region := range src.regions {
			src.failures[region] = errors.New("UnauthorizedOperation")
		}

		report, err := NewFleet(src, Settings{Concurrent: concurrent, Policy: SkipFailedRegions}).Collect(testContext(t))
		require.Error(t, err)
		assert.Nil(t, report)
		assert.ErrorIs(t, err, ErrNoRegionCollected)

		var regionErr *RegionError
		require.ErrorAs(t, err, &regionErr)
		assert.Contains(t, err.Error(), "UnauthorizedOperation")
	}
}

func TestFleet_Collect_NoRegions(t *testing.T) {
	src := fleetSource(0)

	report, err := NewFleet(src, Settings{Policy: SkipFailedRegions}).Collect(testContext(t))
	require.NoError(t, err)
	assert.Empty(t, report.Records)
}
