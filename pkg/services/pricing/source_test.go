package pricing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/de-tools/spot-stats/pkg/models/domain"
)

// fakeSource serves fixed catalogs and quotes per region.
type fakeSource struct {
	regions  []domain.Region
	catalogs map[domain.Region]domain.Catalog
	quotes   map[domain.Region][]domain.SpotPriceQuote
	failures map[domain.Region]error
	listErr  error
	delay    time.Duration

	mu          sync.Mutex
	fetched     []domain.Region
	inflight    int
	maxInflight int
}

func (s *fakeSource) ListRegions(_ context.Context) ([]domain.Region, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.regions, nil
}

func (s *fakeSource) FetchCatalog(ctx context.Context, region domain.Region) (domain.Catalog, error) {
	s.mu.Lock()
	s.inflight++
	s.maxInflight = max(s.maxInflight, s.inflight)
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inflight--
		s.mu.Unlock()
	}()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	s.fetched = append(s.fetched, region)
	s.mu.Unlock()

	if err := s.failures[region]; err != nil {
		return nil, err
	}
	return s.catalogs[region], nil
}

func (s *fakeSource) FetchSpotPrices(_ context.Context, region domain.Region) ([]domain.SpotPriceQuote, error) {
	return s.quotes[region], nil
}

var observedAt = time.Unix(1700000000, 0)

func catalogOf(specs ...domain.InstanceTypeSpec) domain.Catalog {
	catalog := make(domain.Catalog, len(specs))
	for _, spec := range specs {
		catalog[spec.InstanceType] = spec
	}
	return catalog
}

func quote(region domain.Region, zone, instanceType string, price float64) domain.SpotPriceQuote {
	return domain.SpotPriceQuote{
		InstanceType:     instanceType,
		Region:           region,
		AvailabilityZone: zone,
		DollarsPerHour:   price,
		ObservedAt:       observedAt,
	}
}

var (
	m5Large = domain.InstanceTypeSpec{
		InstanceType: "m5.large", CurrentGeneration: true,
		SupportedArchitectures: []string{"x86_64"}, DefaultVCPUs: 2, MemoryMiB: 8192,
	}
	c6gdXlarge = domain.InstanceTypeSpec{
		InstanceType: "c6gd.xlarge", CurrentGeneration: true,
		SupportedArchitectures: []string{"arm64"}, DefaultVCPUs: 4, MemoryMiB: 8192,
	}
	m5dnLarge = domain.InstanceTypeSpec{
		InstanceType: "m5dn.large", CurrentGeneration: true,
		SupportedArchitectures: []string{"x86_64"}, DefaultVCPUs: 2, MemoryMiB: 8192,
	}
	t2Micro = domain.InstanceTypeSpec{
		InstanceType: "t2.micro", CurrentGeneration: false,
		SupportedArchitectures: []string{"i386", "x86_64"}, DefaultVCPUs: 1, MemoryMiB: 1024,
	}
)

// fleetSource builds a source of n regions sharing one catalog with a few
// quotes each.
func fleetSource(n int) *fakeSource {
	src := &fakeSource{
		catalogs: map[domain.Region]domain.Catalog{},
		quotes:   map[domain.Region][]domain.SpotPriceQuote{},
	}
	for i := range n {
		region := domain.Region(fmt.Sprintf("region-%02d", i))
		src.regions = append(src.regions, region)
		src.catalogs[region] = catalogOf(m5Large, c6gdXlarge, m5dnLarge, t2Micro)
		src.quotes[region] = []domain.SpotPriceQuote{
			quote(region, string(region)+"a", "m5.large", 0.04+float64(i%5)*0.001),
			quote(region, string(region)+"b", "m5.large", 0.04+float64(i%3)*0.001),
			quote(region, string(region)+"a", "c6gd.xlarge", 0.05),
			quote(region, string(region)+"a", "m5dn.large", 0.05),
			quote(region, string(region)+"c", "t2.micro", 0.0035),
		}
	}
	return src
}
