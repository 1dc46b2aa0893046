package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/de-tools/spot-stats/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// EC2API is the part of *ec2.Client used to collect spot prices.
type EC2API interface {
	DescribeRegions(ctx context.Context, params *ec2.DescribeRegionsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error)
	DescribeInstanceTypes(ctx context.Context, params *ec2.DescribeInstanceTypesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstanceTypesOutput, error)
	DescribeSpotPriceHistory(ctx context.Context, params *ec2.DescribeSpotPriceHistoryInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSpotPriceHistoryOutput, error)
}

// EC2Factory builds an API client bound to one region.
type EC2Factory func(region string) EC2API

type EC2Client struct {
	homeRegion string
	factory    EC2Factory
	now        func() time.Time

	mu      sync.Mutex
	clients map[string]EC2API
}

type EC2Settings struct {
	// HomeRegion is queried for the region list.
	HomeRegion string
	// RateLimit caps requests per second per region, 0 disables it.
	RateLimit float64
}

func NewEC2Client(cfg aws.Config, settings EC2Settings) *EC2Client {
	factory := func(region string) EC2API {
		var api EC2API = ec2.NewFromConfig(cfg, func(o *ec2.Options) {
			o.Region = region
		})
		if settings.RateLimit > 0 {
			api = newRateLimitedEC2(api, settings.RateLimit)
		}
		return api
	}
	return NewEC2ClientWithFactory(settings.HomeRegion, factory, time.Now)
}

func NewEC2ClientWithFactory(homeRegion string, factory EC2Factory, now func() time.Time) *EC2Client {
	if now == nil {
		now = time.Now
	}
	return &EC2Client{
		homeRegion: homeRegion,
		factory:    factory,
		now:        now,
		clients:    make(map[string]EC2API),
	}
}

func (c *EC2Client) api(region string) EC2API {
	c.mu.Lock()
	defer c.mu.Unlock()

	api, ok := c.clients[region]
	if !ok {
		api = c.factory(region)
		c.clients[region] = api
	}
	return api
}

func (c *EC2Client) ListRegions(ctx context.Context) ([]domain.Region, error) {
	resp, err := c.api(c.homeRegion).DescribeRegions(ctx, &ec2.DescribeRegionsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to describe regions: %w", err)
	}

	regions := make([]domain.Region, 0, len(resp.Regions))
	for _, region := range resp.Regions {
		regions = append(regions, domain.Region(aws.ToString(region.RegionName)))
	}
	return regions, nil
}

func (c *EC2Client) FetchCatalog(ctx context.Context, region domain.Region) (domain.Catalog, error) {
	logger := zerolog.Ctx(ctx)

	catalog := make(domain.Catalog)
	pages := 0
	paginator := ec2.NewDescribeInstanceTypesPaginator(c.api(string(region)), &ec2.DescribeInstanceTypesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe instance types in %s: %w", region, err)
		}
		pages++
		for _, info := range page.InstanceTypes {
			spec := mapInstanceTypeInfo(info)
			catalog[spec.InstanceType] = spec
		}
	}

	logger.Debug().Str("region", string(region)).Int("pages", pages).Msg("instance types fetched")
	return catalog, nil
}

// FetchSpotPrices returns the current Linux spot prices of a region. All
// quotes carry the time captured right before the first request.
func (c *EC2Client) FetchSpotPrices(ctx context.Context, region domain.Region) ([]domain.SpotPriceQuote, error) {
	logger := zerolog.Ctx(ctx)

	now := c.now()
	paginator := ec2.NewDescribeSpotPriceHistoryPaginator(c.api(string(region)), &ec2.DescribeSpotPriceHistoryInput{
		StartTime:           aws.Time(now),
		ProductDescriptions: []string{domain.LinuxProduct},
	})

	var quotes []domain.SpotPriceQuote
	pages := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe spot price history in %s: %w", region, err)
		}
		pages++
		for _, price := range page.SpotPriceHistory {
			quote, err := mapSpotPrice(region, now, price)
			if err != nil {
				return nil, err
			}
			quotes = append(quotes, quote)
		}
	}

	logger.Debug().Str("region", string(region)).Int("pages", pages).Int("quotes", len(quotes)).Msg("spot prices fetched")
	return quotes, nil
}

func mapInstanceTypeInfo(info types.InstanceTypeInfo) domain.InstanceTypeSpec {
	spec := domain.InstanceTypeSpec{
		InstanceType:      string(info.InstanceType),
		CurrentGeneration: aws.ToBool(info.CurrentGeneration),
	}
	if info.ProcessorInfo != nil {
		for _, arch := range info.ProcessorInfo.SupportedArchitectures {
			spec.SupportedArchitectures = append(spec.SupportedArchitectures, string(arch))
		}
	}
	if info.VCpuInfo != nil {
		spec.DefaultVCPUs = int(aws.ToInt32(info.VCpuInfo.DefaultVCpus))
	}
	if info.MemoryInfo != nil {
		spec.MemoryMiB = aws.ToInt64(info.MemoryInfo.SizeInMiB)
	}
	return spec
}

func mapSpotPrice(region domain.Region, observedAt time.Time, price types.SpotPrice) (domain.SpotPriceQuote, error) {
	dollars, err := decimal.NewFromString(aws.ToString(price.SpotPrice))
	if err != nil {
		return domain.SpotPriceQuote{}, fmt.Errorf("failed to parse spot price %q for %s in %s: %w",
			aws.ToString(price.SpotPrice), price.InstanceType, aws.ToString(price.AvailabilityZone), err)
	}

	return domain.SpotPriceQuote{
		InstanceType:     string(price.InstanceType),
		Region:           region,
		AvailabilityZone: aws.ToString(price.AvailabilityZone),
		DollarsPerHour:   dollars.InexactFloat64(),
		ObservedAt:       observedAt,
	}, nil
}
