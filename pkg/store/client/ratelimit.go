package client

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"golang.org/x/time/rate"
)

type rateLimitedEC2 struct {
	api     EC2API
	limiter *rate.Limiter
}

func newRateLimitedEC2(api EC2API, perSecond float64) *rateLimitedEC2 {
	return &rateLimitedEC2{
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

func (r *rateLimitedEC2) wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

func (r *rateLimitedEC2) DescribeRegions(
	ctx context.Context,
	params *ec2.DescribeRegionsInput,
	optFns ...func(*ec2.Options),
) (*ec2.DescribeRegionsOutput, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.api.DescribeRegions(ctx, params, optFns...)
}

func (r *rateLimitedEC2) DescribeInstanceTypes(
	ctx context.Context,
	params *ec2.DescribeInstanceTypesInput,
	optFns ...func(*ec2.Options),
) (*ec2.DescribeInstanceTypesOutput, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.api.DescribeInstanceTypes(ctx, params, optFns...)
}

func (r *rateLimitedEC2) DescribeSpotPriceHistory(
	ctx context.Context,
	params *ec2.DescribeSpotPriceHistoryInput,
	optFns ...func(*ec2.Options),
) (*ec2.DescribeSpotPriceHistoryOutput, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.api.DescribeSpotPriceHistory(ctx, params, optFns...)
}
