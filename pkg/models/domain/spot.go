package domain

import (
	"slices"
	"time"
)

type Region string

type Architecture string

const (
	ArchitectureARM64 Architecture = "arm64"
	ArchitectureX86   Architecture = "x86_64"
)

// LinuxProduct is the only spot product description collected.
const LinuxProduct = "Linux/UNIX"

type InstanceTypeSpec struct {
	InstanceType           string
	CurrentGeneration      bool
	SupportedArchitectures []string // arm64, i386, x86_64, x86_64_mac, ...
	DefaultVCPUs           int
	MemoryMiB              int64
}

// Architecture collapses the supported architectures into arm64 or x86_64.
// Anything without arm64 support is reported as x86_64.
func (s InstanceTypeSpec) Architecture() Architecture {
	if slices.Contains(s.SupportedArchitectures, string(ArchitectureARM64)) {
		return ArchitectureARM64
	}
	return ArchitectureX86
}

func (s InstanceTypeSpec) MemoryGiB() float64 {
	return float64(s.MemoryMiB) / 1024
}

// Catalog maps an instance type name to its hardware profile for one region.
type Catalog map[string]InstanceTypeSpec

type SpotPriceQuote struct {
	InstanceType     string
	Region           Region
	AvailabilityZone string
	DollarsPerHour   float64
	ObservedAt       time.Time // shared by every quote of one fetch
}

// SpotRecord is a quote joined with its instance type profile. Values are
// kept unrounded; rounding happens when the artifact is produced.
type SpotRecord struct {
	InstanceType          string
	DollarsPerHour        float64
	Region                Region
	AvailabilityZone      string
	CurrentGeneration     bool
	Architecture          Architecture
	VCPUs                 int
	MemoryGiB             float64
	LastUpdateEpochTimeMs int64
	MemoryGiBPerVCPU      float64
	MemoryGiBPerDollar    float64
	VCPUsPerDollar        float64
	Power                 float64
}

// EpochMillis converts t to milliseconds since the epoch, rounding to the
// nearest millisecond.
func EpochMillis(t time.Time) int64 {
	return (t.UnixNano() + int64(time.Millisecond)/2) / int64(time.Millisecond)
}
