package pricing

import "strings"

const (
	powerPerVCPU         = 0.036
	powerPerGiB          = 0.0034
	localStorageBonus    = 0.2
	enhancedNetworkBonus = 0.3
)

// Family returns the family token of an instance type: the name without its
// two character category prefix, cut at the size suffix ("m5dn.large" -> "dn").
func Family(instanceType string) string {
	if len(instanceType) <= 2 {
		return ""
	}
	family, _, _ := strings.Cut(instanceType[2:], ".")
	return family
}

// FamilyCapabilities guesses from the naming convention whether an instance
// type has local NVMe storage ("d") or enhanced networking ("n"). Any letter
// match counts, so unrelated families containing those letters are flagged
// too.
func FamilyCapabilities(instanceType string) (localStorage, enhancedNetworking bool) {
	family := Family(instanceType)
	return strings.Contains(family, "d"), strings.Contains(family, "n")
}

// Power is the composite hardware score used to rank equally priced offers.
func Power(instanceType string, vcpus int, memoryGiB float64) float64 {
	power := powerPerVCPU*float64(vcpus) + powerPerGiB*memoryGiB
	localStorage, enhancedNetworking := FamilyCapabilities(instanceType)
	if localStorage {
		power += localStorageBonus
	}
	if enhancedNetworking {
		power += enhancedNetworkBonus
	}
	return power
}
