package ratelimit

import "strings"

// MatchEndpoint resolves the rate tier for a request. An exact path match
// wins; tiers whose path ends in "/" act as prefixes, so "/api/companies/"
// covers every company-scoped route. The health check is never limited.
// Returns nil when no tier applies and the global default should be used.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" {
		return &EndpointConfig{}
	}

	var prefix *EndpointConfig
	for i := range configs {
		tier := &configs[i]
		if tier.Method != method {
			continue
		}
		if tier.Path == path {
			return tier
		}
		if prefix == nil && strings.HasSuffix(tier.Path, "/") && strings.HasPrefix(path, tier.Path) {
			prefix = tier
		}
	}
	return prefix
}
