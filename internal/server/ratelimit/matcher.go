package ratelimit

import (
	"net/http"
	"strings"
)

// unlimitedRoutes bypass rate limiting entirely
var unlimitedRoutes = map[string]bool{
	http.MethodGet + " /health": true,
}

// MatchEndpoint returns the configuration for method and path, or nil when
// the default limit applies. An exact path wins; otherwise the longest
// configured prefix ending in "/" matches. Unlimited routes get a zero Limit.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if unlimitedRoutes[method+" "+path] {
		return &EndpointConfig{Path: path, Method: method}
	}

	var prefix *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) &&
			(prefix == nil || len(c.Path) > len(prefix.Path)) {
			prefix = c
		}
	}
	return prefix
}
