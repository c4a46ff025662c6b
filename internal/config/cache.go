package config

import (
	"strings"
	"time"
)

// Cache defaults, also used when a variable is present but unusable.
const (
	defaultCachePrefix  = "cache"
	defaultCacheTTL     = 30 * time.Second
	defaultCacheMaxBody = 1 << 20
)

// CacheConfig drives the Redis response cache.  Responses to Methods are
// stored under Prefix for TTL; a successful request with any other method
// deletes every key under Prefix.  Bodies larger than MaxBodyBytes are
// served but never stored.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	KeyStrategy  string // route, method_route, method_route_query, route_query
	Prefix       string
	MaxBodyBytes int
}

func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", defaultCacheTTL),
		KeyStrategy:  strings.ToLower(envStr("CACHE_KEY_STRATEGY", "route_query")),
		Prefix:       strings.Trim(strings.TrimSpace(envStr("CACHE_PREFIX", defaultCachePrefix)), ":*"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", defaultCacheMaxBody),
	}
	// The prefix is the purge pattern, so it can never be empty or a glob.
	if cfg.Prefix == "" {
		cfg.Prefix = defaultCachePrefix
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultCacheTTL
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultCacheMaxBody
	}
	if len(cfg.Methods) == 0 {
		cfg.Methods = map[string]bool{"GET": true}
	}
	return cfg
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			m[p] = true
		}
	}
	return m
}
