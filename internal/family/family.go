// Package family classifies the protocol token from the benchmark
// configuration into a closed set of protocol families.
package family

import "strings"

// Family is the protocol family a benchmark run targets.
type Family string

const (
	Memcached Family = "Memcached"
	Redis     Family = "Redis"
	Unknown   Family = "Unknown"
)

// Classify maps a free-form protocol token to a Family. Matching is
// case-insensitive on the token prefix; anything unrecognised is Unknown and
// must be rejected by configuration validation rather than silently mapped
// to a default family.
func Classify(token string) Family {
	token = strings.ToLower(strings.TrimSpace(token))
	switch {
	case strings.HasPrefix(token, "mem"):
		return Memcached
	case strings.HasPrefix(token, "redis"):
		return Redis
	default:
		return Unknown
	}
}
