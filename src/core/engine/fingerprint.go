package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

const keyPrefix = "metasearch:"

// CacheKey builds a deterministic fingerprint for a logical request. Two
// semantically equal requests always fingerprint identically: the domain
// filter is normalized and sorted before hashing, and an absent filter is
// canonicalized to the empty list.
func CacheKey(operation, query string, domains []string, numResults int, flags ...bool) string {
	canonical := NormalizeDomains(domains)
	sort.Strings(canonical)

	parts := []string{
		operation,
		query,
		strings.Join(canonical, ","),
		fmt.Sprintf("%d", numResults),
	}
	for _, f := range flags {
		parts = append(parts, fmt.Sprintf("%t", f))
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return keyPrefix + operation + ":" + hex.EncodeToString(sum[:])
}
