package engine

import "strings"

// NormalizeDomains strips scheme and www prefixes from a domain allow-list so
// that frontend values like "https://www.reddit.com/" compare as "reddit.com".
// A nil or empty input yields an empty slice.
func NormalizeDomains(domains []string) []string {
	normalized := make([]string, 0, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		d = strings.TrimPrefix(d, "https://")
		d = strings.TrimPrefix(d, "http://")
		d = strings.TrimPrefix(d, "www.")
		d = strings.Trim(d, "/")
		if d != "" {
			normalized = append(normalized, d)
		}
	}
	return normalized
}

// DomainAllowed reports whether url matches one of the normalized allowed
// domains by substring. An empty allow-list admits everything.
func DomainAllowed(url string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	lower := strings.ToLower(url)
	for _, d := range allowed {
		if strings.Contains(lower, d) {
			return true
		}
	}
	return false
}
