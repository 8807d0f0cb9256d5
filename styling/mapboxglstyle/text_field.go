package mapboxglstyle

import (
	"strings"
)

// FormatTokens replaces each {token} in s with the feature's value for that property.
// Tokens naming a property the feature doesn't have become the empty string. An unclosed "{" is kept as it is.
func FormatTokens(s string, feature FeatureContext) string {
	if !strings.Contains(s, "{") {
		return s
	}

	var sb strings.Builder
	rest := s
	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			sb.WriteString(rest)
			break
		}

		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			sb.WriteString(rest)
			break
		}
		end += start

		sb.WriteString(rest[:start])

		key := rest[start+1 : end]
		if feature != nil {
			value, ok := feature.Property(key)
			if ok {
				sb.WriteString(value.String())
			}
		}

		rest = rest[end+1:]
	}

	return sb.String()
}
