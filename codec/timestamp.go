package codec

import "time"

// FormatTimestamp renders t as RFC 3339 in UTC. Trailing zero fractions are
// trimmed.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
