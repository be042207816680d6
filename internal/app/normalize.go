package app

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

func newID() string {
	return uuid.NewString()
}

func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func cleanLinks(links map[string]string) map[string]string {
	out := make(map[string]string, len(links))
	for k, v := range links {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k != "" && v != "" {
			out[k] = v
		}
	}
	return out
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

func withDefault(value, fallback string) string {
	if value = strings.TrimSpace(value); value == "" {
		return fallback
	}
	return value
}

// clampPage applies the listing defaults: skip >= 0 and 1 <= limit <= 100,
// with 50 when limit is unset.
func clampPage(skip, limit int64) (int64, int64) {
	if skip < 0 {
		skip = 0
	}
	switch {
	case limit <= 0:
		limit = 50
	case limit > 100:
		limit = 100
	}
	return skip, limit
}
