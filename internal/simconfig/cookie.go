package simconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Cookie names read by Load.
const (
	CookieShowAdvanced   = "showAdvanced"
	CookieMostRecentURLs = "mostRecentUrls"
)

// CookieStore reads raw cookie values by name. ok is false when the cookie is
// absent or the store is unavailable.
type CookieStore interface {
	Get(ctx context.Context, name string) (value string, ok bool)
}

// EncodeCookieValue serializes v as JSON and escapes it for use as a cookie
// value, the same way browser cookie libraries store structured values.
func EncodeCookieValue(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cookie value: %w", err)
	}
	return url.PathEscape(string(data)), nil
}

// DecodeCookieValue reverses EncodeCookieValue. Unescaped JSON is accepted
// too. Surrounding double quotes are stripped before decoding, so `"true"`
// reads as the boolean true; browser cookie libraries would return the string
// "true" instead. This is a leniency for hand-set cookies, not browser parity.
func DecodeCookieValue(raw string, v any) error {
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("empty cookie value")
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("failed to unmarshal cookie value: %w", err)
	}
	return nil
}

// RememberURL returns a most-recent list with u moved to the front. Duplicates
// and blank entries are dropped and the result is capped at limit when limit
// is positive. The input slice is not modified.
func RememberURL(urls []string, u string, limit int) []string {
	u = strings.TrimSpace(u)
	out := make([]string, 0, len(urls)+1)
	if u != "" {
		out = append(out, u)
	}
	for _, existing := range urls {
		if existing == "" || existing == u || contains(out, existing) {
			continue
		}
		out = append(out, existing)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
