// Package canonical reduces article URLs to a comparable normal form.
// Two URLs that differ only by scheme/host case, fragment, tracking
// parameters or trailing slashes share one canonical form, which is the
// only key used for duplicate detection and cache naming.
package canonical

import (
	"crypto/md5" //nolint:gosec // cache file naming, not security
	"encoding/hex"
	"net/url"
	"strings"
)

// ShortHashLen is the number of hex characters kept by ShortHash.
const ShortHashLen = 8

// trackingParams lists query parameters stripped during canonicalization.
// Keys are compared case-insensitively.
var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"ref":          {},
	"source":       {},
}

// URL returns the canonical form of rawURL. It never fails: input that
// cannot be parsed is returned unchanged, and the empty string stays empty.
func URL(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	query, ok := cleanQuery(parsed.RawQuery)
	if !ok {
		return rawURL
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""
	parsed.RawFragment = ""
	parsed.RawQuery = query
	parsed.ForceQuery = false
	if err = setEscapedPath(parsed, trimTrailingSlash(parsed.EscapedPath())); err != nil {
		return rawURL
	}

	return parsed.String()
}

// Equal reports whether two URLs share a canonical form. Empty URLs are never equal.
func Equal(a, b string) bool {
	ca, cb := URL(a), URL(b)
	return ca != "" && ca == cb
}

// ShortHash returns the first ShortHashLen hex characters of the MD5 of the canonical URL.
func ShortHash(rawURL string) string {
	sum := md5.Sum([]byte(URL(rawURL))) //nolint:gosec // see import
	return hex.EncodeToString(sum[:])[:ShortHashLen]
}

// setEscapedPath replaces the path with an already escaped one. Encoded
// slashes such as %2F stay encoded.
func setEscapedPath(u *url.URL, escaped string) error {
	unescaped, err := url.PathUnescape(escaped)
	if err != nil {
		return err
	}
	u.Path = unescaped
	u.RawPath = ""
	if u.EscapedPath() != escaped {
		u.RawPath = escaped
	}
	return nil
}

// trimTrailingSlash removes trailing slashes while preserving the root "/".
func trimTrailingSlash(p string) string {
	if p == "" || p == "/" {
		return p
	}

	trimmed := strings.TrimRight(p, "/")
	if trimmed == "" {
		return "/"
	}

	return trimmed
}

// queryGroup holds every value seen for one key, in input order.
type queryGroup struct {
	key    string
	values []string
}

// cleanQuery drops tracking parameters and re-encodes the rest. Keys keep the
// order of their first appearance and values keep their order within a key.
// The boolean is false when the query cannot be decoded.
func cleanQuery(rawQuery string) (string, bool) {
	if rawQuery == "" {
		return "", true
	}

	var groups []*queryGroup
	index := make(map[string]*queryGroup)

	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}

		rawKey, rawValue, _ := strings.Cut(pair, "=")

		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return "", false
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return "", false
		}

		if _, tracking := trackingParams[strings.ToLower(key)]; tracking {
			continue
		}

		group, seen := index[key]
		if !seen {
			group = &queryGroup{key: key}
			index[key] = group
			groups = append(groups, group)
		}
		group.values = append(group.values, value)
	}

	var b strings.Builder
	for _, group := range groups {
		for _, value := range group.values {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(group.key))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(value))
		}
	}

	return b.String(), true
}
