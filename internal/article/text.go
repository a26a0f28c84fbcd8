package article

import (
	"math"
	"net/url"
	"regexp"
	"strings"
)

var trackingParams = map[string]struct{}{
	"fbclid": {},
	"gclid":  {},
	"mc_cid": {},
	"mc_eid": {},
	"ref":    {},
	"src":    {},
}

func isTrackingParam(key string) bool {
	k := strings.ToLower(key)
	if strings.HasPrefix(k, "utm_") {
		return true
	}
	_, ok := trackingParams[k]
	return ok
}

// CanonicalURL removes tracking parameters and the fragment. Remaining query
// parameters keep their original order. Unparseable input is returned as is.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Fragment = ""
	u.RawFragment = ""

	if u.RawQuery != "" {
		kept := make([]string, 0, 4)
		for _, pair := range strings.Split(u.RawQuery, "&") {
			if pair == "" {
				continue
			}
			key := pair
			if i := strings.IndexByte(pair, '='); i >= 0 {
				key = pair[:i]
			}
			if k, err := url.QueryUnescape(key); err == nil {
				key = k
			}
			if isTrackingParam(key) {
				continue
			}
			kept = append(kept, pair)
		}
		u.RawQuery = strings.Join(kept, "&")
	}
	return u.String()
}

// DomainKey is the lowercased host without a leading "www.".
func DomainKey(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

var (
	nonWord    = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	whitespace = regexp.MustCompile(`\s+`)
)

var outletSuffixes = []string{" reuters", " bloomberg", " ap", " wsj", " ft"}

// NormalizeTitle prepares a headline for similarity comparison.
func NormalizeTitle(title string) string {
	t := strings.ToLower(title)
	t = nonWord.ReplaceAllString(t, "")
	t = strings.TrimSpace(whitespace.ReplaceAllString(t, " "))
	for _, suffix := range outletSuffixes {
		if strings.HasSuffix(t, suffix) {
			t = strings.TrimSuffix(t, suffix)
		}
	}
	return t
}

const (
	wordsPerMinute = 230
	maxReadingTime = 15
)

// ReadingTime estimates minutes to read text, between 1 and 15.
func ReadingTime(text string) int {
	words := len(strings.Fields(text))
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	if minutes > maxReadingTime {
		return maxReadingTime
	}
	return minutes
}
