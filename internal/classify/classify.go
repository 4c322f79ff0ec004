// Package classify performs the host-side entity recognition that turns raw
// strings into typed indicators for the lookup adapter. The adapter itself
// never classifies values; it trusts the flags set here.
package classify

import (
	"net"
	"net/url"
	"regexp"
	"strings"

	"github.com/radar989/crits/internal/crits"
)

var (
	md5Pattern    = regexp.MustCompile(`^[a-fA-F0-9]{32}$`)
	sha1Pattern   = regexp.MustCompile(`^[a-fA-F0-9]{40}$`)
	sha256Pattern = regexp.MustCompile(`^[a-fA-F0-9]{64}$`)
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	domainPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9.\-]*\.[a-zA-Z]{2,}$`)
)

// Classify turns one raw value into an indicator with its capability flags
// set. Values that match nothing come back with only Value populated.
func Classify(raw string) crits.Indicator {
	value := strings.TrimSpace(raw)
	indicator := crits.Indicator{Value: value}

	switch {
	case net.ParseIP(value) != nil:
		indicator.IsIP = true
	case md5Pattern.MatchString(value):
		indicator.IsMD5 = true
	case sha1Pattern.MatchString(value):
		indicator.IsSHA1 = true
	case sha256Pattern.MatchString(value):
		indicator.IsSHA256 = true
	case isURL(value):
		indicator.IsURL = true
	case emailPattern.MatchString(value):
		indicator.IsEmail = true
	case domainPattern.MatchString(value):
		indicator.IsDomain = true
	}
	return indicator
}

// Batch classifies a list of raw values in input order.
func Batch(raws []string) []crits.Indicator {
	indicators := make([]crits.Indicator, 0, len(raws))
	for _, raw := range raws {
		indicators = append(indicators, Classify(raw))
	}
	return indicators
}

func isURL(value string) bool {
	if !strings.Contains(value, "://") {
		return false
	}
	u, err := url.Parse(value)
	return err == nil && u.Scheme != "" && u.Host != ""
}
