package crits

import (
	"fmt"
	"net/url"
	"strings"
)

const apiRoot = "/api/v1"

// normalizeHostname strips any trailing slash from the configured hostname so
// composed URLs never carry a double slash. "https://crits.example.com/" and
// "https://crits.example.com" produce byte-identical URIs.
func normalizeHostname(hostname string) string {
	return strings.TrimRight(hostname, "/")
}

// searchURL builds an API search URI for one collection with the filter and
// auth parameters embedded, e.g.
// https://host/api/v1/ips/?api_key=...&c-ip=1.2.3.4&username=...
func searchURL(cfg Config, collection string, filters url.Values) string {
	q := url.Values{}
	for key, values := range filters {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	q.Set("username", cfg.Username)
	q.Set("api_key", cfg.APIKey)
	return fmt.Sprintf("%s%s/%s/?%s", normalizeHostname(cfg.Hostname), apiRoot, collection, q.Encode())
}

// detailURL builds the human-facing detail page URL for a matched record.
func detailURL(cfg Config, collection, key string) string {
	return fmt.Sprintf("%s/%s/details/%s/", normalizeHostname(cfg.Hostname), collection, key)
}

// patchDescriptionURL builds the API URI a host would PATCH to update one
// record's description. The adapter only constructs it, it never calls it.
func patchDescriptionURL(cfg Config, segment, id string) string {
	q := url.Values{}
	q.Set("username", cfg.Username)
	q.Set("api_key", cfg.APIKey)
	return fmt.Sprintf("%s%s/%s/%s/?%s", normalizeHostname(cfg.Hostname), apiRoot, segment, id, q.Encode())
}
