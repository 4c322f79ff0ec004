package crits

import "errors"

// Config holds the connection parameters and lookup toggles for one batch
// invocation. It is read-only while a batch is in flight and may be shared
// across concurrent lookups.
type Config struct {
	Hostname      string `json:"hostname" yaml:"hostname"`
	Username      string `json:"username" yaml:"username"`
	APIKey        string `json:"apiKey" yaml:"api_key"`
	LookupIPs     bool   `json:"lookupIps" yaml:"lookup_ips"`
	LookupHashes  bool   `json:"lookupHashes" yaml:"lookup_hashes"`
	LookupDomains bool   `json:"lookupDomains" yaml:"lookup_domains"`
}

// Validate checks that the required connection parameters are present. It is
// called before any per-indicator work; a failure aborts the entire batch
// with zero network calls made.
func (c Config) Validate() error {
	if c.Hostname == "" {
		return errors.New("a CRITs hostname must be provided")
	}
	if c.APIKey == "" {
		return errors.New("a CRITs API key must be provided")
	}
	if c.Username == "" {
		return errors.New("a CRITs username must be provided")
	}
	return nil
}
