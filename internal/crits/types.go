// Package crits is a lookup adapter for a CRITs threat-intelligence
// repository. The host hands it classified indicators (IPs, file hashes,
// domains); the adapter queries the CRITs REST API and returns normalized,
// display-ready result records. Scheduling, caching and result persistence
// belong to the host, not this package.
package crits

// Indicator is a host-classified value with capability flags describing what
// the raw string was recognized as. Indicators are immutable and supplied
// fresh per invocation.
type Indicator struct {
	Value    string `json:"value"`
	IsIP     bool   `json:"isIP,omitempty"`
	IsMD5    bool   `json:"isMD5,omitempty"`
	IsSHA1   bool   `json:"isSHA1,omitempty"`
	IsSHA256 bool   `json:"isSHA256,omitempty"`
	IsDomain bool   `json:"isDomain,omitempty"`
	IsURL    bool   `json:"isURL,omitempty"`
	IsEmail  bool   `json:"isEmail,omitempty"`
}

// IsHash reports whether the indicator is a file hash of a supported kind.
func (in Indicator) IsHash() bool {
	return in.IsMD5 || in.IsSHA1 || in.IsSHA256
}

// HashKind returns the lowercase hash type name ("md5", "sha1", "sha256"),
// or an empty string for non-hash indicators.
func (in Indicator) HashKind() string {
	switch {
	case in.IsMD5:
		return "md5"
	case in.IsSHA1:
		return "sha1"
	case in.IsSHA256:
		return "sha256"
	}
	return ""
}

// Kind returns a short label for the indicator's recognized type.
func (in Indicator) Kind() string {
	switch {
	case in.IsIP:
		return "ip"
	case in.IsHash():
		return "hash"
	case in.IsDomain:
		return "domain"
	case in.IsURL:
		return "url"
	case in.IsEmail:
		return "email"
	}
	return "unknown"
}

// LookupResult is one display-ready record handed back to the host. A nil
// Data marks a confirmed miss: the value was looked up and the repository
// holds nothing for it, which the host may cache as a negative result.
type LookupResult struct {
	Entity       Indicator   `json:"entity"`
	DisplayValue string      `json:"displayValue,omitempty"`
	Data         *ResultData `json:"data"`
}

// ResultData carries the summary tags and the per-kind details for one match.
type ResultData struct {
	Summary []string    `json:"summary"`
	Details interface{} `json:"details"`
}

// NameRef is a named reference as the CRITs API returns it for sources and
// campaigns.
type NameRef struct {
	Name string `json:"name"`
}

// RecordDetails describes a single matched IP or domain record. Type is
// "ip" or "domain".
type RecordDetails struct {
	Type                string    `json:"type"`
	CritsLookupURL      string    `json:"critsLookupUrl"`
	BucketList          []string  `json:"bucketList"`
	Campaign            []NameRef `json:"campaign"`
	Description         string    `json:"description"`
	Modified            string    `json:"modified"`
	Source              []NameRef `json:"source"`
	ThreatTypes         []string  `json:"threatTypes"`
	PatchDescriptionURI string    `json:"patchDescriptionUri"`
}

// HashDetails merges the indicator-side and sample-side views of one hash
// into a single record.
type HashDetails struct {
	Type           string          `json:"type"`
	HashSamples    []HashSample    `json:"hashSamples"`
	HashIndicators []HashIndicator `json:"hashIndicators"`
}

// HashSample is one sample record matching a hash, keyed by its MD5.
type HashSample struct {
	Filename            string    `json:"filename"`
	Filenames           []string  `json:"filenames"`
	CritsLookupURL      string    `json:"critsLookupUrl"`
	BucketList          []string  `json:"bucketList"`
	Campaign            []NameRef `json:"campaign"`
	Description         string    `json:"description"`
	Modified            string    `json:"modified"`
	Source              []NameRef `json:"source"`
	PatchDescriptionURI string    `json:"patchDescriptionUri"`
}

// HashIndicator is one indicator record matching a hash.
type HashIndicator struct {
	CritsLookupURL      string    `json:"critsLookupUrl"`
	BucketList          []string  `json:"bucketList"`
	Campaign            []NameRef `json:"campaign"`
	Description         string    `json:"description"`
	Modified            string    `json:"modified"`
	Source              []NameRef `json:"source"`
	ThreatTypes         []string  `json:"threatTypes"`
	PatchDescriptionURI string    `json:"patchDescriptionUri"`
}

// objectsEnvelope is the standard CRITs API response wrapper.
type objectsEnvelope struct {
	Objects []remoteRecord `json:"objects"`
}

// remoteRecord is one matched entity as the CRITs API returns it. Only the
// fields the adapter surfaces are decoded; everything else is dropped.
type remoteRecord struct {
	ID          string    `json:"_id"`
	IP          string    `json:"ip"`
	Domain      string    `json:"domain"`
	MD5         string    `json:"md5"`
	Filename    string    `json:"filename"`
	Filenames   []string  `json:"filenames"`
	Source      []NameRef `json:"source"`
	Campaign    []NameRef `json:"campaign"`
	BucketList  []string  `json:"bucket_list"`
	Description string    `json:"description"`
	Modified    string    `json:"modified"`
	ThreatTypes []string  `json:"threat_types"`
}
