package crits

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/url"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Service runs indicator lookups against one CRITs server.
type Service struct {
	getter Getter
	logger *log.Logger
}

// NewService creates a lookup service. A nil getter falls back to the
// default HTTP transport; a nil logger discards diagnostics.
func NewService(getter Getter, logger *log.Logger) *Service {
	if getter == nil {
		getter = NewHTTPGetter(HTTPOptions{})
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{getter: getter, logger: logger}
}

// Lookup resolves a batch of indicators against the configured CRITs server.
// The configuration is validated before any network call; an invalid
// configuration fails the whole batch with zero lookups performed.
//
// Per-indicator lookups run concurrently and the first failure aborts the
// batch: an error is never returned alongside partial results. On success
// the result list follows completion order, not input order.
func (s *Service) Lookup(ctx context.Context, indicators []Indicator, cfg Config) ([]LookupResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		results []LookupResult
	)
	group, groupCtx := errgroup.WithContext(ctx)

	for _, indicator := range indicators {
		op := s.operationFor(indicator, cfg)
		if op == nil {
			continue
		}
		group.Go(func() error {
			entries, err := op(groupCtx)
			if err != nil {
				return err
			}
			mu.Lock()
			results = append(results, entries...)
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// lookupOp resolves one indicator into zero or more results.
type lookupOp func(ctx context.Context) ([]LookupResult, error)

// operationFor routes an indicator to its lookup operation, or nil when the
// indicator's type is not recognized or that type is not enabled. Skipped
// indicators produce no result and no network call.
func (s *Service) operationFor(indicator Indicator, cfg Config) lookupOp {
	switch {
	case indicator.IsIP && cfg.LookupIPs:
		return func(ctx context.Context) ([]LookupResult, error) {
			return s.lookupIP(ctx, indicator, cfg)
		}
	case indicator.IsHash() && cfg.LookupHashes:
		return func(ctx context.Context) ([]LookupResult, error) {
			return s.lookupHash(ctx, indicator, cfg)
		}
	case indicator.IsDomain && cfg.LookupDomains:
		return func(ctx context.Context) ([]LookupResult, error) {
			return s.lookupDomain(ctx, indicator, cfg)
		}
	}
	return nil
}

func (s *Service) lookupIP(ctx context.Context, indicator Indicator, cfg Config) ([]LookupResult, error) {
	return s.lookupRecords(ctx, indicator, cfg, "ips", "c-ip", shapeIPRecord)
}

func (s *Service) lookupDomain(ctx context.Context, indicator Indicator, cfg Config) ([]LookupResult, error) {
	return s.lookupRecords(ctx, indicator, cfg, "domains", "c-domain", shapeDomainRecord)
}

// recordShaper maps one matched record to its display value and details.
type recordShaper func(cfg Config, rec remoteRecord) (displayValue string, details interface{})

// lookupRecords is the shared template behind the IP and domain lookups:
// build the search URI, issue one GET, then emit either a single confirmed
// miss or one shaped result per matched record.
func (s *Service) lookupRecords(ctx context.Context, indicator Indicator, cfg Config, collection, filterKey string, shape recordShaper) ([]LookupResult, error) {
	filters := url.Values{}
	filters.Set(filterKey, indicator.Value)

	records, err := s.searchObjects(ctx, searchURL(cfg, collection, filters))
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		s.logger.Printf("No CRITs %s records for %s", collection, indicator.Value)
		return []LookupResult{missResult(indicator)}, nil
	}

	s.logger.Printf("Found %d CRITs %s record(s) for %s", len(records), collection, indicator.Value)
	results := make([]LookupResult, 0, len(records))
	for _, rec := range records {
		display, details := shape(cfg, rec)
		results = append(results, LookupResult{
			Entity:       indicator,
			DisplayValue: display,
			Data: &ResultData{
				Summary: recordTags(rec),
				Details: details,
			},
		})
	}
	return results, nil
}

func shapeIPRecord(cfg Config, rec remoteRecord) (string, interface{}) {
	return rec.IP, RecordDetails{
		Type:                "ip",
		CritsLookupURL:      detailURL(cfg, "ips", rec.ID),
		BucketList:          rec.BucketList,
		Campaign:            rec.Campaign,
		Description:         rec.Description,
		Modified:            rec.Modified,
		Source:              rec.Source,
		ThreatTypes:         rec.ThreatTypes,
		PatchDescriptionURI: patchDescriptionURL(cfg, "ips", rec.ID),
	}
}

func shapeDomainRecord(cfg Config, rec remoteRecord) (string, interface{}) {
	return rec.Domain, RecordDetails{
		Type:                "domain",
		CritsLookupURL:      detailURL(cfg, "domains", rec.ID),
		BucketList:          rec.BucketList,
		Campaign:            rec.Campaign,
		Description:         rec.Description,
		Modified:            rec.Modified,
		Source:              rec.Source,
		ThreatTypes:         rec.ThreatTypes,
		PatchDescriptionURI: patchDescriptionURL(cfg, "domains", rec.ID),
	}
}

// missResult is the single negative entry emitted when a lookup finds
// nothing. The nil Data is deliberate: it tells the host this value was
// looked up and confirmed absent.
func missResult(indicator Indicator) LookupResult {
	return LookupResult{Entity: indicator, Data: nil}
}

// searchObjects issues one GET and decodes the standard objects envelope.
func (s *Service) searchObjects(ctx context.Context, uri string) ([]remoteRecord, error) {
	status, body, err := s.getter.Get(ctx, uri)
	if cerr := classifyResponse(err, status); cerr != nil {
		return nil, cerr
	}

	var envelope objectsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode CRITs response: %w", err)
	}
	return envelope.Objects, nil
}
