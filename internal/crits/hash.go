package crits

import (
	"context"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"
)

// sampleFields is the projection requested from the samples collection.
const sampleFields = "filename,campaign,description,modified,source"

// lookupHash is the compound hash lookup: the indicators collection and the
// samples collection are queried concurrently and joined only after both
// return. Either query failing fails the whole lookup; the other call's
// outcome is discarded.
func (s *Service) lookupHash(ctx context.Context, indicator Indicator, cfg Config) ([]LookupResult, error) {
	kind := indicator.HashKind()
	value := strings.ToLower(indicator.Value)

	indicatorFilters := url.Values{}
	indicatorFilters.Set("c-type", strings.ToUpper(kind))
	indicatorFilters.Set("c-lower", value)

	sampleFilters := url.Values{}
	sampleFilters.Set("only", sampleFields)
	sampleFilters.Set("c-"+kind, value)

	var indicatorRecords, sampleRecords []remoteRecord
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		indicatorRecords, err = s.searchObjects(groupCtx, searchURL(cfg, "indicators", indicatorFilters))
		return err
	})
	group.Go(func() error {
		var err error
		sampleRecords, err = s.searchObjects(groupCtx, searchURL(cfg, "samples", sampleFilters))
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	samples := make([]HashSample, 0, len(sampleRecords))
	for _, rec := range sampleRecords {
		samples = append(samples, HashSample{
			Filename:            rec.Filename,
			Filenames:           rec.Filenames,
			CritsLookupURL:      detailURL(cfg, "samples", rec.MD5),
			BucketList:          rec.BucketList,
			Campaign:            rec.Campaign,
			Description:         rec.Description,
			Modified:            rec.Modified,
			Source:              rec.Source,
			PatchDescriptionURI: patchDescriptionURL(cfg, "indicator", rec.ID),
		})
	}

	hashIndicators := make([]HashIndicator, 0, len(indicatorRecords))
	for _, rec := range indicatorRecords {
		hashIndicators = append(hashIndicators, HashIndicator{
			CritsLookupURL:      detailURL(cfg, "indicators", rec.ID),
			BucketList:          rec.BucketList,
			Campaign:            rec.Campaign,
			Description:         rec.Description,
			Modified:            rec.Modified,
			Source:              rec.Source,
			ThreatTypes:         rec.ThreatTypes,
			PatchDescriptionURI: patchDescriptionURL(cfg, "indicator", rec.ID),
		})
	}

	// A hash is a miss only when both collections came back empty.
	if len(samples) == 0 && len(hashIndicators) == 0 {
		s.logger.Printf("No CRITs indicator or sample records for %s %s", kind, indicator.Value)
		return []LookupResult{missResult(indicator)}, nil
	}

	s.logger.Printf("Found %d indicator(s) and %d sample(s) for %s %s",
		len(hashIndicators), len(samples), kind, indicator.Value)

	return []LookupResult{{
		Entity: indicator,
		Data: &ResultData{
			Summary: mergedHashTags(samples, hashIndicators),
			Details: HashDetails{
				Type:           "hash",
				HashSamples:    samples,
				HashIndicators: hashIndicators,
			},
		},
	}}, nil
}
