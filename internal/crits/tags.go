package crits

import "fmt"

// Icon markup prepended to tag text. A merged tag's uniqueness is exact
// string equality including this markup.
const (
	sourceIcon   = `<i class="fa fa-bolt"></i> `
	campaignIcon = `<i class="fa fa-bullseye"></i> `
	sampleIcon   = `<i class="fa fa-bug"></i> `
)

// maxBucketTags caps how many bucket-list labels a single-record summary
// carries.
const maxBucketTags = 5

// recordTags summarizes a single IP or domain record: every source, every
// campaign, then up to maxBucketTags bucket labels, all in record order and
// without deduplication.
func recordTags(rec remoteRecord) []string {
	tags := make([]string, 0, len(rec.Source)+len(rec.Campaign)+maxBucketTags)
	for _, src := range rec.Source {
		tags = append(tags, sourceIcon+src.Name)
	}
	for _, c := range rec.Campaign {
		tags = append(tags, campaignIcon+c.Name)
	}
	for i, label := range rec.BucketList {
		if i == maxBucketTags {
			break
		}
		tags = append(tags, label)
	}
	return tags
}

// mergedHashTags summarizes one hash across both the sample and indicator
// matches: the sample count first (when at least one sample matched), then
// all unique sources, then all unique campaigns, then all unique bucket
// labels. Each group keeps first-seen order, samples before indicators.
func mergedHashTags(samples []HashSample, indicators []HashIndicator) []string {
	tags := []string{}
	if len(samples) > 0 {
		tags = append(tags, fmt.Sprintf("%s%d samples", sampleIcon, len(samples)))
	}

	sources := newOrderedSet()
	campaigns := newOrderedSet()
	buckets := newOrderedSet()

	for _, s := range samples {
		for _, src := range s.Source {
			sources.add(sourceIcon + src.Name)
		}
		for _, c := range s.Campaign {
			campaigns.add(campaignIcon + c.Name)
		}
		for _, label := range s.BucketList {
			buckets.add(label)
		}
	}
	for _, in := range indicators {
		for _, src := range in.Source {
			sources.add(sourceIcon + src.Name)
		}
		for _, c := range in.Campaign {
			campaigns.add(campaignIcon + c.Name)
		}
		for _, label := range in.BucketList {
			buckets.add(label)
		}
	}

	tags = append(tags, sources.items...)
	tags = append(tags, campaigns.items...)
	tags = append(tags, buckets.items...)
	return tags
}

// orderedSet collects unique strings while preserving first-seen order.
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(item string) {
	if _, ok := s.seen[item]; ok {
		return
	}
	s.seen[item] = struct{}{}
	s.items = append(s.items, item)
}
