package crits

import (
	"reflect"
	"testing"
)

func TestRecordTags(t *testing.T) {
	rec := remoteRecord{
		Source: []NameRef{
			{Name: "AlphaFeed"},
			{Name: "AlphaFeed"}, // duplicates survive for single records
			{Name: "BetaFeed"},
		},
		Campaign: []NameRef{
			{Name: "OpMock"},
		},
		BucketList: []string{"b1", "b2", "b3", "b4", "b5", "b6", "b7"},
	}

	got := recordTags(rec)
	want := []string{
		sourceIcon + "AlphaFeed",
		sourceIcon + "AlphaFeed",
		sourceIcon + "BetaFeed",
		campaignIcon + "OpMock",
		"b1", "b2", "b3", "b4", "b5",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected tags %v, got %v", want, got)
	}
}

func TestRecordTagsEmptyRecord(t *testing.T) {
	got := recordTags(remoteRecord{})
	if len(got) != 0 {
		t.Errorf("Expected no tags for an empty record, got %v", got)
	}
}

func TestMergedHashTags(t *testing.T) {
	samples := []HashSample{
		{
			Source:     []NameRef{{Name: "AlphaFeed"}},
			Campaign:   []NameRef{{Name: "OpMock"}},
			BucketList: []string{"tag1", "tag2"},
		},
		{
			Source:     []NameRef{{Name: "AlphaFeed"}}, // shared source collapses
			BucketList: []string{"tag2"},
		},
	}
	indicators := []HashIndicator{
		{
			Source:     []NameRef{{Name: "AlphaFeed"}, {Name: "BetaFeed"}},
			Campaign:   []NameRef{{Name: "OpMock"}},
			BucketList: []string{"tag3"},
		},
	}

	got := mergedHashTags(samples, indicators)
	want := []string{
		sampleIcon + "2 samples",
		sourceIcon + "AlphaFeed",
		sourceIcon + "BetaFeed",
		campaignIcon + "OpMock",
		"tag1", "tag2", "tag3",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected tags %v, got %v", want, got)
	}
}

func TestMergedHashTagsNoSamples(t *testing.T) {
	indicators := []HashIndicator{
		{Source: []NameRef{{Name: "AlphaFeed"}}},
	}

	got := mergedHashTags(nil, indicators)
	want := []string{sourceIcon + "AlphaFeed"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected no count tag without samples, got %v", got)
	}
}

func TestOrderedSet(t *testing.T) {
	set := newOrderedSet()
	for _, item := range []string{"c", "a", "c", "b", "a"} {
		set.add(item)
	}

	want := []string{"c", "a", "b"}
	if !reflect.DeepEqual(set.items, want) {
		t.Errorf("Expected first-seen order %v, got %v", want, set.items)
	}
}
