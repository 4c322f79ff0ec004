package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radar989/crits/internal/crits"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewStoreMigrates(t *testing.T) {
	store := newTestStore(t)

	count, err := store.CountLookups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRecordBatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	indicators := []crits.Indicator{
		{Value: "1.2.3.4", IsIP: true},
		{Value: "5.6.7.8", IsIP: true},
	}
	results := []crits.LookupResult{
		{Entity: indicators[0], Data: &crits.ResultData{}},
		{Entity: indicators[0], Data: &crits.ResultData{}},
		{Entity: indicators[1], Data: nil},
	}

	err := store.RecordBatch(ctx, "req-1", indicators, results, nil)
	require.NoError(t, err)

	entries, err := store.RecentLookups(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byValue := make(map[string]LookupEntry)
	for _, entry := range entries {
		byValue[entry.Value] = entry
	}

	hit := byValue["1.2.3.4"]
	assert.Equal(t, "req-1", hit.RequestID)
	assert.Equal(t, "ip", hit.Kind)
	assert.Equal(t, 2, hit.Matches)
	assert.False(t, hit.Miss)
	assert.Empty(t, hit.Error)
	assert.False(t, hit.CreatedAt.IsZero())

	miss := byValue["5.6.7.8"]
	assert.Equal(t, 0, miss.Matches)
	assert.True(t, miss.Miss)
}

func TestRecordBatchWithError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	indicators := []crits.Indicator{
		{Value: "1.2.3.4", IsIP: true},
		{Value: "d41d8cd98f00b204e9800998ecf8427e", IsMD5: true},
	}

	lookupErr := errors.New("authorization failed")
	err := store.RecordBatch(ctx, "req-2", indicators, nil, lookupErr)
	require.NoError(t, err)

	entries, err := store.RecentLookups(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// The batch aborts all-or-nothing, so the error lands on every row.
	for _, entry := range entries {
		assert.Equal(t, "authorization failed", entry.Error)
		assert.Equal(t, 0, entry.Matches)
		assert.False(t, entry.Miss)
	}
}

func TestRecentLookupsLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := store.RecordBatch(ctx, "", []crits.Indicator{{Value: "1.2.3.4", IsIP: true}}, nil, nil)
		require.NoError(t, err)
	}

	entries, err := store.RecentLookups(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	count, err := store.CountLookups(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}
