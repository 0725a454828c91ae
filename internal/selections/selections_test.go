package selections

import (
	"testing"

	"github.com/atinylittleshell/gsuggest/pkg/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	manager, err := NewManager(":memory:")
	require.NoError(t, err, "Failed to create selections manager")
	t.Cleanup(func() { _ = manager.Close() })
	return manager
}

func TestRecordAndRecentEntries(t *testing.T) {
	manager := newTestManager(t)

	require.NoError(t, manager.Record(suggest.Selection{Query: "ap", Value: "apple", Index: 0}))
	require.NoError(t, manager.Record(suggest.Selection{Query: "ban", Value: "banana", Index: 2}))

	entries, err := manager.GetRecentEntries(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "banana", entries[0].Value, "Expected newest selection first")
	assert.Equal(t, "ban", entries[0].Query)
	assert.Equal(t, 2, entries[0].Index)
	assert.False(t, entries[0].CreatedAt.IsZero(), "Expected CreatedAt to be set")
	assert.Equal(t, "apple", entries[1].Value)

	limited, err := manager.GetRecentEntries(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestTopValues(t *testing.T) {
	manager := newTestManager(t)

	for _, value := range []string{"apple", "banana", "apple", "cherry", "apple", "banana"} {
		require.NoError(t, manager.Record(suggest.Selection{Value: value}))
	}

	top, err := manager.GetTopValues(2)
	require.NoError(t, err)
	assert.Equal(t, []ValueCount{
		{Value: "apple", Count: 3},
		{Value: "banana", Count: 2},
	}, top)

	total, err := manager.GetTotalCount()
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
}

func TestDeleteAndReset(t *testing.T) {
	manager := newTestManager(t)

	require.NoError(t, manager.Record(suggest.Selection{Value: "apple"}))
	require.NoError(t, manager.Record(suggest.Selection{Value: "banana"}))

	entries, err := manager.GetRecentEntries(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.NoError(t, manager.DeleteEntry(entries[0].ID))
	assert.Error(t, manager.DeleteEntry(entries[0].ID), "Deleting twice should fail")

	total, err := manager.GetTotalCount()
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	require.NoError(t, manager.Reset())
	total, err = manager.GetTotalCount()
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
