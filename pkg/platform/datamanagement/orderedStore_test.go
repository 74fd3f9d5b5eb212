package datamanagement_test

import (
	"testing"

	"github.com/ivanehh/go-cfapi/pkg/platform/datamanagement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedStoreKeepsInsertionOrder(t *testing.T) {
	s := datamanagement.NewOrderedStore[string, int]()
	for i, k := range []string{"zones", "accounts", "user", "certificates"} {
		require.NoError(t, s.Add(k, i))
	}

	assert.Equal(t, []string{"zones", "accounts", "user", "certificates"}, s.Keys())
	assert.Equal(t, []int{0, 1, 2, 3}, s.Values())
	assert.Equal(t, 4, s.Len())
}

func TestOrderedStoreRefusesOverwrite(t *testing.T) {
	s := datamanagement.NewOrderedStore[string, string]()
	require.NoError(t, s.Add("zones", "first"))

	err := s.Add("zones", "second")
	require.ErrorIs(t, err, datamanagement.ErrNoOverwrite)

	v, err := s.Get("zones")
	require.NoError(t, err)
	assert.Equal(t, "first", v)
	assert.Equal(t, 1, s.Len())
}

func TestOrderedStoreGetAndUpdate(t *testing.T) {
	s := datamanagement.NewOrderedStore[string, string]()

	_, err := s.Get("missing")
	assert.ErrorIs(t, err, datamanagement.ErrNotFound)
	assert.ErrorIs(t, s.Update("missing", "x"), datamanagement.ErrNotFound)
	assert.False(t, s.Has("missing"))

	require.NoError(t, s.Add("k", "a"))
	require.NoError(t, s.Update("k", "b"))
	v, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "b", v)
	assert.True(t, s.Has("k"))
}

func TestOrderedStoreKeysIsACopy(t *testing.T) {
	s := datamanagement.NewOrderedStore[string, int]()
	require.NoError(t, s.Add("a", 1))

	keys := s.Keys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"a"}, s.Keys())
}
