package reversed_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rskv-p/radixkv/reversed"
)

func TestReversedTree_PutGetRemoveRoundTrip(t *testing.T) {
	tree := reversed.New[int]()

	_, had, err := tree.Put("banana", 1)
	require.NoError(t, err)
	require.False(t, had)

	v, ok := tree.GetValueForExactKey("banana")
	require.True(t, ok)
	require.Equal(t, 1, v)

	removed, ok := tree.Remove("banana")
	require.True(t, ok)
	require.Equal(t, 1, removed)

	_, ok = tree.GetValueForExactKey("banana")
	require.False(t, ok)
}

// Property 8: reversed.GetKeysEndingWith(s) equals every key k such
// that reverse(k) startsWith reverse(s).
func TestReversedTree_GetKeysEndingWithMatchesReversedPrefix(t *testing.T) {
	tree := reversed.New[int]()
	keys := map[string]int{"banana": 1, "bandana": 2, "cabana": 3, "apple": 4}
	for k, v := range keys {
		_, _, err := tree.Put(k, v)
		require.NoError(t, err)
	}

	var got []string
	cur := tree.GetKeysEndingWith("ana")
	for {
		has, err := cur.HasNext()
		require.NoError(t, err)
		if !has {
			break
		}
		k, err := cur.Next()
		require.NoError(t, err)
		got = append(got, k)
	}
	require.ElementsMatch(t, []string{"banana", "bandana", "cabana"}, got)
}

func TestReversedTree_EntriesEndingWithUnreversesKeys(t *testing.T) {
	tree := reversed.New[string]()
	_, _, err := tree.Put("testing", "a")
	require.NoError(t, err)
	_, _, err = tree.Put("running", "b")
	require.NoError(t, err)
	_, _, err = tree.Put("apple", "c")
	require.NoError(t, err)

	var gotKeys []string
	var gotValues []string
	cur := tree.EntriesEndingWith("ing")
	for {
		has, err := cur.HasNext()
		require.NoError(t, err)
		if !has {
			break
		}
		e, err := cur.Next()
		require.NoError(t, err)
		gotKeys = append(gotKeys, e.Key)
		gotValues = append(gotValues, e.Value)
	}
	require.ElementsMatch(t, []string{"testing", "running"}, gotKeys)
	require.ElementsMatch(t, []string{"a", "b"}, gotValues)
}

func TestReversedTree_PutIfAbsentKeepsFirstValue(t *testing.T) {
	tree := reversed.New[string]()
	_, had, err := tree.PutIfAbsent("banana", "v1")
	require.NoError(t, err)
	require.False(t, had)

	existing, had, err := tree.PutIfAbsent("banana", "v2")
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "v1", existing)
}
