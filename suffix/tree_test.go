package suffix_test

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rskv-p/radixkv/radix"
	"github.com/rskv-p/radixkv/suffix"
)

// S1: single-key suffix tree, golden pretty-print.
func TestSuffixTree_SingleKeyGoldenPrint(t *testing.T) {
	tree := suffix.New[int]()
	_, _, err := tree.Put("BANANA", 1)
	require.NoError(t, err)

	want := `○
├── ○ A ([BANANA])
│   └── ○ NA ([BANANA])
│       └── ○ NA ([BANANA])
├── ○ BANANA ([BANANA])
└── ○ NA ([BANANA])
    └── ○ NA ([BANANA])`
	require.Equal(t, want, tree.PrettyPrint())
}

// S2: two-key suffix tree, golden pretty-print.
func TestSuffixTree_TwoKeysGoldenPrint(t *testing.T) {
	tree := suffix.New[int]()
	_, _, err := tree.Put("BANANA", 1)
	require.NoError(t, err)
	_, _, err = tree.Put("BANDANA", 2)
	require.NoError(t, err)

	want := `○
├── ○ A ([BANANA, BANDANA])
│   └── ○ N
│       ├── ○ A ([BANANA, BANDANA])
│       │   └── ○ NA ([BANANA])
│       └── ○ DANA ([BANDANA])
├── ○ BAN
│   ├── ○ ANA ([BANANA])
│   └── ○ DANA ([BANDANA])
├── ○ DANA ([BANDANA])
└── ○ N
    ├── ○ A ([BANANA, BANDANA])
    │   └── ○ NA ([BANANA])
    └── ○ DANA ([BANDANA])`
	require.Equal(t, want, tree.PrettyPrint())
}

// S3: removing the second key returns the tree to the S1 shape.
func TestSuffixTree_RemoveSecondKeyRestoresSingleKeyShape(t *testing.T) {
	tree := suffix.New[int]()
	_, _, err := tree.Put("BANANA", 1)
	require.NoError(t, err)
	_, _, err = tree.Put("BANDANA", 2)
	require.NoError(t, err)

	_, ok := tree.Remove("BANDANA")
	require.True(t, ok)

	want := `○
├── ○ A ([BANANA])
│   └── ○ NA ([BANANA])
│       └── ○ NA ([BANANA])
├── ○ BANANA ([BANANA])
└── ○ NA ([BANANA])
    └── ○ NA ([BANANA])`
	require.Equal(t, want, tree.PrettyPrint())

	_, ok = tree.GetValueForExactKey("BANDANA")
	require.False(t, ok)
}

// S4: removing the first key leaves only BANDANA indexed.
func TestSuffixTree_RemoveFirstKeyGoldenPrint(t *testing.T) {
	tree := suffix.New[int]()
	_, _, err := tree.Put("BANANA", 1)
	require.NoError(t, err)
	_, _, err = tree.Put("BANDANA", 2)
	require.NoError(t, err)

	_, ok := tree.Remove("BANANA")
	require.True(t, ok)

	want := `○
├── ○ A ([BANDANA])
│   └── ○ N
│       ├── ○ A ([BANDANA])
│       └── ○ DANA ([BANDANA])
├── ○ BANDANA ([BANDANA])
├── ○ DANA ([BANDANA])
└── ○ N
    ├── ○ A ([BANDANA])
    └── ○ DANA ([BANDANA])`
	require.Equal(t, want, tree.PrettyPrint())
}

// S5: substring and suffix queries over {BANANA, BANDANA}.
func TestSuffixTree_SubstringAndSuffixQueries(t *testing.T) {
	tree := suffix.New[int]()
	_, _, err := tree.Put("BANANA", 1)
	require.NoError(t, err)
	_, _, err = tree.Put("BANDANA", 2)
	require.NoError(t, err)

	cases := []struct {
		query string
		want  []string
	}{
		{"ANAN", []string{"BANANA"}},
		{"DA", []string{"BANDANA"}},
		{"AN", []string{"BANANA", "BANDANA"}},
		{"APPLE", nil},
		{"", []string{"BANANA", "BANDANA"}},
	}
	for _, c := range cases {
		got := sortedCopy(tree.GetKeysContaining(c.query))
		require.ElementsMatch(t, c.want, got, "GetKeysContaining(%q)", c.query)
	}

	suffixCases := []struct {
		query string
		want  []string
	}{
		{"ANA", []string{"BANANA", "BANDANA"}},
		{"DANA", []string{"BANDANA"}},
		{"BAN", nil},
		{"", nil},
	}
	for _, c := range suffixCases {
		got := sortedCopy(tree.GetKeysEndingWith(c.query))
		require.ElementsMatch(t, c.want, got, "GetKeysEndingWith(%q)", c.query)
	}
}

func TestSuffixTree_DuplicatePutUpdatesValueWithoutReindexing(t *testing.T) {
	tree := suffix.New[int]()
	_, had, err := tree.Put("BANANA", 1)
	require.NoError(t, err)
	require.False(t, had)

	old, had, err := tree.Put("BANANA", 2)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, 1, old)

	v, ok := tree.GetValueForExactKey("BANANA")
	require.True(t, ok)
	require.Equal(t, 2, v)

	require.ElementsMatch(t, []string{"BANANA"}, tree.GetKeysContaining("AN"))
}

func TestSuffixTree_PutIfAbsentKeepsFirstValue(t *testing.T) {
	tree := suffix.New[string]()
	_, had, err := tree.PutIfAbsent("BANANA", "v1")
	require.NoError(t, err)
	require.False(t, had)

	existing, had, err := tree.PutIfAbsent("BANANA", "v2")
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "v1", existing)
}

func TestSuffixTree_EmptyKeyRejected(t *testing.T) {
	tree := suffix.New[int]()
	_, _, err := tree.Put("", 1)
	require.Error(t, err)
}

func TestSuffixTree_NilValueRejected(t *testing.T) {
	tree := suffix.New[*int]()
	_, _, err := tree.Put("BANANA", nil)
	require.ErrorIs(t, err, radix.ErrNilValue)
}

// Concurrent writers indexing keys that share a suffix must not lose
// each other's originals-set entries: every key here ends in "ANA",
// so every Put races to add itself to the same suffix-tree entries
// ("ANA", "NA", "A"). A non-atomic read-then-Put race would let one
// writer's entry silently vanish from those shared sets.
func TestSuffixTree_ConcurrentSharedSuffixWritesLoseNoEntries(t *testing.T) {
	tree := suffix.New[int]()

	const writers = 16
	keys := make([]string, writers)
	for i := range keys {
		keys[i] = fmt.Sprintf("BAN%02dANA", i)
	}

	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()
			_, _, err := tree.Put(key, i)
			require.NoError(t, err)
		}(i, key)
	}
	wg.Wait()

	for _, suffixQuery := range []string{"ANA", "NA", "A"} {
		got := sortedCopy(tree.GetKeysEndingWith(suffixQuery))
		require.ElementsMatch(t, keys, got, "GetKeysEndingWith(%q) after concurrent writes", suffixQuery)
	}

	for i, key := range keys {
		v, ok := tree.GetValueForExactKey(key)
		require.True(t, ok, "key %q missing after concurrent writes", key)
		require.Equal(t, i, v)
	}
}

// Concurrent removers of keys sharing a suffix must not let one
// goroutine's CompareAndRemove/CompareAndSwap clobber another's update
// to the same shared originals set.
func TestSuffixTree_ConcurrentSharedSuffixRemovesLoseNoEntries(t *testing.T) {
	tree := suffix.New[int]()

	const total = 16
	keys := make([]string, total)
	for i := range keys {
		keys[i] = fmt.Sprintf("BAN%02dANA", i)
		_, _, err := tree.Put(keys[i], i)
		require.NoError(t, err)
	}

	removed, kept := keys[:total/2], keys[total/2:]

	var wg sync.WaitGroup
	for _, key := range removed {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			_, ok := tree.Remove(key)
			require.True(t, ok)
		}(key)
	}
	wg.Wait()

	got := sortedCopy(tree.GetKeysEndingWith("ANA"))
	require.ElementsMatch(t, kept, got)

	for _, key := range removed {
		_, ok := tree.GetValueForExactKey(key)
		require.False(t, ok)
	}
	for _, key := range kept {
		_, ok := tree.GetValueForExactKey(key)
		require.True(t, ok)
	}
}

func sortedCopy(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}
