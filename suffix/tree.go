package suffix

import (
	"sync"

	"github.com/rskv-p/radixkv/radix"
)

// logger is the minimal diagnostic sink SuffixTree needs; satisfied
// structurally by internal/xlog.Logger.
type logger interface {
	Debugw(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
}

type noopLogger struct{}

func (noopLogger) Debugw(string, ...any) {}
func (noopLogger) Warnw(string, ...any)  {}
func (noopLogger) Errorw(string, ...any) {}

// maxCASRetries bounds the optimistic originals-set replacement loop
// in §4.4/§5. A collision means another writer republished the same
// suffix entry between our read and our write; a handful of retries
// is enough to make forward progress under any realistic contention,
// and an unbounded loop would turn a producer fault in a concurrent
// writer into a livelock here instead of a clean error.
const maxCASRetries = 8

// Option configures a SuffixTree at construction time.
type Option[V any] func(*SuffixTree[V])

// WithMode selects the internal radix tree's concurrency strategy.
func WithMode[V any](m radix.Mode) Option[V] {
	return func(t *SuffixTree[V]) { t.mode = m }
}

// WithFactory overrides the internal radix tree's node factory.
func WithFactory[V any](f radix.NodeFactory[keySet]) Option[V] {
	return func(t *SuffixTree[V]) { t.factory = f }
}

// WithLogger attaches a diagnostic logger.
func WithLogger[V any](l logger) Option[V] {
	return func(t *SuffixTree[V]) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithOriginalKeySet installs the createSetForOriginalKeys hook
// (default NewConcurrentOriginalKeySet).
func WithOriginalKeySet[V any](f func() OriginalKeySet) Option[V] {
	return func(t *SuffixTree[V]) {
		if f != nil {
			t.newOriginals = f
		}
	}
}

// SuffixTree indexes every suffix of each inserted key into an
// internal radix tree whose values are sets of original keys, per
// §4.4. A separate key→value map and originals set hold the caller's
// own values and detect duplicate puts without re-indexing suffixes.
type SuffixTree[V any] struct {
	mode    radix.Mode
	factory radix.NodeFactory[keySet]
	logger  logger

	newOriginals func() OriginalKeySet

	suffixes  *radix.RadixTree[keySet]
	originals OriginalKeySet

	valuesMu sync.RWMutex
	values   map[string]V
}

// New constructs an empty SuffixTree.
func New[V any](opts ...Option[V]) *SuffixTree[V] {
	t := &SuffixTree[V]{
		mode:         radix.ModeLockFree,
		factory:      radix.DefaultFactory[keySet]{},
		logger:       noopLogger{},
		newOriginals: NewConcurrentOriginalKeySet,
		values:       make(map[string]V),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.originals = t.newOriginals()
	t.suffixes = radix.New[keySet](radix.WithMode[keySet](t.mode), radix.WithFactory[keySet](t.factory))
	return t
}

// Put inserts or replaces key's value, returning the previous value
// and whether one was present.
func (t *SuffixTree[V]) Put(key string, value V) (V, bool, error) {
	return t.put(key, value, false)
}

// PutIfAbsent inserts key's value only if key is not already indexed.
func (t *SuffixTree[V]) PutIfAbsent(key string, value V) (V, bool, error) {
	return t.put(key, value, true)
}

func (t *SuffixTree[V]) put(key string, value V, ifAbsent bool) (V, bool, error) {
	var zero V
	if key == "" {
		return zero, false, radix.ErrEmptyKey
	}
	if isNilValue(value) {
		return zero, false, radix.ErrNilValue
	}

	if t.originals.Contains(key) {
		t.valuesMu.Lock()
		old, had := t.values[key]
		if !ifAbsent {
			t.values[key] = value
		}
		t.valuesMu.Unlock()
		return old, had, nil
	}

	for i := 0; i < len(key); i++ {
		t.addOriginalToSuffix(key[i:], key)
	}
	t.originals.Add(key)

	t.valuesMu.Lock()
	t.values[key] = value
	t.valuesMu.Unlock()
	return zero, false, nil
}

// addOriginalToSuffix adds originalKey to the set stored at suffix,
// via the optimistic read-build-compare-and-set loop described in
// §4.4/§5: read the current set (absent counts as empty), build the
// superset, and publish it through radix.RadixTree.CompareAndSwap,
// which only takes effect if the slot still holds exactly what was
// read. A bare Put cannot do this safely: it always overwrites
// unconditionally, so two goroutines racing to add to the same shared
// suffix (e.g. inserting "BANANA" and "BANDANA" concurrently, which
// share suffix "ANA") can each read the same before-state and one can
// clobber the other's write with no collision ever observed. Because
// CompareAndSwap fails closed whenever the read-to-write window was
// raced, a failed attempt always re-reads the post-collision state
// before retrying, so no update is ever silently dropped.
func (t *SuffixTree[V]) addOriginalToSuffix(suffix, originalKey string) {
	for attempt := 0; attempt < maxCASRetries; attempt++ {
		before, hadBefore := t.suffixes.GetValueForExactKey(suffix)
		next := before.withAdded(originalKey)
		if hadBefore && before.equal(next) {
			return
		}
		swapped, _ := t.suffixes.CompareAndSwap(suffix, hadBefore, before, next, keySet.equal)
		if swapped {
			return
		}
		t.logger.Debugw("suffix originals CAS retry", "suffix", suffix, "attempt", attempt)
	}
	t.logger.Warnw("suffix originals CAS exhausted retries, forcing write", "suffix", suffix)
	before, hadBefore := t.suffixes.GetValueForExactKey(suffix)
	next := before.withAdded(originalKey)
	if !hadBefore {
		next = newKeySet(originalKey)
	}
	t.suffixes.Put(suffix, next)
}

// removeOriginalFromSuffix mirrors addOriginalToSuffix for deletion,
// using radix.RadixTree.CompareAndRemove/CompareAndSwap so the
// read-modify-write is a single atomic step under the radix tree's
// writer lock rather than a Put whose success is inferred after the
// fact: if the set becomes empty, the suffix entry itself is removed
// from the radix tree rather than left as an empty-set leaf.
func (t *SuffixTree[V]) removeOriginalFromSuffix(suffix, originalKey string) {
	for attempt := 0; attempt < maxCASRetries; attempt++ {
		before, hadBefore := t.suffixes.GetValueForExactKey(suffix)
		if !hadBefore {
			return
		}
		next, nonEmpty := before.withRemoved(originalKey)
		if !nonEmpty {
			removed, _ := t.suffixes.CompareAndRemove(suffix, before, keySet.equal)
			if removed {
				return
			}
			t.logger.Debugw("suffix originals CAS retry (remove)", "suffix", suffix, "attempt", attempt)
			continue
		}
		swapped, _ := t.suffixes.CompareAndSwap(suffix, true, before, next, keySet.equal)
		if swapped {
			return
		}
		t.logger.Debugw("suffix originals CAS retry (remove)", "suffix", suffix, "attempt", attempt)
	}
	t.logger.Warnw("suffix originals CAS exhausted retries, forcing remove", "suffix", suffix)
	before, hadBefore := t.suffixes.GetValueForExactKey(suffix)
	if !hadBefore {
		return
	}
	next, nonEmpty := before.withRemoved(originalKey)
	if nonEmpty {
		t.suffixes.Put(suffix, next)
	} else {
		t.suffixes.Remove(suffix)
	}
}

// Remove deletes key, returning its value and whether it was present.
func (t *SuffixTree[V]) Remove(key string) (V, bool) {
	var zero V
	if key == "" || !t.originals.Contains(key) {
		return zero, false
	}
	for i := 0; i < len(key); i++ {
		t.removeOriginalFromSuffix(key[i:], key)
	}
	t.originals.Remove(key)

	t.valuesMu.Lock()
	old, had := t.values[key]
	delete(t.values, key)
	t.valuesMu.Unlock()
	if !had {
		return zero, false
	}
	return old, true
}

// GetValueForExactKey returns key's value iff it is currently indexed.
func (t *SuffixTree[V]) GetValueForExactKey(key string) (V, bool) {
	var zero V
	if key == "" || !t.originals.Contains(key) {
		return zero, false
	}
	t.valuesMu.RLock()
	defer t.valuesMu.RUnlock()
	v, ok := t.values[key]
	if !ok {
		return zero, false
	}
	return v, true
}

// GetKeysEndingWith returns every original key k such that
// k endsWith suffix. suffix == "" always returns the empty set: the
// deliberate asymmetry with GetKeysContaining("") noted in §9.
func (t *SuffixTree[V]) GetKeysEndingWith(suffix string) []string {
	set, _ := t.suffixes.GetValueForExactKey(suffix)
	return set.keys
}

// GetKeysContaining returns every original key k such that substring
// is a substring of k. The empty string matches every indexed key.
func (t *SuffixTree[V]) GetKeysContaining(substring string) []string {
	if substring == "" {
		return t.originals.Keys()
	}
	union := keySet{}
	entries := t.suffixes.Entries(substring)
	for {
		has, err := entries.HasNext()
		if err != nil || !has {
			break
		}
		entry, err := entries.Next()
		if err != nil {
			break
		}
		union = union.union(entry.Value)
	}
	return union.keys
}

// PrettyPrint renders the internal suffix-indexed radix tree using
// the bracketed-originals-list value form from §6.
func (t *SuffixTree[V]) PrettyPrint() string {
	return t.suffixes.PrettyPrint(formatKeySet)
}
