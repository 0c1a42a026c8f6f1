// Package reversed wraps a radix tree to answer suffix-shaped queries
// by reversing keys on the way in and reversing accumulated keys on
// the way out, per spec.md §4.5.
package reversed

import (
	"github.com/rskv-p/radixkv/radix"
)

// ReversedTree delegates every operation to an internal radix tree,
// reversing keys on ingress (put, putIfAbsent, remove,
// getValueForExactKey) and installing a transformKeyForResult hook
// that reverses keys on egress, so that a prefix query on the reversed
// string answers a suffix query on the original.
type ReversedTree[V any] struct {
	inner *radix.RadixTree[V]
}

// Option configures a ReversedTree at construction time.
type Option[V any] func(*radix.RadixTree[V])

// WithMode selects the internal radix tree's concurrency strategy.
func WithMode[V any](m radix.Mode) Option[V] {
	return Option[V](radix.WithMode[V](m))
}

// WithFactory overrides the internal radix tree's node factory.
func WithFactory[V any](f radix.NodeFactory[V]) Option[V] {
	return Option[V](radix.WithFactory[V](f))
}

// WithLogger attaches a diagnostic logger to the internal radix tree.
func WithLogger[V any](l interface {
	Debugw(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
}) Option[V] {
	return Option[V](radix.WithLogger[V](l))
}

// New constructs an empty ReversedTree.
func New[V any](opts ...Option[V]) *ReversedTree[V] {
	all := append([]Option[V]{Option[V](radix.WithKeyTransform[V](reverseString))}, opts...)
	converted := make([]radix.Option[V], len(all))
	for i, o := range all {
		converted[i] = radix.Option[V](o)
	}
	return &ReversedTree[V]{inner: radix.New(converted...)}
}

func reverseString(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// Put inserts or replaces key's value, returning the previous value
// and whether one was present.
func (t *ReversedTree[V]) Put(key string, value V) (V, bool, error) {
	return t.inner.Put(reverseString(key), value)
}

// PutIfAbsent inserts key's value only if no value is currently
// stored for it.
func (t *ReversedTree[V]) PutIfAbsent(key string, value V) (V, bool, error) {
	return t.inner.PutIfAbsent(reverseString(key), value)
}

// Remove deletes key, returning its value and whether it was present.
func (t *ReversedTree[V]) Remove(key string) (V, bool) {
	return t.inner.Remove(reverseString(key))
}

// GetValueForExactKey returns key's value and true iff key is a
// key-terminal.
func (t *ReversedTree[V]) GetValueForExactKey(key string) (V, bool) {
	return t.inner.GetValueForExactKey(reverseString(key))
}

// GetKeysEndingWith returns every stored key ending with suffix, by
// running suffix reversed as a prefix query on the internal tree.
func (t *ReversedTree[V]) GetKeysEndingWith(suffix string) *radix.Cursor[string] {
	return t.inner.Keys(reverseString(suffix))
}

// ValuesEndingWith returns the values for every stored key ending
// with suffix.
func (t *ReversedTree[V]) ValuesEndingWith(suffix string) *radix.Cursor[V] {
	return t.inner.Values(reverseString(suffix))
}

// EntriesEndingWith returns the (key, value) pairs for every stored
// key ending with suffix, with keys already un-reversed.
func (t *ReversedTree[V]) EntriesEndingWith(suffix string) *radix.Cursor[radix.Entry[V]] {
	return t.inner.Entries(reverseString(suffix))
}

// PrettyPrint renders the internal (reversed-key) radix tree.
func (t *ReversedTree[V]) PrettyPrint(formatValue func(V) string) string {
	return t.inner.PrettyPrint(formatValue)
}
