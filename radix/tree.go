package radix

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// Mode selects which of the two concurrency strategies from §5 a
// RadixTree uses.
type Mode int

const (
	// ModeLockFree serializes writers behind a mutex but lets readers
	// proceed without any lock, loading the root through an atomic
	// pointer. This is the default.
	ModeLockFree Mode = iota
	// ModeRWLock uses a single reader/writer mutex: any number of
	// concurrent readers, one exclusive writer, writes exclude reads.
	ModeRWLock
)

// nodeBox lets the tree swap "the current root" with a single atomic
// pointer store, since Node[V] is an interface value and can't be
// stored in an atomic.Pointer directly.
type nodeBox[V any] struct {
	root Node[V]
}

// RadixTree is the mutable container described in §4.3: it holds the
// root and a mutation lock, and implements Put/PutIfAbsent/Remove and
// the prefix queries on top of SearchWalk and a copy-on-write edit
// routine. The zero value is not usable; construct with New.
type RadixTree[V any] struct {
	mode         Mode
	factory      NodeFactory[V]
	logger       logger
	transformKey func(string) string

	box      atomic.Pointer[nodeBox[V]]
	writerMu sync.Mutex
	rw       sync.RWMutex
}

// Option configures a RadixTree at construction time.
type Option[V any] func(*RadixTree[V])

// WithMode selects the concurrency strategy (default ModeLockFree).
func WithMode[V any](m Mode) Option[V] {
	return func(t *RadixTree[V]) { t.mode = m }
}

// WithFactory overrides the default node factory.
func WithFactory[V any](f NodeFactory[V]) Option[V] {
	return func(t *RadixTree[V]) { t.factory = f }
}

// WithLogger attaches a diagnostic logger. Absent one, a no-op logger
// is used; see internal/xlog for the shipped implementation.
func WithLogger[V any](l logger) Option[V] {
	return func(t *RadixTree[V]) {
		if l != nil {
			t.logger = l
		}
	}
}

// New constructs an empty RadixTree.
func New[V any](opts ...Option[V]) *RadixTree[V] {
	t := &RadixTree[V]{
		mode:    ModeLockFree,
		factory: DefaultFactory[V]{},
		logger:  noopLogger{},
	}
	for _, opt := range opts {
		opt(t)
	}
	var zero V
	root := t.factory.NewNode("", zero, false, nil, true)
	t.box.Store(&nodeBox[V]{root: root})
	return t
}

// loadRoot returns the currently published root. In ModeRWLock it
// takes the read lock; in ModeLockFree it takes none.
func (t *RadixTree[V]) loadRoot() Node[V] {
	if t.mode == ModeRWLock {
		t.rw.RLock()
		defer t.rw.RUnlock()
	}
	return t.box.Load().root
}

// lockWriter acquires the appropriate exclusive lock for the tree's
// mode and returns the matching unlock function.
func (t *RadixTree[V]) lockWriter() func() {
	if t.mode == ModeRWLock {
		t.rw.Lock()
		return t.rw.Unlock
	}
	t.writerMu.Lock()
	return t.writerMu.Unlock
}

// publishRoot installs newRoot as the tree's current root. Must only
// be called while the writer lock is held.
func (t *RadixTree[V]) publishRoot(newRoot Node[V]) {
	t.box.Store(&nodeBox[V]{root: newRoot})
}

// republish rebuilds every ancestor in the chain bottom-up, splicing
// replacement into the position ancestors[last] points to, and
// returns what the new root becomes. If ancestors is empty,
// replacement is itself the new root.
func (t *RadixTree[V]) republish(ancestors []ancestorFrame[V], replacement Node[V]) Node[V] {
	child := replacement
	for i := len(ancestors) - 1; i >= 0; i-- {
		a := ancestors[i]
		children := append([]Node[V](nil), a.node.Children()...)
		children[a.childIdx] = child
		child = t.factory.NewNode(a.node.Label(), a.node.Value(), a.node.HasValue(), children, a.node.IsRoot())
	}
	return child
}

// isNilValue reports whether value is the "absent value" spec.md §7
// rejects from Put/PutIfAbsent. V is constrained only to `any`, so
// there is no compile-time nil check available for every
// instantiation; reflection is the only way to recognize nil for the
// subset of kinds (pointer, interface, map, slice, chan, func) where
// nil is representable at all. For every other kind (int, string, a
// plain struct, ...) no value is ever "absent" and this reports false.
func isNilValue(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

func removeChildAt[V any](children []Node[V], idx int) []Node[V] {
	out := make([]Node[V], 0, len(children)-1)
	out = append(out, children[:idx]...)
	out = append(out, children[idx+1:]...)
	return out
}

// Put inserts or replaces key's value, returning the previous value
// and whether one was present. Rejects an empty key with ErrEmptyKey
// and an absent value (nil, for any V whose kind can be nil) with
// ErrNilValue.
func (t *RadixTree[V]) Put(key string, value V) (V, bool, error) {
	var zero V
	if key == "" {
		return zero, false, ErrEmptyKey
	}
	if isNilValue(value) {
		return zero, false, ErrNilValue
	}
	unlock := t.lockWriter()
	defer unlock()
	old, had := t.putLocked(key, value, false)
	return old, had, nil
}

// PutIfAbsent inserts key's value only if no value is currently stored
// for it, returning the existing value (if any) and leaving the tree
// unchanged in that case.
func (t *RadixTree[V]) PutIfAbsent(key string, value V) (V, bool, error) {
	var zero V
	if key == "" {
		return zero, false, ErrEmptyKey
	}
	if isNilValue(value) {
		return zero, false, ErrNilValue
	}
	unlock := t.lockWriter()
	defer unlock()
	old, had := t.putLocked(key, value, true)
	return old, had, nil
}

// putLocked performs the classification and republication shared by
// Put and PutIfAbsent; the caller must already hold the writer lock.
// When ifAbsent is true and the key already has a value, no mutation
// occurs and that value is returned.
func (t *RadixTree[V]) putLocked(key string, value V, ifAbsent bool) (V, bool) {
	defer t.logProducerFault("put", key)
	var zero V
	res := searchWalk(t.box.Load().root, key)

	switch res.outcome {
	case exactMatch:
		had := res.nodeFound.HasValue()
		old := res.nodeFound.Value()
		if had && ifAbsent {
			return old, true
		}
		rebuilt := t.factory.NewNode(res.nodeFound.Label(), value, true, res.nodeFound.Children(), res.nodeFound.IsRoot())
		t.publishRoot(t.republish(res.ancestors, rebuilt))
		if had {
			return old, true
		}
		return zero, false

	case keyEndsMidEdge:
		label := res.nodeFound.Label()
		common := res.charsMatchedInNodeFound
		lower := t.factory.NewNode(label[common:], res.nodeFound.Value(), res.nodeFound.HasValue(), res.nodeFound.Children(), false)
		upper := t.factory.NewNode(label[:common], value, true, []Node[V]{lower}, false)
		t.publishRoot(t.republish(res.ancestors, upper))
		return zero, false

	case incompleteCharsInEdge:
		label := res.nodeFound.Label()
		common := res.charsMatchedInNodeFound
		lower := t.factory.NewNode(label[common:], res.nodeFound.Value(), res.nodeFound.HasValue(), res.nodeFound.Children(), false)
		leaf := t.factory.NewNode(key[res.charsMatched:], value, true, nil, false)
		upper := t.factory.NewNode(label[:common], zero, false, []Node[V]{lower, leaf}, false)
		t.publishRoot(t.republish(res.ancestors, upper))
		return zero, false

	default: // noSubTree, matchRoot
		leaf := t.factory.NewNode(key[res.charsMatched:], value, true, nil, false)
		children := append(append([]Node[V]{}, res.nodeFound.Children()...), leaf)
		rebuilt := t.factory.NewNode(res.nodeFound.Label(), res.nodeFound.Value(), res.nodeFound.HasValue(), children, res.nodeFound.IsRoot())
		t.publishRoot(t.republish(res.ancestors, rebuilt))
		return zero, false
	}
}

// Remove deletes key, returning its value and whether it was present.
func (t *RadixTree[V]) Remove(key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}
	unlock := t.lockWriter()
	defer unlock()
	defer t.logProducerFault("remove", key)

	res := searchWalk(t.box.Load().root, key)
	if res.outcome != exactMatch || !res.nodeFound.HasValue() {
		return zero, false
	}
	return t.removeLocked(res), true
}

// removeLocked performs the collapse/merge removal of res.nodeFound
// (already classified as an exact, value-bearing match) and returns
// its former value. The caller must already hold the writer lock and
// must have already verified res.outcome == exactMatch &&
// res.nodeFound.HasValue().
func (t *RadixTree[V]) removeLocked(res walkResult[V]) V {
	var zero V
	removed := res.nodeFound.Value()
	children := res.nodeFound.Children()

	switch len(children) {
	case 0:
		parent, hasParent := res.parent()
		if !hasParent {
			t.publishRoot(t.factory.NewNode(res.nodeFound.Label(), zero, false, nil, res.nodeFound.IsRoot()))
			return removed
		}
		childIdx := res.ancestors[len(res.ancestors)-1].childIdx
		grandAncestors := res.ancestors[:len(res.ancestors)-1]
		remaining := removeChildAt(parent.Children(), childIdx)

		if !parent.IsRoot() && !parent.HasValue() && len(remaining) == 1 {
			only := remaining[0]
			merged := t.factory.NewNode(parent.Label()+only.Label(), only.Value(), only.HasValue(), only.Children(), false)
			t.publishRoot(t.republish(grandAncestors, merged))
			return removed
		}
		rebuiltParent := t.factory.NewNode(parent.Label(), parent.Value(), parent.HasValue(), remaining, parent.IsRoot())
		t.publishRoot(t.republish(grandAncestors, rebuiltParent))
		return removed

	case 1:
		only := children[0]
		merged := t.factory.NewNode(res.nodeFound.Label()+only.Label(), only.Value(), only.HasValue(), only.Children(), false)
		t.publishRoot(t.republish(res.ancestors, merged))
		return removed

	default:
		rebuilt := t.factory.NewNode(res.nodeFound.Label(), zero, false, children, res.nodeFound.IsRoot())
		t.publishRoot(t.republish(res.ancestors, rebuilt))
		return removed
	}
}

// CompareAndSwap atomically replaces key's value with newValue iff
// key's current state matches the expectation the caller read
// earlier: hadOld reports whether a value was expected to be present
// at all, old is the value expected if hadOld is true, and equal
// compares two V for the caller's notion of equality (V is
// constrained only to `any`, so no comparison operator is available
// without one). The whole read-compare-write sequence runs under the
// writer lock, so no other writer can interleave between the
// comparison and the publish — this is the primitive §4.4/§5's
// optimistic originals-set replacement needs and a bare Put cannot
// provide, since Put always overwrites unconditionally regardless of
// what it finds. Returns whether the swap took place.
func (t *RadixTree[V]) CompareAndSwap(key string, hadOld bool, old V, newValue V, equal func(V, V) bool) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	if isNilValue(newValue) {
		return false, ErrNilValue
	}
	unlock := t.lockWriter()
	defer unlock()
	defer t.logProducerFault("compareAndSwap", key)

	res := searchWalk(t.box.Load().root, key)
	curHad := res.outcome == exactMatch && res.nodeFound.HasValue()
	if curHad != hadOld {
		return false, nil
	}
	if curHad && !equal(res.nodeFound.Value(), old) {
		return false, nil
	}
	t.putLocked(key, newValue, false)
	return true, nil
}

// CompareAndRemove atomically removes key iff it currently holds a
// value equal (per equal) to old, under the same single-critical-
// section discipline as CompareAndSwap. Returns whether the removal
// took place.
func (t *RadixTree[V]) CompareAndRemove(key string, old V, equal func(V, V) bool) (bool, error) {
	if key == "" {
		return false, nil
	}
	unlock := t.lockWriter()
	defer unlock()
	defer t.logProducerFault("compareAndRemove", key)

	res := searchWalk(t.box.Load().root, key)
	if res.outcome != exactMatch || !res.nodeFound.HasValue() {
		return false, nil
	}
	if !equal(res.nodeFound.Value(), old) {
		return false, nil
	}
	t.removeLocked(res)
	return true, nil
}

// GetValueForExactKey returns key's value and true iff key is a
// key-terminal.
func (t *RadixTree[V]) GetValueForExactKey(key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}
	res := searchWalk(t.loadRoot(), key)
	if res.outcome == exactMatch && res.nodeFound.HasValue() {
		return res.nodeFound.Value(), true
	}
	return zero, false
}

// logProducerFault logs a panic raised by the node factory (or any
// other caller-supplied collaborator) before letting it propagate
// unchanged, per §7: the writer lock already guarantees no partial
// mutation is observable, since publishRoot is only ever reached after
// every replacement node has been built successfully.
func (t *RadixTree[V]) logProducerFault(op, key string) {
	if r := recover(); r != nil {
		t.logger.Errorw("producer fault", "op", op, "key", key, "panic", r)
		panic(r)
	}
}
