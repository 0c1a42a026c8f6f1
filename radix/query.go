package radix

// WithKeyTransform installs the transformKeyForResult hook from §4.3:
// every accumulated key leaving a prefix query is passed through f
// before being published to the caller. The default is identity; the
// reversed-tree wrapper installs one that reverses keys.
func WithKeyTransform[V any](f func(string) string) Option[V] {
	return func(t *RadixTree[V]) { t.transformKey = f }
}

// subtreeRoot walks prefix and returns the node whose path has prefix
// as a prefix (the root of the subtree a prefix query ranges over),
// and the key accumulated to reach it, or false if no such subtree
// exists. Both EXACT_MATCH and KEY_ENDS_MID_EDGE count, per §4.3;
// classifying an empty prefix always succeeds at the true root.
func (t *RadixTree[V]) subtreeRoot(prefix string) (Node[V], string, bool) {
	root := t.loadRoot()
	if prefix == "" {
		return root, "", true
	}
	res := searchWalk(root, prefix)
	switch res.outcome {
	case exactMatch, keyEndsMidEdge:
		rootKey := prefix[:res.charsMatched-res.charsMatchedInNodeFound]
		return res.nodeFound, rootKey, true
	default:
		return nil, "", false
	}
}

// entryProducer returns the underlying pull function shared by Keys,
// Values and Entries: the next (key, node) pair with a present value
// in the subtree rooted at prefix, pre-order, key already passed
// through transformKeyForResult.
func (t *RadixTree[V]) entryProducer(prefix string) func() (Entry[V], bool, error) {
	root, rootKey, ok := t.subtreeRoot(prefix)
	if !ok {
		root, rootKey = nil, ""
	}
	traversal := newLazyTraversal(root, rootKey)
	transform := t.transformKey
	if transform == nil {
		transform = identity
	}
	return func() (Entry[V], bool, error) {
		for {
			key, node, ok := traversal.computeNext()
			if !ok {
				var zero Entry[V]
				return zero, false, nil
			}
			if node.HasValue() {
				return Entry[V]{Key: transform(key), Value: node.Value()}, true, nil
			}
		}
	}
}

func identity(s string) string { return s }

// Entries returns a lazily-materialized cursor over every stored
// (key, value) pair whose key has prefix as a prefix.
func (t *RadixTree[V]) Entries(prefix string) *Cursor[Entry[V]] {
	return newCursor(t.entryProducer(prefix))
}

// Keys returns a lazily-materialized cursor over every stored key
// with prefix as a prefix.
func (t *RadixTree[V]) Keys(prefix string) *Cursor[string] {
	produce := t.entryProducer(prefix)
	return newCursor(func() (string, bool, error) {
		e, ok, err := produce()
		return e.Key, ok, err
	})
}

// Values returns a lazily-materialized cursor over every stored value
// whose key has prefix as a prefix.
func (t *RadixTree[V]) Values(prefix string) *Cursor[V] {
	produce := t.entryProducer(prefix)
	return newCursor(func() (V, bool, error) {
		e, ok, err := produce()
		return e.Value, ok, err
	})
}
