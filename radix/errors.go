package radix

import "errors"

// Error taxonomy for the radix tree and its lazy cursor. Kinds, not
// names: callers should compare with errors.Is against these sentinels.
var (
	// ErrEmptyKey is returned by Put, PutIfAbsent and CompareAndSwap
	// given an empty key. Remove and CompareAndRemove do not return it:
	// they report an empty key as not present.
	ErrEmptyKey = errors.New("radix: key must not be empty")

	// ErrNilValue is returned by Put/PutIfAbsent given an absent value
	// where the caller must supply one.
	ErrNilValue = errors.New("radix: value must not be absent")

	// ErrNoSuchElement is returned by Next on an exhausted cursor.
	ErrNoSuchElement = errors.New("radix: no such element")

	// ErrIllegalState is returned by HasNext on a poisoned cursor, i.e.
	// one whose producer already raised an error on a prior call.
	ErrIllegalState = errors.New("radix: iterator is in an illegal state")

	// ErrUnsupportedOperation is returned by Cursor.Remove.
	ErrUnsupportedOperation = errors.New("radix: remove is not supported on this cursor")
)
