package negotiate

import "github.com/cockroachdb/errors"

// Enumerator is one side of the count-then-fill protocol used for every
// variable-length driver query. Called with a nil buffer it reports how many
// elements are available. Called with a buffer it copies up to len(buf)
// elements and again reports how many are available, which may differ from
// the first answer if the set changed in between.
type Enumerator[T any] func(buf []T) (int, error)

const maxEnumerateAttempts = 8

// Enumerate runs an Enumerator to completion and returns the elements in the
// order the driver reported them.
func Enumerate[T any](enumerate Enumerator[T]) ([]T, error) {
	for attempt := 0; attempt < maxEnumerateAttempts; attempt++ {
		count, err := enumerate(nil)
		if err != nil {
			return nil, err
		}
		if count <= 0 {
			return nil, nil
		}

		buf := make([]T, count)
		available, err := enumerate(buf)
		if err != nil {
			return nil, err
		}

		if available > count {
			continue
		}
		return buf[:available], nil
	}

	return nil, errors.WithStack(ErrIncompleteEnumeration)
}

// FillFrom implements the fill side of the protocol over an already
// materialized slice, for bindings whose API returns whole lists.
func FillFrom[T any](src []T, buf []T) int {
	copy(buf, src)
	return len(src)
}
