// Package index implements the row Index: an ordered, possibly non-unique
// sequence of heterogeneous row keys with a display name.
package index

import (
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/value"
)

// NotFound is returned by IndexOf when a key is absent
const NotFound = -1

// DefaultName is the name given to indices created without one
const DefaultName = "index"

// Index is an ordered sequence of row keys
type Index struct {
	name string
	keys []value.Value
}

// New creates an Index over a copy of keys. A nil slice is rejected.
func New(keys []value.Value, name string) (*Index, error) {
	if keys == nil {
		return nil, errors.NewInvalidInputError("NewIndex", "index keys cannot be nil")
	}
	if name == "" {
		name = DefaultName
	}
	return &Index{name: name, keys: append(make([]value.Value, 0, len(keys)), keys...)}, nil
}

// Range creates the canonical 0..n-1 integer index
func Range(n int) *Index {
	keys := make([]value.Value, n)
	for i := range keys {
		keys[i] = value.Int32(int32(i))
	}
	return &Index{name: DefaultName, keys: keys}
}

// Name returns the index display name
func (ix *Index) Name() string { return ix.name }

// SetName renames the index
func (ix *Index) SetName(name string) { ix.name = name }

// Len returns the number of keys
func (ix *Index) Len() int { return len(ix.keys) }

// At returns the key at position i
func (ix *Index) At(i int) value.Value { return ix.keys[i] }

// Keys returns a copy of the keys. The result is never nil.
func (ix *Index) Keys() []value.Value {
	return append(make([]value.Value, 0, len(ix.keys)), ix.keys...)
}

// Append adds one key at the end
func (ix *Index) Append(key value.Value) {
	ix.keys = append(ix.keys, key)
}

// AppendIndex adds all keys of other at the end
func (ix *Index) AppendIndex(other *Index) {
	ix.keys = append(ix.keys, other.keys...)
}

// Insert places key at position pos, shifting later keys right
func (ix *Index) Insert(pos int, key value.Value) error {
	if pos < 0 || pos > len(ix.keys) {
		return errors.ErrInvalidIndex
	}
	ix.keys = append(ix.keys, value.Missing)
	copy(ix.keys[pos+1:], ix.keys[pos:])
	ix.keys[pos] = key
	return nil
}

// Reset replaces the keys with 0..n-1
func (ix *Index) Reset() {
	for i := range ix.keys {
		ix.keys[i] = value.Int32(int32(i))
	}
}

// IndexOf returns the first position of key, or NotFound
func (ix *Index) IndexOf(key value.Value) int {
	for i, k := range ix.keys {
		if value.Equal(k, key) {
			return i
		}
	}
	return NotFound
}

// Clone returns an independent copy
func (ix *Index) Clone() *Index {
	return &Index{name: ix.name, keys: ix.Keys()}
}

// Take returns a new Index holding the keys at the given positions
func (ix *Index) Take(positions []int) *Index {
	keys := make([]value.Value, len(positions))
	for i, p := range positions {
		keys[i] = ix.keys[p]
	}
	return &Index{name: ix.name, keys: keys}
}

// Reverse returns a new Index with keys in reverse order
func (ix *Index) Reverse() *Index {
	n := len(ix.keys)
	keys := make([]value.Value, n)
	for i, k := range ix.keys {
		keys[n-1-i] = k
	}
	return &Index{name: ix.name, keys: keys}
}
