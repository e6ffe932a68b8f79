// Package lookup provides a multimap from 1, 2 or 3 value tuples to the row
// positions holding them. It backs key-based merges.
package lookup

import (
	xxhash "github.com/cespare/xxhash/v2"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/value"
)

// MaxKeys is the largest supported tuple arity
const MaxKeys = 3

const (
	capacityFactor = 1.5
	loadFactor     = 0.75
	growthFactor   = 2
)

// Index maps key tuples to ascending row positions.
// Tuples are hashed with xxhash over value.AppendKey; collisions are
// resolved by tuple equality.
type Index struct {
	arity    int
	buckets  [][]entry
	capacity int
	size     int
	scratch  []byte
}

type entry struct {
	hash      uint64
	key       [MaxKeys]value.Value
	positions []int
}

// Build indexes rows, where rows[i] is the key tuple of row position i.
// Every tuple must have the same arity, between 1 and MaxKeys.
func Build(rows [][]value.Value) (*Index, error) {
	if len(rows) == 0 {
		return &Index{capacity: 1, buckets: make([][]entry, 1)}, nil
	}
	arity := len(rows[0])
	ix, err := newIndex(arity, len(rows))
	if err != nil {
		return nil, err
	}
	for pos, row := range rows {
		if len(row) != arity {
			return nil, errors.NewLengthMismatchError("LookupBuild", "key tuple", arity, len(row))
		}
		ix.put(row, pos)
	}
	return ix, nil
}

// FromColumns indexes the row-wise tuples formed by parallel key columns
func FromColumns(columns ...[]value.Value) (*Index, error) {
	if len(columns) == 0 || len(columns) > MaxKeys {
		return nil, errors.NewUnsupportedError("LookupBuild", "",
			"lookup supports 1 to 3 key columns")
	}
	n := len(columns[0])
	for _, col := range columns[1:] {
		if len(col) != n {
			return nil, errors.NewLengthMismatchError("LookupBuild", "key column", n, len(col))
		}
	}
	ix, err := newIndex(len(columns), n)
	if err != nil {
		return nil, err
	}
	key := make([]value.Value, len(columns))
	for pos := 0; pos < n; pos++ {
		for c, col := range columns {
			key[c] = col[pos]
		}
		ix.put(key, pos)
	}
	return ix, nil
}

func newIndex(arity, estimatedSize int) (*Index, error) {
	if arity < 1 || arity > MaxKeys {
		return nil, errors.NewUnsupportedError("LookupBuild", "", "lookup supports 1 to 3 key columns")
	}
	capacity := nextPowerOfTwo(int(float64(estimatedSize) * capacityFactor))
	return &Index{
		arity:    arity,
		buckets:  make([][]entry, capacity),
		capacity: capacity,
	}, nil
}

// Arity returns the tuple length the index was built with
func (ix *Index) Arity() int { return ix.arity }

// Len returns the number of distinct tuples
func (ix *Index) Len() int { return ix.size }

// Contains reports whether the tuple key exists
func (ix *Index) Contains(key ...value.Value) bool {
	return ix.find(key) != nil
}

// Positions returns the ascending row positions holding key, or nil.
// The returned slice must not be modified.
func (ix *Index) Positions(key ...value.Value) []int {
	if e := ix.find(key); e != nil {
		return e.positions
	}
	return nil
}

func (ix *Index) hash(key []value.Value) uint64 {
	buf := ix.scratch[:0]
	for _, v := range key {
		buf = value.AppendKey(buf, v)
	}
	ix.scratch = buf
	return xxhash.Sum64(buf)
}

func (ix *Index) bucket(hash uint64, capacity int) int {
	return int(hash & uint64(capacity-1))
}

func (ix *Index) find(key []value.Value) *entry {
	if len(key) != ix.arity || ix.size == 0 {
		return nil
	}
	// local buffer: lookups may run concurrently
	var buf [64]byte
	b := buf[:0]
	for _, v := range key {
		b = value.AppendKey(b, v)
	}
	h := xxhash.Sum64(b)
	bucket := ix.buckets[ix.bucket(h, ix.capacity)]
	for i := range bucket {
		if bucket[i].hash == h && sameKey(bucket[i].key[:ix.arity], key) {
			return &bucket[i]
		}
	}
	return nil
}

func (ix *Index) put(key []value.Value, pos int) {
	h := ix.hash(key)
	b := ix.bucket(h, ix.capacity)
	for i := range ix.buckets[b] {
		e := &ix.buckets[b][i]
		if e.hash == h && sameKey(e.key[:ix.arity], key) {
			e.positions = append(e.positions, pos)
			return
		}
	}

	e := entry{hash: h, positions: []int{pos}}
	copy(e.key[:], key)
	ix.buckets[b] = append(ix.buckets[b], e)
	ix.size++

	if float64(ix.size) > float64(ix.capacity)*loadFactor {
		ix.resize()
	}
}

// resize doubles the capacity and rehashes all entries
func (ix *Index) resize() {
	capacity := ix.capacity * growthFactor
	buckets := make([][]entry, capacity)
	for _, bucket := range ix.buckets {
		for _, e := range bucket {
			b := ix.bucket(e.hash, capacity)
			buckets[b] = append(buckets[b], e)
		}
	}
	ix.buckets = buckets
	ix.capacity = capacity
}

func sameKey(a, b []value.Value) bool {
	for i := range a {
		if !value.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// nextPowerOfTwo returns the next power of two >= n
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	power := 1
	for power < n {
		power <<= 1
	}
	return power
}
