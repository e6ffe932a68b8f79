package dataframe

import (
	"github.com/paveg/tabula/internal/value"
)

// schema holds ordered unique column names and their types.
//
// A column's type is settled once it was given explicitly or inferred from
// a non-missing value. Unsettled columns (all values missing so far) report
// Str and are re-inferred after row mutations.
type schema struct {
	names     []string
	types     []value.ColType
	settled   []bool
	positions map[string]int
}

func newSchema(names []string) *schema {
	s := &schema{
		names:     append([]string(nil), names...),
		types:     make([]value.ColType, len(names)),
		settled:   make([]bool, len(names)),
		positions: make(map[string]int, len(names)),
	}
	for i, name := range names {
		s.positions[name] = i
		s.types[i] = value.TypeStr
	}
	return s
}

func (s *schema) width() int { return len(s.names) }

func (s *schema) position(name string) (int, bool) {
	pos, ok := s.positions[name]
	return pos, ok
}

func (s *schema) clone() *schema {
	return &schema{
		names:     append([]string(nil), s.names...),
		types:     append([]value.ColType(nil), s.types...),
		settled:   append([]bool(nil), s.settled...),
		positions: clonePositions(s.positions),
	}
}

// project returns a schema holding the given column positions in order
func (s *schema) project(cols []int) *schema {
	out := &schema{
		names:     make([]string, len(cols)),
		types:     make([]value.ColType, len(cols)),
		settled:   make([]bool, len(cols)),
		positions: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		out.names[i] = s.names[c]
		out.types[i] = s.types[c]
		out.settled[i] = s.settled[c]
		out.positions[s.names[c]] = i
	}
	return out
}

// concat appends other's columns, renaming them with rename
func (s *schema) concat(other *schema, rename func(string) string) *schema {
	out := s.clone()
	for i, name := range other.names {
		if rename != nil {
			name = rename(name)
		}
		out.insert(out.width(), name, other.types[i], other.settled[i])
	}
	return out
}

func (s *schema) insert(pos int, name string, t value.ColType, settled bool) {
	s.names = append(s.names, "")
	copy(s.names[pos+1:], s.names[pos:])
	s.names[pos] = name

	s.types = append(s.types, 0)
	copy(s.types[pos+1:], s.types[pos:])
	s.types[pos] = t

	s.settled = append(s.settled, false)
	copy(s.settled[pos+1:], s.settled[pos:])
	s.settled[pos] = settled

	s.reindex()
}

func (s *schema) rename(pos int, name string) {
	delete(s.positions, s.names[pos])
	s.names[pos] = name
	s.positions[name] = pos
}

func (s *schema) setType(pos int, t value.ColType) {
	s.types[pos] = t
	s.settled[pos] = true
}

func (s *schema) reindex() {
	s.positions = make(map[string]int, len(s.names))
	for i, name := range s.names {
		s.positions[name] = i
	}
}

func clonePositions(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
