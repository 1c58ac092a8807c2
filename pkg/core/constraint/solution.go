package constraint

import "encoding/json"

// Entry is one solved value.
type Entry struct {
	Element  ElementID `json:"element_id"`
	Name     string    `json:"name"`
	Property string    `json:"property"`
	Value    float64   `json:"value"`
}

type key struct {
	id       ElementID
	property string
}

// Solution is the read-only result of [System.Solve]: an ordered mapping
// from (element, property) to value.
type Solution struct {
	entries []Entry
	index   map[key]int
}

func newSolution(elements int) *Solution {
	return &Solution{
		entries: make([]Entry, 0, elements*4),
		index:   make(map[key]int, elements*4),
	}
}

func (s *Solution) put(id ElementID, name, property string, value float64) {
	k := key{id, property}
	if i, ok := s.index[k]; ok {
		s.entries[i].Value = value
		return
	}
	s.index[k] = len(s.entries)
	s.entries = append(s.entries, Entry{Element: id, Name: name, Property: property, Value: value})
}

// Get returns the solved value of a property.
func (s *Solution) Get(id ElementID, property string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	i, ok := s.index[key{id, property}]
	if !ok {
		return 0, false
	}
	return s.entries[i].Value, true
}

// Box returns the solved x, y, width and height of an element.
func (s *Solution) Box(id ElementID) (x, y, width, height float64, ok bool) {
	if x, ok = s.Get(id, PropX); !ok {
		return 0, 0, 0, 0, false
	}
	y, _ = s.Get(id, PropY)
	width, _ = s.Get(id, PropWidth)
	height, _ = s.Get(id, PropHeight)
	return x, y, width, height, true
}

// Len returns the number of solved values.
func (s *Solution) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Entries returns the solved values in element registration order.
func (s *Solution) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Equal reports whether two solutions hold identical values in the same
// order.
func (s *Solution) Equal(o *Solution) bool {
	if s == nil || o == nil {
		return s.Len() == o.Len()
	}
	if s.Len() != o.Len() {
		return false
	}
	for i, e := range s.entries {
		if o.entries[i] != e {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the solution as an ordered list of entries.
func (s *Solution) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.entries)
}

// UnmarshalJSON decodes a list produced by [Solution.MarshalJSON].
func (s *Solution) UnmarshalJSON(data []byte) error {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*s = *newSolution(len(entries) / 4)
	for _, e := range entries {
		s.put(e.Element, e.Name, e.Property, e.Value)
	}
	return nil
}
