package histgbm

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"strings"
)

// MissingCategory is the reserved key that always maps to MissingBin.
const MissingCategory = "__MISSING__"

// MaxCategories is the number of real categories a CategoryMap can hold (ids 0..253).
const MaxCategories = 254

// CategoryMap assigns bin ids to strings in first-seen order.
//
// Ids are stable for a given input order. Values seen after the map is full,
// values never seen and MissingCategory all map to MissingBin.
// A CategoryMap is safe for concurrent Lookup once it is no longer modified.
type CategoryMap struct {
	keys []string
	ids  map[string]uint8
}

// NewCategoryMap returns an empty map.
func NewCategoryMap() *CategoryMap {
	return &CategoryMap{ids: make(map[string]uint8)}
}

// BuildCategoryMap assigns ids over values, skipping nil (missing) entries.
func BuildCategoryMap(values []*string) *CategoryMap {
	m := NewCategoryMap()
	for _, v := range values {
		if v != nil {
			m.Add(*v)
		}
	}
	return m
}

// BuildCategoryMapFromStrings is BuildCategoryMap for plain strings.
// Blank strings are treated as missing.
func BuildCategoryMapFromStrings(values []string) *CategoryMap {
	m := NewCategoryMap()
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			m.Add(v)
		}
	}
	return m
}

// Add registers v if it is new and there is room, and returns its id.
func (m *CategoryMap) Add(v string) uint8 {
	if v == MissingCategory {
		return MissingBin
	}
	if id, ok := m.ids[v]; ok {
		return id
	}
	if len(m.keys) >= MaxCategories {
		return MissingBin
	}
	id := uint8(len(m.keys))
	m.keys = append(m.keys, v)
	m.ids[v] = id
	return id
}

// Lookup returns the id of v, or MissingBin.
func (m *CategoryMap) Lookup(v string) uint8 {
	if id, ok := m.ids[v]; ok {
		return id
	}
	return MissingBin
}

// Len returns the number of real categories.
func (m *CategoryMap) Len() int { return len(m.keys) }

// Keys returns the categories in id order.
func (m *CategoryMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *CategoryMap) restore(keys []string) {
	m.keys = nil
	m.ids = make(map[string]uint8, len(keys))
	for _, k := range keys {
		m.Add(k)
	}
}

type categoryMapWire struct {
	Keys []string
}

// GobEncode stores the categories in id order.
func (m *CategoryMap) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(categoryMapWire{Keys: m.keys}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode rebuilds the map from GobEncode output.
func (m *CategoryMap) GobDecode(data []byte) error {
	var wire categoryMapWire
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&wire); err != nil {
		return err
	}
	m.restore(wire.Keys)
	return nil
}

// MarshalJSON encodes the map as its ordered key list.
func (m *CategoryMap) MarshalJSON() ([]byte, error) {
	if m.keys == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(m.keys)
}

// UnmarshalJSON decodes an ordered key list.
func (m *CategoryMap) UnmarshalJSON(data []byte) error {
	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	m.restore(keys)
	return nil
}
