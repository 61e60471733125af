package world

import (
	"fmt"
	"os"

	"github.com/muhammadmuzzammil1998/jsonc"
)

// LegacyIDMap maps legacy string block IDs, such as "minecraft:stone", to their
// numeric legacy IDs and back.
type LegacyIDMap struct {
	stringToLegacy map[string]uint16
	legacyToString map[uint16]string
}

// NewLegacyIDMap builds a LegacyIDMap from string ID -> legacy ID pairs.
func NewLegacyIDMap(ids map[string]uint16) *LegacyIDMap {
	m := &LegacyIDMap{
		stringToLegacy: make(map[string]uint16, len(ids)),
		legacyToString: make(map[uint16]string, len(ids)),
	}
	for s, id := range ids {
		m.stringToLegacy[s] = id
		m.legacyToString[id] = s
	}
	return m
}

// ReadLegacyIDMap parses a block_id_map.json document. Comments are allowed.
func ReadLegacyIDMap(data []byte) (*LegacyIDMap, error) {
	var ids map[string]uint16
	if err := jsonc.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("%w: legacy id map: %v", ErrMalformedData, err)
	}
	return NewLegacyIDMap(ids), nil
}

// LoadLegacyIDMap reads and parses the legacy ID map at path.
func LoadLegacyIDMap(path string) (*LegacyIDMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := ReadLegacyIDMap(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// StringToLegacy returns the legacy ID of a string block ID.
func (m *LegacyIDMap) StringToLegacy(id string) (uint16, bool) {
	legacy, ok := m.stringToLegacy[id]
	return legacy, ok
}

// LegacyToString returns the string block ID of a legacy ID.
func (m *LegacyIDMap) LegacyToString(id uint16) (string, bool) {
	s, ok := m.legacyToString[id]
	return s, ok
}
