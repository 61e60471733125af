package world

import (
	"errors"
	"fmt"
)

const (
	// LegacyAir is the legacy ID of air.
	LegacyAir uint16 = 0
	// LegacyInfoUpdate is the legacy ID of the "update!" placeholder block sent in
	// place of any block that has no runtime ID in a client's table.
	LegacyInfoUpdate uint16 = 248
)

// FallbackKey is the legacy key translated instead of an unmapped one.
var FallbackKey = NewLegacyKey(LegacyInfoUpdate, 0)

// ProtocolData is the raw block data of one mapping protocol. The file names are
// only used in errors.
type ProtocolData struct {
	CanonicalStatesFile string
	CanonicalStates     []byte
	LegacyStateMapFile  string
	LegacyStateMap      []byte
}

type protocolTable struct {
	states   []BlockState
	mapping  *legacyMapping
	fallback uint32
}

// RuntimeBlockMapping translates between legacy block keys and the runtime IDs of
// every supported mapping protocol. It is immutable once built and safe for
// concurrent use.
type RuntimeBlockMapping struct {
	tables map[int32]*protocolTable
}

// NewRuntimeBlockMapping decodes the block data of every mapping protocol and
// resolves its legacy state map. Any error leaves no usable mapping: the data
// files are either complete and consistent with each other or they are rejected.
func NewRuntimeBlockMapping(data map[int32]ProtocolData, ids LegacyIDLookup) (*RuntimeBlockMapping, error) {
	if len(data) == 0 {
		return nil, errors.New("no block data for any protocol")
	}
	m := &RuntimeBlockMapping{tables: make(map[int32]*protocolTable, len(data))}
	for _, protocolID := range sortedProtocols(data) {
		table, err := newProtocolTable(data[protocolID], ids)
		if err != nil {
			return nil, fmt.Errorf("protocol %d: %w", protocolID, err)
		}
		m.tables[protocolID] = table
	}
	return m, nil
}

func newProtocolTable(d ProtocolData, ids LegacyIDLookup) (*protocolTable, error) {
	in := NewInterner()
	states, err := ReadCanonicalStates(d.CanonicalStates, in)
	if err != nil {
		return nil, withPath(err, d.CanonicalStatesFile)
	}
	entries, err := ReadLegacyStateMap(d.LegacyStateMap, in)
	if err != nil {
		return nil, withPath(err, d.LegacyStateMapFile)
	}
	mapping, err := buildLegacyMapping(states, entries, ids)
	if err != nil {
		return nil, withPath(err, d.LegacyStateMapFile)
	}
	fallback, ok := mapping.toRuntime[FallbackKey]
	if !ok {
		return nil, &DataFileError{
			Path: d.LegacyStateMapFile,
			Err:  fmt.Errorf("%w: no runtime ID for fallback block %v", ErrInconsistentMapping, FallbackKey),
		}
	}
	return &protocolTable{states: states, mapping: mapping, fallback: fallback}, nil
}

// LoadRuntimeBlockMapping reads the block data files of every supported protocol
// from dir and builds a RuntimeBlockMapping from them.
func LoadRuntimeBlockMapping(dir string, ids LegacyIDLookup) (*RuntimeBlockMapping, error) {
	data, err := ReadProtocolData(ProtocolDataFiles(dir))
	if err != nil {
		return nil, err
	}
	return NewRuntimeBlockMapping(data, ids)
}

// lookup returns the table serving protocolID. Raw protocol versions are folded
// onto their mapping protocol first; MappingProtocol is idempotent, so mapping
// protocols pass through unchanged.
func (m *RuntimeBlockMapping) lookup(protocolID int32) (*protocolTable, bool) {
	t, ok := m.tables[MappingProtocol(protocolID)]
	return t, ok
}

// table is lookup for the read path. Protocols without data are served by the
// CurrentProtocol table, or by any loaded table if that is missing too; use
// Supports to detect them.
func (m *RuntimeBlockMapping) table(protocolID int32) *protocolTable {
	if t, ok := m.lookup(protocolID); ok {
		return t
	}
	if t, ok := m.tables[CurrentProtocol]; ok {
		return t
	}
	return m.tables[sortedProtocols(m.tables)[0]]
}

// Supports reports whether block data was loaded for the mapping protocol of
// protocolID.
func (m *RuntimeBlockMapping) Supports(protocolID int32) bool {
	_, ok := m.lookup(protocolID)
	return ok
}

// ToRuntimeID returns the runtime ID of key under mappingProtocol. Keys without a
// runtime ID translate to the runtime ID of FallbackKey.
func (m *RuntimeBlockMapping) ToRuntimeID(key LegacyKey, mappingProtocol int32) uint32 {
	t := m.table(mappingProtocol)
	if runtimeID, ok := t.mapping.toRuntime[key]; ok {
		return runtimeID
	}
	return t.fallback
}

// FromRuntimeID returns the legacy key registered for runtimeID under
// mappingProtocol. Every runtime ID returned by ToRuntimeID is registered.
func (m *RuntimeBlockMapping) FromRuntimeID(runtimeID uint32, mappingProtocol int32) (LegacyKey, bool) {
	key, ok := m.table(mappingProtocol).mapping.toLegacy[runtimeID]
	return key, ok
}

// BedrockKnownStates returns the canonical block states of mappingProtocol,
// indexed by runtime ID. The returned slice must not be modified.
func (m *RuntimeBlockMapping) BedrockKnownStates(mappingProtocol int32) []BlockState {
	return m.table(mappingProtocol).states
}

// MappingProtocols returns the loaded mapping protocols in ascending order.
func (m *RuntimeBlockMapping) MappingProtocols() []int32 {
	return sortedProtocols(m.tables)
}
