package world

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/sandertv/gophertunnel/minecraft/nbt"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

const (
	// MetadataBits is the number of bits a LegacyKey reserves for block metadata.
	MetadataBits = 4
	// MaxMetadata is the highest metadata value a LegacyKey can hold.
	MaxMetadata = 1<<MetadataBits - 1
)

// LegacyKey is the server's persistent block identity: a legacy block ID and its
// metadata packed as id<<MetadataBits | meta.
type LegacyKey uint32

// NewLegacyKey packs a legacy block ID and metadata value. Metadata above
// MaxMetadata is truncated.
func NewLegacyKey(id uint16, meta uint8) LegacyKey {
	return LegacyKey(uint32(id)<<MetadataBits | uint32(meta&MaxMetadata))
}

// ID returns the legacy block ID.
func (k LegacyKey) ID() uint16 {
	return uint16(k >> MetadataBits)
}

// Meta returns the metadata value.
func (k LegacyKey) Meta() uint8 {
	return uint8(k & MaxMetadata)
}

func (k LegacyKey) String() string {
	return fmt.Sprintf("%d:%d", k.ID(), k.Meta())
}

// LegacyStateEntry is one record of r12_to_current_block_map.bin: a legacy string
// ID and metadata pair, and the block state it maps to.
type LegacyStateEntry struct {
	ID    string
	Meta  uint16
	State BlockState

	offset int
}

// LegacyIDLookup resolves legacy string block IDs to their numeric legacy IDs.
type LegacyIDLookup interface {
	StringToLegacy(id string) (uint16, bool)
}

// ReadLegacyStateMap decodes a legacy state map. Each record is a varuint32 length
// prefixed string ID, a little-endian uint16 metadata value and a network NBT
// block state. Records run to the end of buf.
func ReadLegacyStateMap(buf []byte, in *Interner) ([]LegacyStateEntry, error) {
	r := bytes.NewReader(buf)

	var entries []LegacyStateEntry
	for r.Len() > 0 {
		offset := len(buf) - r.Len()
		entry, err := readLegacyStateEntry(r)
		if err != nil {
			return nil, &DataFileError{
				Offset: offset,
				Err:    fmt.Errorf("%w: legacy state %d: %v", ErrMalformedData, len(entries), err),
			}
		}
		entry.State = in.State(entry.State)
		entry.offset = offset
		entries = append(entries, entry)
	}
	return entries, nil
}

func readLegacyStateEntry(r *bytes.Reader) (LegacyStateEntry, error) {
	var entry LegacyStateEntry

	var length uint32
	if err := protocol.Varuint32(r, &length); err != nil {
		return entry, fmt.Errorf("read id length: %w", err)
	}
	if int64(length) > int64(r.Len()) {
		return entry, fmt.Errorf("id length %d exceeds remaining %d bytes", length, r.Len())
	}
	id := make([]byte, length)
	if _, err := io.ReadFull(r, id); err != nil {
		return entry, fmt.Errorf("read id: %w", err)
	}
	entry.ID = string(id)

	if err := binary.Read(r, binary.LittleEndian, &entry.Meta); err != nil {
		return entry, fmt.Errorf("read meta: %w", err)
	}

	var tag map[string]any
	if err := nbt.NewDecoderWithEncoding(r, nbt.NetworkLittleEndian).Decode(&tag); err != nil {
		return entry, fmt.Errorf("read state: %w", err)
	}
	entry.State = tag
	return entry, nil
}

// legacyMapping holds the two translation tables of one mapping protocol.
type legacyMapping struct {
	toRuntime map[LegacyKey]uint32
	toLegacy  map[uint32]LegacyKey
}

// buildLegacyMapping resolves every legacy state entry against the canonical
// states of the same mapping protocol. Candidates are narrowed down by block name
// first and then compared structurally, so two states sharing a name are never
// confused. Entries with metadata that does not fit in a LegacyKey are skipped.
func buildLegacyMapping(states []BlockState, entries []LegacyStateEntry, ids LegacyIDLookup) (*legacyMapping, error) {
	candidates := make(map[string][]uint32)
	for k, state := range states {
		name := state.Name()
		candidates[name] = append(candidates[name], uint32(k))
	}

	m := &legacyMapping{
		toRuntime: make(map[LegacyKey]uint32, len(entries)),
		toLegacy:  make(map[uint32]LegacyKey, len(entries)),
	}
	for _, entry := range entries {
		id, ok := ids.StringToLegacy(entry.ID)
		if !ok {
			return nil, &DataFileError{
				Offset: entry.offset,
				Err:    fmt.Errorf("%w: no legacy ID matches %q", ErrInconsistentMapping, entry.ID),
			}
		}
		if entry.Meta > MaxMetadata {
			continue
		}

		name := entry.State.Name()
		named, ok := candidates[name]
		if !ok {
			return nil, &DataFileError{
				Offset: entry.offset,
				Err:    fmt.Errorf("%w: mapped state %s of %s:%d does not appear in network table", ErrInconsistentMapping, name, entry.ID, entry.Meta),
			}
		}
		runtimeID, ok := matchState(states, named, entry.State)
		if !ok {
			return nil, &DataFileError{
				Offset: entry.offset,
				Err:    fmt.Errorf("%w: mapped state of %s:%d matches none of %d %s states", ErrInconsistentMapping, entry.ID, entry.Meta, len(named), name),
			}
		}
		m.register(NewLegacyKey(id, uint8(entry.Meta)), runtimeID)
	}
	return m, nil
}

func matchState(states []BlockState, candidates []uint32, state BlockState) (uint32, bool) {
	for _, k := range candidates {
		if states[k].Equal(state) {
			return k, true
		}
	}
	return 0, false
}

// register records key <-> runtimeID. Several legacy keys may share one runtime
// ID; the reverse table keeps the last one registered.
func (m *legacyMapping) register(key LegacyKey, runtimeID uint32) {
	m.toRuntime[key] = runtimeID
	m.toLegacy[runtimeID] = key
}
