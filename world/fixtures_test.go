package world

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/sandertv/gophertunnel/minecraft/nbt"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/stretchr/testify/require"
)

const stateVersion = int32(17959425)

func stateTag(name string, states map[string]any) map[string]any {
	return map[string]any{
		"name":    name,
		"states":  states,
		"version": stateVersion,
	}
}

var (
	airState     = stateTag("minecraft:air", map[string]any{})
	stoneState   = stateTag("minecraft:stone", map[string]any{"stone_type": "stone"})
	graniteState = stateTag("minecraft:stone", map[string]any{"stone_type": "granite"})
	dirtState    = stateTag("minecraft:dirt", map[string]any{"dirt_type": "normal"})
	coarseState  = stateTag("minecraft:dirt", map[string]any{"dirt_type": "coarse"})
	woolState    = stateTag("minecraft:wool", map[string]any{"color": "white"})
	logState     = stateTag("minecraft:log", map[string]any{"old_log_type": "oak", "pillar_axis": "y", "deprecated": int32(0)})
	snowState    = stateTag("minecraft:snow_layer", map[string]any{"covered_bit": uint8(0), "height": int32(0)})
	updateState  = stateTag("minecraft:info_update", map[string]any{})
	missingState = stateTag("minecraft:not_in_table", map[string]any{})
)

var testLegacyIDs = NewLegacyIDMap(map[string]uint16{
	"minecraft:air":         LegacyAir,
	"minecraft:stone":       1,
	"minecraft:dirt":        3,
	"minecraft:log":         17,
	"minecraft:wool":        35,
	"minecraft:snow_layer":  78,
	"minecraft:info_update": LegacyInfoUpdate,
})

func encodeStates(t *testing.T, states ...map[string]any) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, state := range states {
		b, err := nbt.MarshalEncoding(state, nbt.NetworkLittleEndian)
		require.NoError(t, err)
		buf.Write(b)
	}
	return buf.Bytes()
}

type legacyRecord struct {
	id    string
	meta  uint16
	state map[string]any
}

func encodeLegacyMap(t *testing.T, records ...legacyRecord) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, rec := range records {
		require.NoError(t, protocol.WriteVaruint32(&buf, uint32(len(rec.id))))
		buf.WriteString(rec.id)
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, rec.meta))
		buf.Write(encodeStates(t, rec.state))
	}
	return buf.Bytes()
}

// testCanonical is the canonical table used by most tests. Runtime IDs:
// 0 air, 1 stone, 2 granite, 3 dirt, 4 coarse dirt, 5 info_update.
func testCanonical(t *testing.T) []byte {
	return encodeStates(t, airState, stoneState, graniteState, dirtState, coarseState, updateState)
}

func testLegacyMap(t *testing.T) []byte {
	return encodeLegacyMap(t,
		legacyRecord{"minecraft:air", 0, airState},
		legacyRecord{"minecraft:stone", 0, stoneState},
		legacyRecord{"minecraft:stone", 1, graniteState},
		legacyRecord{"minecraft:dirt", 0, dirtState},
		legacyRecord{"minecraft:dirt", 1, coarseState},
		legacyRecord{"minecraft:dirt", 16, missingState},
		legacyRecord{"minecraft:info_update", 0, updateState},
	)
}

func testProtocolData(t *testing.T) ProtocolData {
	return ProtocolData{
		CanonicalStatesFile: "canonical_block_states.nbt",
		CanonicalStates:     testCanonical(t),
		LegacyStateMapFile:  "r12_to_current_block_map.bin",
		LegacyStateMap:      testLegacyMap(t),
	}
}
