package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"zeppelinbedrocksupport/world"

	"github.com/google/uuid"
	"github.com/sandertv/gophertunnel/minecraft/nbt"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMember struct {
	id         uuid.UUID
	protocolID int32
	err        error
	packets    []packet.Packet
}

func newFakeMember(protocolID int32) *fakeMember {
	return &fakeMember{id: uuid.New(), protocolID: protocolID}
}

func (m *fakeMember) ProtocolID() int32 { return m.protocolID }
func (m *fakeMember) UUID() uuid.UUID { return m.id }
func (m *fakeMember) WritePacket(pk packet.Packet) error {
	if m.err != nil {
		return m.err
	}
	m.packets = append(m.packets, pk)
	return nil
}

func state(name string) map[string]any {
	return map[string]any{"name": name, "states": map[string]any{}, "version": int32(1)}
}

// testBlocks builds a mapping where air, grass, dirt, bedrock and info_update
// have different runtime IDs under the current and the 1.19.63 protocol.
func testBlocks(t *testing.T) *world.RuntimeBlockMapping {
	t.Helper()
	names := []string{"minecraft:air", "minecraft:grass", "minecraft:dirt", "minecraft:bedrock", "minecraft:info_update"}
	ids := []uint16{world.LegacyAir, legacyGrass, legacyDirt, legacyBedrock, world.LegacyInfoUpdate}

	encode := func(order []int) (canonical, legacy []byte) {
		var c, l bytes.Buffer
		for _, i := range order {
			b, err := nbt.MarshalEncoding(state(names[i]), nbt.NetworkLittleEndian)
			require.NoError(t, err)
			c.Write(b)

			require.NoError(t, protocol.WriteVaruint32(&l, uint32(len(names[i]))))
			l.WriteString(names[i])
			require.NoError(t, binary.Write(&l, binary.LittleEndian, uint16(0)))
			l.Write(b)
		}
		return c.Bytes(), l.Bytes()
	}

	idMap := make(map[string]uint16)
	for i, name := range names {
		idMap[name] = ids[i]
	}
	current, currentLegacy := encode([]int{0, 1, 2, 3, 4})
	older, olderLegacy := encode([]int{4, 3, 2, 1, 0})
	blocks, err := world.NewRuntimeBlockMapping(map[int32]world.ProtocolData{
		world.CurrentProtocol: {CanonicalStates: current, LegacyStateMap: currentLegacy},
		world.Protocol1_19_63: {CanonicalStates: older, LegacyStateMap: olderLegacy},
	}, world.NewLegacyIDMap(idMap))
	require.NoError(t, err)
	return blocks
}

func TestHubAddRemove(t *testing.T) {
	hub := NewHub(testBlocks(t))
	a, b, c := newFakeMember(world.CurrentProtocol), newFakeMember(world.CurrentProtocol), newFakeMember(world.CurrentProtocol)
	hub.Add(a)
	hub.Add(b)
	hub.Add(c)
	hub.Remove(b.UUID())
	hub.Remove(uuid.New())
	assert.Equal(t, []Member{a, c}, hub.Members())
}

func TestHubBroadcastBlockUpdate(t *testing.T) {
	hub := NewHub(testBlocks(t))
	current := newFakeMember(world.CurrentProtocol)
	v63 := newFakeMember(world.Protocol1_19_63)
	v60 := newFakeMember(world.Protocol1_19_60)
	hub.Add(current)
	hub.Add(v63)
	hub.Add(v60)

	pos := protocol.BlockPos{1, 4, -3}
	require.NoError(t, hub.BroadcastBlockUpdate(pos, world.NewLegacyKey(legacyDirt, 0)))
	require.NoError(t, hub.BroadcastBlockUpdate(pos, world.NewLegacyKey(legacyGrass, 0)))

	runtimeIDs := func(m *fakeMember) []uint32 {
		var out []uint32
		for _, pk := range m.packets {
			update := pk.(*packet.UpdateBlock)
			assert.Equal(t, pos, update.Position)
			out = append(out, update.NewBlockRuntimeID)
		}
		return out
	}
	assert.Equal(t, []uint32{2, 1}, runtimeIDs(current))
	assert.Equal(t, []uint32{2, 3}, runtimeIDs(v63))
	assert.Equal(t, []uint32{2, 3}, runtimeIDs(v60))
	// one packet per mapping protocol
	assert.Same(t, v63.packets[1], v60.packets[1])
}

func TestHubBroadcastUnknownBlock(t *testing.T) {
	blocks := testBlocks(t)
	hub := NewHub(blocks)
	m := newFakeMember(world.Protocol1_19_63)
	hub.Add(m)

	require.NoError(t, hub.BroadcastBlockUpdate(protocol.BlockPos{}, world.NewLegacyKey(1, 0)))
	require.Len(t, m.packets, 1)
	assert.Equal(t, uint32(0), m.packets[0].(*packet.UpdateBlock).NewBlockRuntimeID)
}

func TestHubBroadcastErrors(t *testing.T) {
	hub := NewHub(testBlocks(t))
	ok := newFakeMember(world.CurrentProtocol)
	broken := newFakeMember(world.CurrentProtocol)
	broken.err = errors.New("connection closed")
	hub.Add(broken)
	hub.Add(ok)

	err := hub.BroadcastChat("steve", "hi")
	assert.ErrorIs(t, err, broken.err)
	assert.ErrorContains(t, err, broken.UUID().String())
	require.Len(t, ok.packets, 1)
	text := ok.packets[0].(*packet.Text)
	assert.Equal(t, "steve", text.SourceName)
	assert.Equal(t, "hi", text.Message)

	assert.ErrorIs(t, hub.BroadcastBlockUpdate(protocol.BlockPos{}, world.NewLegacyKey(world.LegacyAir, 0)), broken.err)
	assert.Len(t, ok.packets, 2)
}
