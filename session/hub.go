package session

import (
	"errors"
	"fmt"
	"sync"

	"zeppelinbedrocksupport/world"

	"github.com/google/uuid"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

// Member is a connected Bedrock client.
type Member interface {
	world.ProtocolConn
	UUID() uuid.UUID
	WritePacket(pk packet.Packet) error
}

// Hub tracks the connected Bedrock clients and translates block updates for
// them. Block updates are translated once per mapping protocol, not per client.
type Hub struct {
	blocks *world.RuntimeBlockMapping

	members    []Member
	members_mu sync.RWMutex
}

func NewHub(blocks *world.RuntimeBlockMapping) *Hub {
	return &Hub{blocks: blocks}
}

func (hub *Hub) Blocks() *world.RuntimeBlockMapping {
	return hub.blocks
}

// Add adds a member. Members are broadcast to in the order they were added.
func (hub *Hub) Add(member Member) {
	hub.members_mu.Lock()
	defer hub.members_mu.Unlock()
	hub.members = append(hub.members, member)
}

func (hub *Hub) Remove(id uuid.UUID) {
	hub.members_mu.Lock()
	defer hub.members_mu.Unlock()
	for i, member := range hub.members {
		if member.UUID() == id {
			hub.members = append(hub.members[:i], hub.members[i+1:]...)
			return
		}
	}
}

// Members returns a snapshot of the current members.
func (hub *Hub) Members() []Member {
	hub.members_mu.RLock()
	defer hub.members_mu.RUnlock()
	members := make([]Member, len(hub.members))
	copy(members, hub.members)
	return members
}

// BroadcastBlockUpdate sends every member the block at pos, translated to the
// runtime ID of the member's mapping protocol.
func (hub *Hub) BroadcastBlockUpdate(pos protocol.BlockPos, key world.LegacyKey) error {
	var errs []error
	for mappingProtocol, members := range world.GroupByMappingProtocol(hub.Members()) {
		pk := &packet.UpdateBlock{
			Position:          pos,
			NewBlockRuntimeID: hub.blocks.ToRuntimeID(key, mappingProtocol),
			Flags:             packet.BlockUpdateNetwork,
		}
		for _, member := range members {
			if err := member.WritePacket(pk); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", member.UUID(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// BroadcastChat sends a chat message from source to every member.
func (hub *Hub) BroadcastChat(source, message string) error {
	pk := &packet.Text{
		TextType:   packet.TextTypeChat,
		SourceName: source,
		Message:    message,
	}
	var errs []error
	for _, member := range hub.Members() {
		if err := member.WritePacket(pk); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", member.UUID(), err))
		}
	}
	return errors.Join(errs...)
}
