package session

import (
	"zeppelinbedrocksupport/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/sandertv/gophertunnel/minecraft"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
	"github.com/zeppelinmc/zeppelin/log"
	"github.com/zeppelinmc/zeppelin/server"
)

func HandleNewConn(srv *server.Server, conn *minecraft.Conn, hub *Hub) {
	id := srv.NewEntityId()

	uuid, _ := uuid.Parse(conn.IdentityData().Identity)

	session := &BedrockSession{
		conn:       conn,
		hub:        hub,
		uuid:       uuid,
		protocolID: conn.Proto().ID(),
	}

	err := conn.StartGame(minecraft.GameData{
		WorldName:       "Server",
		EntityUniqueID:  int64(id),
		EntityRuntimeID: uint64(id),
		PlayerPosition:  mgl32.Vec3{8, flatWorldHeight + 1.62, 8},
		GameRules: []protocol.GameRule{
			{
				Name:                  "showcoordinates",
				CanBeModifiedByPlayer: true,
				Value:                 true,
			},
		},
	})
	if err != nil {
		log.Errorlnf("Zeppelin Bedrock Support: error starting game for %s: %v", session.Username(), err)
		conn.Close()
		return
	}
	log.Infolnf("Zeppelin Bedrock Support: %s joined (protocol %d, block mapping protocol %d)", session.Username(), session.protocolID, session.MappingProtocol())
	if !hub.Blocks().Supports(session.protocolID) {
		log.Errorlnf("Zeppelin Bedrock Support: no block data for protocol %d, %s gets the protocol %d block table", session.protocolID, session.Username(), world.CurrentProtocol)
	}

	if err := session.sendWorldData(); err != nil {
		log.Errorlnf("Zeppelin Bedrock Support: error sending world to %s: %v", session.Username(), err)
	}

	hub.Add(session)
	defer hub.Remove(session.uuid)

	for {
		p, err := conn.ReadPacket()
		if err != nil {
			return
		}
		switch pk := p.(type) {
		case *packet.Text:
			if err := hub.BroadcastChat(session.Username(), pk.Message); err != nil {
				log.Errorlnf("Zeppelin Bedrock Support: chat broadcast: %v", err)
			}
		case *packet.PlayerAction:
			handlePlayerAction(session, pk)
		default:
			log.Printlnf("0x%02x %T", p.ID(), p)
		}
	}
}

type BedrockSession struct {
	conn       *minecraft.Conn
	hub        *Hub
	uuid       uuid.UUID
	protocolID int32
}

// ProtocolID returns the protocol version the client connected with.
func (session *BedrockSession) ProtocolID() int32 {
	return session.protocolID
}

// MappingProtocol returns the protocol whose block tables the client uses.
func (session *BedrockSession) MappingProtocol() int32 {
	return world.MappingProtocol(session.protocolID)
}

func (session *BedrockSession) UUID() uuid.UUID {
	return session.uuid
}

func (session *BedrockSession) Username() string {
	return session.conn.IdentityData().DisplayName
}

func (session *BedrockSession) WritePacket(pk packet.Packet) error {
	return session.conn.WritePacket(pk)
}

func (session *BedrockSession) sendWorldData() error {
	viewDistance := int32(4)

	payload, err := flatChunkPayload(session.hub.Blocks(), session.MappingProtocol())
	if err != nil {
		return err
	}

	for x := -viewDistance; x < viewDistance; x++ {
		for z := -viewDistance; z < viewDistance; z++ {
			if err := session.conn.WritePacket(&packet.LevelChunk{
				Position:      protocol.ChunkPos{x, z},
				SubChunkCount: 1,
				RawPayload:    payload,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

var _ Member = (*BedrockSession)(nil)
