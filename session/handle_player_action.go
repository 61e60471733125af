package session

import (
	"zeppelinbedrocksupport/world"

	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
	"github.com/zeppelinmc/zeppelin/log"
)

func handlePlayerAction(s *BedrockSession, action *packet.PlayerAction) {
	switch action.ActionType {
	case protocol.PlayerActionStopBreak, protocol.PlayerActionCreativePlayerDestroyBlock:
		air := world.NewLegacyKey(world.LegacyAir, 0)
		if err := s.hub.BroadcastBlockUpdate(action.BlockPosition, air); err != nil {
			log.Errorlnf("Zeppelin Bedrock Support: block update broadcast: %v", err)
		}
	}
}
