package main

import (
	"path/filepath"
	"sync/atomic"

	"zeppelinbedrocksupport/session"
	"zeppelinbedrocksupport/world"

	"github.com/sandertv/gophertunnel/minecraft"
	"github.com/zeppelinmc/zeppelin/log"
	"github.com/zeppelinmc/zeppelin/server"
)

const (
	VERSION = "1.1"

	configPath = "plugins/BedrockSupport/config.toml"
)

type Plugin struct {
	srv      *server.Server
	hub      *session.Hub
	listener *minecraft.Listener
	closed   atomic.Bool
}

func (p *Plugin) OnLoad(srv *server.Server) {
	log.Infolnf("Zeppelin Bedrock Support version %s", VERSION)

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Errorlnf("Zeppelin Bedrock Support: error loading config: %v", err)
		return
	}

	blocks, err := loadBlockMapping(cfg.DataDirectory)
	if err != nil {
		log.Errorlnf("Zeppelin Bedrock Support: error loading block data: %v", err)
		return
	}
	log.Infolnf("Zeppelin Bedrock Support: loaded block states for mapping protocols %v", blocks.MappingProtocols())

	srvConf := srv.Config()

	lc := minecraft.ListenConfig{
		StatusProvider: minecraft.NewStatusProvider(cfg.StatusName, srvConf.MOTD),
	}

	listener, err := lc.Listen("raknet", cfg.ListenAddress)
	if err != nil {
		log.Errorlnf("Zeppelin Bedrock Support: error listening: %v", err)
		return
	}
	log.Infolnf("Zeppelin Bedrock Support: listening on %s", listener.Addr())

	p.srv = srv
	p.hub = session.NewHub(blocks)
	p.listener = listener

	go p.accept()
}

// loadBlockMapping builds the runtime block mapping from the data files in dir.
// It runs once, before the listener accepts anyone, and the result is shared
// read-only by every session.
func loadBlockMapping(dir string) (*world.RuntimeBlockMapping, error) {
	ids, err := world.LoadLegacyIDMap(filepath.Join(dir, world.LegacyIDMapFile))
	if err != nil {
		return nil, err
	}
	return world.LoadRuntimeBlockMapping(dir, ids)
}

func (p *Plugin) accept() {
	for {
		c, err := p.listener.Accept()
		if err != nil {
			if !p.closed.Load() {
				log.Errorlnf("Zeppelin Bedrock Support: error accepting: %v", err)
			}
			return
		}
		conn := c.(*minecraft.Conn)
		go session.HandleNewConn(p.srv, conn, p.hub)
	}
}

func (p *Plugin) Unload() {
	p.closed.Store(true)
	if p.listener != nil {
		p.listener.Close()
	}
}

func (*Plugin) Identifier() string {
	return "AetherPluginSupport"
}

var _ server.Plugin = (*Plugin)(nil)

var ZeppelinPluginExport = Plugin{}
