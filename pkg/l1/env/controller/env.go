// Package controller sets up the surfaces a bridge host is reachable on.
package controller

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"

	fx "github.com/robotalks/wsm.go/pkg/framework"
	"github.com/robotalks/wsm.go/pkg/l1"
	"github.com/robotalks/wsm.go/pkg/l1/comm"
	"github.com/robotalks/wsm.go/pkg/l1/comm/mqtt"
	"github.com/robotalks/wsm.go/pkg/l1/comm/stream"
	"github.com/robotalks/wsm.go/pkg/l1/comm/websocket"
	"github.com/robotalks/wsm.go/pkg/l1/env"
)

// Config provides common options to setup an env for bridge hosts.
type Config struct {
	Info l1.ControllerInfo

	// MQTTBrokerURL specifies the MQTT broker to register on.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	// ListenAddr accepts length-prefixed TCP streams, e.g. :7788.
	ListenAddr string
	// WebsocketAddr accepts websocket connections, e.g. :7789.
	WebsocketAddr string
}

var defaultConfig = Config{
	MQTTBrokerURL: "mqtt://localhost:1883/wsm/",
}

func init() {
	if val := os.Getenv("WSM_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("WSM_LISTEN"); val != "" {
		defaultConfig.ListenAddr = val
	}
	if val := os.Getenv("WSM_WS_LISTEN"); val != "" {
		defaultConfig.WebsocketAddr = val
	}
	if val := os.Getenv("WSM_ID"); val != "" {
		defaultConfig.Info.Ref.ID = val
	} else {
		defaultConfig.Info.Ref.ID = env.MachineID()
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Info.Ref.Type, "type", defaultConfig.Info.Ref.Type, "Bridge host type")
	flag.StringVar(&defaultConfig.Info.Ref.ID, "id", defaultConfig.Info.Ref.ID, "Bridge host ID")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL, empty to disable")
	flag.StringVar(&defaultConfig.ListenAddr, "listen", defaultConfig.ListenAddr, "TCP listen address")
	flag.StringVar(&defaultConfig.WebsocketAddr, "ws", defaultConfig.WebsocketAddr, "Websocket listen address")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// SetControllerType should be called in init with basic info about the host.
func SetControllerType(typ string, meta l1.ControllerMeta) {
	defaultConfig.Info.Ref.Type = typ
	defaultConfig.Info.Meta = meta
}

// Env is the env for bridge hosts.
type Env struct {
	Config       *Config
	RegistryURLs []string
	// Registrar broadcasts events to every surface.
	Registrar *comm.RegistrarMux
	// Sessions are the accepted TCP and websocket connections.
	Sessions *comm.Sessions

	servers []fx.Runnable
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewEnv creates Env from config.
func (c *Config) NewEnv() (*Env, error) {
	if !c.Info.Ref.IsValid() {
		return nil, fmt.Errorf("bridge host type and id must be specified")
	}
	e := &Env{
		Config:    c,
		Registrar: &comm.RegistrarMux{},
		Sessions:  &comm.Sessions{},
	}
	if c.MQTTBrokerURL != "" {
		reg, err := mqtt.NewRegistrar(c.MQTTBrokerURL, c.Info)
		if err != nil {
			return nil, fmt.Errorf("create MQTT registrar error: %w", err)
		}
		e.Registrar.Add(reg)
		e.RegistryURLs = append(e.RegistryURLs, c.MQTTBrokerURL)
	}
	if c.ListenAddr != "" {
		e.servers = append(e.servers, &stream.Server{
			Addr: c.ListenAddr,
			Serve: func(ctx context.Context, rw *stream.ReadWriter) error {
				return e.Sessions.Serve(ctx, rw)
			},
		})
	}
	if c.WebsocketAddr != "" {
		e.servers = append(e.servers, &websocket.Server{
			Addr: c.WebsocketAddr,
			Serve: func(ctx context.Context, rw *websocket.ReadWriter) error {
				return e.Sessions.Serve(ctx, rw)
			},
		})
	}
	if len(e.servers) > 0 {
		e.Registrar.Add(e.Sessions)
	}
	if len(e.Registrar.Registrars) == 0 {
		return nil, fmt.Errorf("at least one of MQTT, TCP or websocket is required")
	}
	return e, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv() *Env {
	e, err := c.NewEnv()
	if err != nil {
		log.Fatalln(err)
	}
	return e
}

type listener interface {
	Listen() error
	ListenAddr() net.Addr
}

// Listen binds the TCP and websocket listeners, so address errors are
// reported before the loop starts.
func (e *Env) Listen() error {
	for _, server := range e.servers {
		if ln, ok := server.(listener); ok && ln.ListenAddr() == nil {
			if err := ln.Listen(); err != nil {
				return err
			}
		}
	}
	return nil
}

// ListenAddrs returns the addresses bound by Listen, in the order of
// TCP and websocket.
func (e *Env) ListenAddrs() []net.Addr {
	var addrs []net.Addr
	for _, server := range e.servers {
		if ln, ok := server.(listener); ok {
			if addr := ln.ListenAddr(); addr != nil {
				addrs = append(addrs, addr)
			}
		}
	}
	return addrs
}

// AddToLoop adds registrars, listeners and the fallback for
// unsupported commands.
func (e *Env) AddToLoop(loop *fx.Loop) {
	loop.Add(e.Registrar)
	loop.AddRunnable(e.servers...)
	loop.Add(&comm.UnsupportedCommands{})
}
