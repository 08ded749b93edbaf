// Package connector sets up the connection from scripting hosts.
package connector

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"

	"github.com/robotalks/wsm.go/pkg/l1"
	"github.com/robotalks/wsm.go/pkg/l1/comm"
	"github.com/robotalks/wsm.go/pkg/l1/comm/mqtt"
	"github.com/robotalks/wsm.go/pkg/l1/comm/stream"
	"github.com/robotalks/wsm.go/pkg/l1/comm/websocket"
)

// Config provides common options to setup Connectors.
type Config struct {
	Ref l1.ControllerRef

	// RegistryURL locates bridge hosts:
	//   mqtt://host:port/topic-prefix  discover through MQTT
	//   tcp://host:port                a single host, stream framing
	//   ws://host:port/                a single host, websocket
	RegistryURL string
}

var defaultConfig = Config{
	Ref:         l1.ControllerRef{Type: "wsm"},
	RegistryURL: "mqtt://localhost:1883/wsm/",
}

func init() {
	if val := os.Getenv("WSM_TYPE"); val != "" {
		defaultConfig.Ref.Type = val
	}
	if val := os.Getenv("WSM_ID"); val != "" {
		defaultConfig.Ref.ID = val
	}
	if val := os.Getenv("WSM_REGISTRY_URL"); val != "" {
		defaultConfig.RegistryURL = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Ref.Type, "host-type", defaultConfig.Ref.Type, "Bridge host type to connect.")
	flag.StringVar(&defaultConfig.Ref.ID, "host-id", defaultConfig.Ref.ID, "Bridge host ID to connect.")
	flag.StringVar(&defaultConfig.RegistryURL, "reg", defaultConfig.RegistryURL, "Registry URL.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewConnector creates a Connector using current config.
func (c *Config) NewConnector() (l1.Connector, error) {
	parsedURL, err := url.Parse(c.RegistryURL)
	if err != nil {
		return nil, fmt.Errorf("invalid registry URL: %w", err)
	}
	direct := func(dial func(context.Context) (comm.PacketReadWriter, error)) l1.Connector {
		ref := c.Ref
		if ref.ID == "" {
			ref.ID = parsedURL.Host
		}
		return &comm.DirectConnector{Ref: ref, Dial: dial}
	}
	switch parsedURL.Scheme {
	case "mqtt", "ssl":
		return mqtt.NewConnector(c.RegistryURL)
	case "tcp":
		return direct(func(context.Context) (comm.PacketReadWriter, error) {
			return stream.Dial(parsedURL.Host)
		}), nil
	case "ws", "wss":
		return direct(func(context.Context) (comm.PacketReadWriter, error) {
			origin := "http://" + parsedURL.Host + "/"
			return websocket.Dial(c.RegistryURL, origin)
		}), nil
	default:
		return nil, fmt.Errorf("unknown registry URL scheme: %q", parsedURL.Scheme)
	}
}

// MustNewConnector creates a Connector and fails on error.
func (c *Config) MustNewConnector() l1.Connector {
	conn, err := c.NewConnector()
	if err != nil {
		log.Fatalln(err)
	}
	return conn
}

// Connect directly connects to the configured bridge host.
func (c *Config) Connect(ctx context.Context) (l1.ControllerConn, error) {
	if !c.Ref.IsValid() {
		return nil, fmt.Errorf("bridge host type and id must be specified")
	}
	connector, err := c.NewConnector()
	if err != nil {
		return nil, err
	}
	return connector.Connect(ctx, c.Ref)
}
