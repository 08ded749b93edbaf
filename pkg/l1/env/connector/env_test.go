package connector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/wsm.go/pkg/l1"
	"github.com/robotalks/wsm.go/pkg/l1/comm"
	"github.com/robotalks/wsm.go/pkg/l1/comm/mqtt"
)

func TestNewConnector(t *testing.T) {
	testCases := []struct {
		url    string
		expect interface{}
	}{
		{"mqtt://localhost:1883/wsm/", &mqtt.Connector{}},
		{"tcp://localhost:7788", &comm.DirectConnector{}},
		{"ws://localhost:7789/", &comm.DirectConnector{}},
	}
	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			conf := NewConfig()
			conf.RegistryURL = tc.url
			connector, err := conf.NewConnector()
			require.NoError(t, err)
			require.IsType(t, tc.expect, connector)
		})
	}

	conf := NewConfig()
	conf.RegistryURL = "udp://localhost:1"
	_, err := conf.NewConnector()
	require.Error(t, err)
}

func TestDirectDiscover(t *testing.T) {
	conf := NewConfig()
	conf.Ref = l1.ControllerRef{Type: "wsm"}
	conf.RegistryURL = "tcp://boat:7788"
	connector, err := conf.NewConnector()
	require.NoError(t, err)
	infos, err := connector.Discover(context.Background())
	require.NoError(t, err)
	require.Equal(t, []l1.ControllerInfo{{Ref: l1.ControllerRef{Type: "wsm", ID: "boat:7788"}}}, infos)

	conf.Ref.ID = ""
	conf.Ref.Type = ""
	_, err = conf.Connect(context.Background())
	require.Error(t, err)
}
