package comm

import (
	"context"

	"github.com/robotalks/wsm.go/pkg/l1"
)

// DirectConnector connects to a single bridge host by address,
// without a registry.
type DirectConnector struct {
	Ref  l1.ControllerRef
	Dial func(context.Context) (PacketReadWriter, error)
}

// Discover implements Connector, the only host is the configured one.
func (c *DirectConnector) Discover(ctx context.Context) ([]l1.ControllerInfo, error) {
	return []l1.ControllerInfo{{Ref: c.Ref}}, nil
}

// Connect implements Connector.
func (c *DirectConnector) Connect(ctx context.Context, ref l1.ControllerRef) (l1.ControllerConn, error) {
	rw, err := c.Dial(ctx)
	if err != nil {
		return nil, err
	}
	conn := &ControllerConn{}
	conn.Init(rw)
	return conn, nil
}
