package l1

import (
	"context"

	fx "github.com/robotalks/wsm.go/pkg/framework"
)

// Registrar announces a bridge host on a registry and delivers
// its events to remote scripting hosts.
type Registrar interface {
	// SendEvent publishes an event.
	SendEvent(context.Context, fx.Message) error
}

// Command is a received command waiting for a reply.
type Command interface {
	Msg() fx.Message
	Done(fx.Message) error
}

// CommandMsg wraps a Command as a Message.
type CommandMsg struct {
	Command Command
}

// NewMessage implements Message.
func (m *CommandMsg) NewMessage() fx.Message { return &CommandMsg{} }

// ControllerRef locates a bridge host.
type ControllerRef struct {
	// Type is the host type, e.g. "wsm".
	Type string
	// ID is unique ID of the device.
	ID string
}

// Name retrieves the name from ref.
func (r ControllerRef) Name() string {
	return r.Type + "/" + r.ID
}

// IsValid indicates ControllerRef is valid.
func (r ControllerRef) IsValid() bool {
	return r.Type != "" && r.ID != ""
}

// ControllerMeta is published along with the registration.
type ControllerMeta struct {
	Description string            `json:"description,omitempty"`
	APIVersion  string            `json:"api_version,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// ControllerInfo describes a registered bridge host.
type ControllerInfo struct {
	Ref  ControllerRef
	Meta ControllerMeta
}

// Connector finds and connects to bridge hosts.
type Connector interface {
	// Discover enumerates registered hosts.
	Discover(context.Context) ([]ControllerInfo, error)
	// Connect connects to the specified host.
	Connect(context.Context, ControllerRef) (ControllerConn, error)
}

// ControllerConn is the connection to a bridge host.
type ControllerConn interface {
	// DoCommand sends a command and returns the future of its reply.
	DoCommand(fx.Message) CommandFuture
}

// Result is the reply of a command.
type Result struct {
	Msg fx.Message
	Err error
}

// CommandFuture is the future of sent command.
type CommandFuture interface {
	ResultChan() <-chan Result
}

// Wait waits for the result of a command, or the context.
func Wait(ctx context.Context, f CommandFuture) (fx.Message, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res, ok := <-f.ResultChan():
		if !ok {
			return nil, context.Canceled
		}
		return res.Msg, res.Err
	}
}
