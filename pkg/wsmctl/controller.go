// Package wsmctl hosts a Bridge in the control loop and serves it to
// remote scripting hosts.
package wsmctl

import (
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/wsm.go/pkg/framework"
	"github.com/robotalks/wsm.go/pkg/l1"
	"github.com/robotalks/wsm.go/pkg/l1/msgs"
	"github.com/robotalks/wsm.go/pkg/wsm"
)

// Controller executes bridge commands and publishes telemetry.
type Controller struct {
	Bridge    *wsm.Bridge
	Registrar l1.Registrar

	// PublishUpdates polls the update flag and publishes a TelemetryEvent
	// for every BT update. The poll consumes edge-triggered flags, so
	// remote UpdatedQuery only sees updates when this is off.
	PublishUpdates bool
	// PollInterval throttles the polls, 0 polls every iteration.
	PollInterval time.Duration
	// Feeder runs along with the loop, e.g. a simfw.Player.
	Feeder fx.Runnable

	name     string
	lastPoll time.Time
}

// NewController creates a Controller.
func NewController(name string, bridge *wsm.Bridge, registrar l1.Registrar) *Controller {
	return &Controller{Bridge: bridge, Registrar: registrar, name: name}
}

// Name implements Named.
func (c *Controller) Name() string {
	return c.name
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvControl, fx.ControlFunc(c.HandleCommand))
	l.AddController(fx.PrLvPostProc, fx.ControlFunc(c.PollUpdates))
	if c.Feeder != nil {
		l.AddRunnable(c.Feeder)
	}
}

// HandleCommand is a controller processing bridge commands.
func (c *Controller) HandleCommand(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		cmdMsg, ok := mctx.CurrentMessage().(*l1.CommandMsg)
		if !ok {
			return
		}
		reply, ok := c.Execute(cmdMsg.Command.Msg())
		if !ok {
			return
		}
		mctx.MessageTaken()
		if err := cmdMsg.Command.Done(reply); err != nil {
			glog.Errorf("reply %T error: %v", reply, err)
		}
	}))
	return nil
}

// Execute runs a command against the Bridge. It returns false if the
// command isn't a bridge command.
func (c *Controller) Execute(cmd fx.Message) (fx.Message, bool) {
	var reply fx.Message
	var err error
	switch m := cmd.(type) {
	case *msgs.SetScalar:
		var v wsm.Value
		if v, err = m.Value.Value(); err == nil {
			err = c.Bridge.Set(m.Name, v.Interface())
		}
	case *msgs.PrintLog:
		err = c.Bridge.PrintLog(m.Text)
	case *msgs.SetWifiCredentials:
		err = c.Bridge.SetWifiCredentials(m.Ssid, m.Password, int(m.Slot))
	case *msgs.SnapshotQuery:
		var s *wsm.Snapshot
		if s, err = c.Bridge.Snapshot(); err == nil {
			reply = msgs.NewSnapshot(s)
		}
	case *msgs.UpdatedQuery:
		var updated bool
		if updated, err = c.Bridge.Updated(); err == nil {
			reply = &msgs.UpdatedReply{Updated: updated}
		}
	case *msgs.LogQuery:
		var buf *wsm.LogBuffer
		if buf, err = c.Bridge.ReadLog(); err == nil {
			reply = &msgs.LogData{Data: buf.Take()}
		}
	case *msgs.VersionQuery:
		reply = &msgs.VersionReply{Version: c.Bridge.APIVersion()}
	default:
		return nil, false
	}
	if err != nil {
		glog.V(2).Infof("%T: %v", cmd, err)
		return msgs.NewCommandErr(err), true
	}
	if reply == nil {
		reply = msgs.NewCommandOK()
	}
	return reply, true
}

// PollUpdates is a controller publishing BT updates.
func (c *Controller) PollUpdates(cc fx.ControlContext) error {
	if !c.PublishUpdates || c.Registrar == nil {
		return nil
	}
	now := cc.Time()
	if now.Sub(c.lastPoll) < c.PollInterval {
		return nil
	}
	c.lastPoll = now
	updated, err := c.Bridge.Updated()
	if err != nil || !updated {
		return err
	}
	s, err := c.Bridge.Snapshot()
	if err != nil {
		return err
	}
	glog.V(2).Info("publish BT update")
	return c.Registrar.SendEvent(cc.Context(), msgs.NewTelemetryEvent(s))
}
