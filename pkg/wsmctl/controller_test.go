package wsmctl

import (
	"context"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/wsm.go/pkg/framework"
	"github.com/robotalks/wsm.go/pkg/l1"
	env "github.com/robotalks/wsm.go/pkg/l1/env/controller"
	"github.com/robotalks/wsm.go/pkg/l1/msgs"
	"github.com/robotalks/wsm.go/pkg/wsm"
	"github.com/robotalks/wsm.go/pkg/wsm/simfw"
)

type testCommand struct {
	msg   fx.Message
	reply fx.Message
}

func (c *testCommand) Msg() fx.Message { return c.msg }

func (c *testCommand) Done(reply fx.Message) error {
	c.reply = reply
	return nil
}

type testRegistrar struct {
	events []fx.Message
}

func (r *testRegistrar) SendEvent(ctx context.Context, msg fx.Message) error {
	r.events = append(r.events, msg)
	return nil
}

func newTestController(t *testing.T, conf *simfw.Config) (*Controller, *simfw.Firmware, *testRegistrar) {
	fw, err := simfw.New(conf)
	require.NoError(t, err)
	reg := &testRegistrar{}
	return NewController("wsm/test", wsm.New(fw), reg), fw, reg
}

func runCommands(ctl *Controller, cmds ...fx.Message) []*testCommand {
	loop := fx.NewLoop().Add(ctl)
	posted := make([]*testCommand, len(cmds))
	for n, msg := range cmds {
		posted[n] = &testCommand{msg: msg}
		loop.PostMessage(&l1.CommandMsg{Command: posted[n]})
	}
	loop.RunOnce(context.Background())
	return posted
}

func TestControllerCommands(t *testing.T) {
	ctl, fw, _ := newTestController(t, nil)
	fw.SetLog([]byte("boot\n"))
	cmds := runCommands(ctl,
		msgs.NewSetScalar("heading", wsm.IntValue(270)),
		msgs.NewSetScalar("lat", wsm.Float32Value(47.6)),
		&msgs.PrintLog{Text: "armed"},
		&msgs.SetWifiCredentials{Ssid: "dock", Password: "pw", Slot: 1},
		&msgs.VersionQuery{},
		&msgs.LogQuery{},
		&msgs.UpdatedQuery{},
		&msgs.SnapshotQuery{},
	)
	for _, cmd := range cmds[:4] {
		require.IsType(t, &msgs.CommandOK{}, cmd.reply, "%T", cmd.msg)
	}
	v, err := fw.Read(wsm.FieldHeading)
	require.NoError(t, err)
	require.Equal(t, wsm.IntValue(270), v)
	cred, ok := fw.Credential(1)
	require.True(t, ok)
	require.Equal(t, "dock", cred.SSID)

	require.Equal(t, &msgs.VersionReply{Version: " 1.2 "}, cmds[4].reply)
	require.Equal(t, []byte("boot\narmed\n"), cmds[5].reply.(*msgs.LogData).Data)
	require.Equal(t, &msgs.UpdatedReply{Updated: false}, cmds[6].reply)
	snapshot, err := cmds[7].reply.(*msgs.Snapshot).Snapshot()
	require.NoError(t, err)
	require.Len(t, snapshot.Values(), wsm.SnapshotLen)
}

func TestControllerCommandErrors(t *testing.T) {
	ctl, fw, _ := newTestController(t, nil)
	cmds := runCommands(ctl,
		msgs.NewSetScalar("heading", wsm.Float64Value(1.5)),
		msgs.NewSetScalar("des_fw", wsm.Float32Value(1)),
		&msgs.SetScalar{Name: "heading"},
		&msgs.LogQuery{},
		&msgs.SetWifiCredentials{Ssid: "x", Slot: 9},
	)
	for _, cmd := range cmds[:3] {
		require.ErrorIs(t, cmd.reply.(*msgs.CommandErr), wsm.ErrInvalidArgument)
	}
	require.ErrorIs(t, cmds[3].reply.(*msgs.CommandErr), wsm.ErrEmptyLog)
	require.Equal(t, uint32(wsm.CodeUnknown), cmds[4].reply.(*msgs.CommandErr).Code)

	fw.SetFault(errors.New("flash busy"))
	cmds = runCommands(ctl, &msgs.SnapshotQuery{}, &msgs.UpdatedQuery{})
	for _, cmd := range cmds {
		require.ErrorIs(t, cmd.reply.(*msgs.CommandErr), wsm.ErrUnavailable)
	}
}

func TestControllerLeavesOtherMessages(t *testing.T) {
	ctl, _, _ := newTestController(t, nil)
	_, handled := ctl.Execute(&msgs.CommandOK{})
	require.False(t, handled)

	loop := fx.NewLoop().Add(ctl)
	other := &testCommand{msg: &msgs.TelemetryEvent{}}
	loop.PostMessage(&l1.CommandMsg{Command: other})
	var left int
	loop.AddController(fx.PrLvIdle, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(fx.MessageProcessingContext) { left++ }))
		return nil
	}))
	loop.RunOnce(context.Background())
	require.Nil(t, other.reply)
	require.Equal(t, 1, left)
}

func TestPollUpdates(t *testing.T) {
	ctl, fw, reg := newTestController(t, nil)
	loop := fx.NewLoop().Add(ctl)

	loop.RunOnce(context.Background())
	require.NoError(t, fw.Deliver(simfw.Update{wsm.FieldX: 12.5, wsm.FieldGoalChanged: true}))
	loop.RunOnce(context.Background())
	require.Empty(t, reg.events, "publishing disabled")

	ctl.PublishUpdates = true
	loop.RunOnce(context.Background())
	require.Len(t, reg.events, 1)
	s, err := reg.events[0].(*msgs.TelemetryEvent).Snapshot()
	require.NoError(t, err)
	x, _ := s.Position()
	require.Equal(t, 12.5, x)
	require.True(t, s.GoalChanged())

	// Edge-triggered flag is consumed by the poll.
	loop.RunOnce(context.Background())
	require.Len(t, reg.events, 1)
}

func TestPollInterval(t *testing.T) {
	ctl, fw, reg := newTestController(t, &simfw.Config{Slots: 1, Policy: simfw.PolicyLevel})
	ctl.PublishUpdates = true
	ctl.PollInterval = time.Hour
	require.NoError(t, fw.Deliver(simfw.Update{wsm.FieldFreshGPS: true}))
	loop := fx.NewLoop().Add(ctl)
	loop.RunOnce(context.Background())
	loop.RunOnce(context.Background())
	require.Len(t, reg.events, 1, "level flag polled once within the interval")
}

func TestConfigNewController(t *testing.T) {
	dir, err := ioutil.TempDir("", "wsmctl")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "fw.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte("max_log_size: 4\nlog: \"12345\"\n"), 0644))

	envConf := env.NewConfig()
	envConf.Info.Ref = l1.ControllerRef{Type: ControllerType, ID: "t1"}
	envConf.MQTTBrokerURL = ""
	envConf.ListenAddr = "127.0.0.1:0"
	e, err := envConf.NewEnv()
	require.NoError(t, err)

	conf := NewConfig()
	conf.FirmwareConfig = path
	ctl, _, err := conf.NewController(e)
	require.NoError(t, err)
	require.Equal(t, "wsm/t1", ctl.Name())
	_, err = ctl.Bridge.ReadLog()
	require.ErrorIs(t, err, wsm.ErrResourceExhausted)

	conf.FirmwareConfig = filepath.Join(dir, "missing.yaml")
	_, _, err = conf.NewController(e)
	require.Error(t, err)
}

func TestDefaultKeepsUpdateFlag(t *testing.T) {
	envConf := env.NewConfig()
	envConf.Info.Ref = l1.ControllerRef{Type: ControllerType, ID: "t2"}
	envConf.MQTTBrokerURL = ""
	envConf.ListenAddr = "127.0.0.1:0"
	e, err := envConf.NewEnv()
	require.NoError(t, err)

	conf := NewConfig()
	require.False(t, conf.PublishUpdates)
	conf.FirmwareConfig = ""
	ctl, fw, err := conf.NewController(e)
	require.NoError(t, err)

	require.NoError(t, fw.Deliver(simfw.Update{wsm.FieldFreshGPS: true}))
	loop := fx.NewLoop().Add(ctl)
	loop.RunOnce(context.Background())
	cmds := runCommands(ctl, &msgs.UpdatedQuery{})
	require.Equal(t, &msgs.UpdatedReply{Updated: true}, cmds[0].reply, "flag left for remote callers")
}
