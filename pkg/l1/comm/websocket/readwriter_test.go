package websocket

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/wsm.go/pkg/framework"
	"github.com/robotalks/wsm.go/pkg/l1"
	"github.com/robotalks/wsm.go/pkg/l1/comm"
	"github.com/robotalks/wsm.go/pkg/l1/msgs"
)

func replyPrintLog(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mc fx.MessageProcessingContext) {
		cmd, ok := mc.CurrentMessage().(*l1.CommandMsg)
		if !ok {
			return
		}
		if _, ok := cmd.Command.Msg().(*msgs.PrintLog); ok {
			mc.MessageTaken()
			cmd.Command.Done(msgs.NewCommandOK())
		}
	}))
	return nil
}

func TestServerRoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessions := &comm.Sessions{}
	server := &Server{
		Addr: "127.0.0.1:0",
		Serve: func(ctx context.Context, rw *ReadWriter) error {
			return sessions.Serve(ctx, rw)
		},
	}
	require.NoError(t, server.Listen())
	hostLoop := fx.NewLoop().AddRunnable(server)
	hostLoop.AddController(fx.PrLvControl, fx.ControlFunc(replyPrintLog))
	hostLoop.Add(&comm.UnsupportedCommands{})
	hostLoop.Interval = 10 * time.Millisecond
	go hostLoop.Run(ctx)

	addr := server.ListenAddr().String()
	rw, err := Dial("ws://"+addr+"/", "http://"+addr+"/")
	require.NoError(t, err)
	conn := &comm.ControllerConn{}
	conn.Init(rw)
	events := make(chan fx.Message, 1)
	conn.OnEvent = func(msg fx.Message) { events <- msg }
	clientLoop := fx.NewLoop().Add(conn)
	clientLoop.Interval = 10 * time.Millisecond
	go clientLoop.Run(ctx)

	do := func(msg fx.Message) (fx.Message, error) {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return l1.Wait(ctx, conn.DoCommand(msg))
	}
	reply, err := do(&msgs.PrintLog{Text: "over websocket"})
	require.NoError(t, err)
	require.IsType(t, &msgs.CommandOK{}, reply)

	_, err = do(&msgs.VersionQuery{})
	var cmdErr *msgs.CommandErr
	require.True(t, errors.As(err, &cmdErr))
	require.Equal(t, msgs.ErrUnsupportedCommand.Error(), cmdErr.Message)

	require.Equal(t, 1, sessions.Len())
	require.NoError(t, sessions.SendEvent(ctx, &msgs.TelemetryEvent{}))
	select {
	case msg := <-events:
		require.IsType(t, &msgs.TelemetryEvent{}, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("no event")
	}
}
