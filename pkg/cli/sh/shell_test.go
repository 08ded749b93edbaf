package sh

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/wsm.go/pkg/framework"
	"github.com/robotalks/wsm.go/pkg/l1/msgs"
)

func TestPrintEventsWatch(t *testing.T) {
	var out bytes.Buffer
	s := &Shell{Output: &out}
	loop := fx.NewLoop().AddController(fx.PrLvControl, fx.ControlFunc(s.printEvents))

	loop.PostMessage(&msgs.TelemetryEvent{})
	loop.RunOnce(context.Background())
	require.Empty(t, out.String(), "not watching")

	// Toggled from the shell while the loop runs.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			s.Watch.Store(i%2 == 0)
		}
		s.Watch.Store(true)
	}()
	for i := 0; i < 100; i++ {
		loop.RunOnce(context.Background())
	}
	wg.Wait()
	out.Reset()

	loop.PostMessage(&msgs.TelemetryEvent{})
	loop.RunOnce(context.Background())
	require.Contains(t, out.String(), "TelemetryEvent")
}

func TestFormatMsg(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, FormatMsg(&out, &msgs.VersionReply{Version: " 1.2 "}, false))
	require.Contains(t, out.String(), "VersionReply")
	out.Reset()
	require.NoError(t, FormatMsg(&out, &msgs.VersionReply{Version: " 1.2 "}, true))
	require.JSONEq(t, `{"version":" 1.2 "}`, out.String())
}
