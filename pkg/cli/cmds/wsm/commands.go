// Package wsm provides shell commands for the bridge operations.
package wsm

import (
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/wsm.go/pkg/cli/sh"
	"github.com/robotalks/wsm.go/pkg/l1/msgs"
	"github.com/robotalks/wsm.go/pkg/wsm"
)

// NewSetScalar parses VALUE for the settable field NAME.
func NewSetScalar(name, text string) (*msgs.SetScalar, error) {
	f, ok := wsm.FieldByName(name)
	if !ok || !f.IsSettable() {
		return nil, fmt.Errorf("unknown field %q, settable: %s", name, settableNames())
	}
	v, err := wsm.ParseValue(f.Kind(), text)
	if err != nil {
		return nil, err
	}
	return msgs.NewSetScalar(name, v), nil
}

// FormatSnapshot prints one "name = value" line per snapshot field.
func FormatSnapshot(s *wsm.Snapshot) string {
	var sb strings.Builder
	for n, f := range wsm.SnapshotFields {
		fmt.Fprintf(&sb, "%-16s = %s\n", f.Name(), s[n])
	}
	return sb.String()
}

func settableNames() string {
	names := make([]string, len(wsm.SettableFields))
	for n, f := range wsm.SettableFields {
		names[n] = f.Name()
	}
	return strings.Join(names, " ")
}

var (
	// SetCmd exposes SetScalar command.
	SetCmd = ishell.Cmd{
		Name:    "set",
		Aliases: []string{"s"},
		Help:    "NAME VALUE",
		Completer: func([]string) []string {
			return strings.Fields(settableNames())
		},
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("NAME VALUE required"))
				return
			}
			msg, err := NewSetScalar(c.Args[0], c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			sh.DoCommand(c, msg)
		}),
	}

	// PrintCmd exposes PrintLog command.
	PrintCmd = ishell.Cmd{
		Name:    "print",
		Aliases: []string{"p"},
		Help:    "TEXT",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.PrintLog{Text: strings.Join(c.Args, " ")})
		}),
	}

	// WifiCmd exposes SetWifiCredentials command.
	WifiCmd = ishell.Cmd{
		Name: "wifi",
		Help: "SSID PASSWORD SLOT",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 3 {
				c.Err(fmt.Errorf("SSID PASSWORD SLOT required"))
				return
			}
			slot, err := strconv.ParseInt(c.Args[2], 10, 32)
			if err != nil {
				c.Err(fmt.Errorf("invalid SLOT: %v", err))
				return
			}
			sh.DoCommand(c, &msgs.SetWifiCredentials{Ssid: c.Args[0], Password: c.Args[1], Slot: int32(slot)})
		}),
	}

	// SnapshotCmd exposes SnapshotQuery command.
	SnapshotCmd = ishell.Cmd{
		Name:    "snapshot",
		Aliases: []string{"bt"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			if s.OutputJSON {
				sh.DoCommand(c, &msgs.SnapshotQuery{})
				return
			}
			reply, err := s.Request(&msgs.SnapshotQuery{})
			if err != nil {
				c.Err(err)
				return
			}
			snapshot, err := reply.(*msgs.Snapshot).Snapshot()
			if err != nil {
				c.Err(err)
				return
			}
			c.Print(FormatSnapshot(snapshot))
		}),
	}

	// UpdatedCmd exposes UpdatedQuery command.
	UpdatedCmd = ishell.Cmd{
		Name: "updated",
		Help: "(always false when the host runs with -publish-updates on edge-triggered firmware)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.UpdatedQuery{})
		}),
	}

	// LogCmd exposes LogQuery command.
	LogCmd = ishell.Cmd{
		Name: "log",
		Help: "[FILE]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			reply, err := sh.ShellFrom(c).Request(&msgs.LogQuery{})
			if err != nil {
				c.Err(err)
				return
			}
			data := reply.(*msgs.LogData).Data
			if len(c.Args) == 0 {
				c.Print(string(data))
				return
			}
			if err := ioutil.WriteFile(c.Args[0], data, 0644); err != nil {
				c.Err(err)
				return
			}
			c.Printf("%d bytes saved to %s\n", len(data), c.Args[0])
		}),
	}

	// VersionCmd exposes VersionQuery command.
	VersionCmd = ishell.Cmd{
		Name:    "version",
		Aliases: []string{"v"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			reply, err := sh.ShellFrom(c).Request(&msgs.VersionQuery{})
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("%q\n", reply.(*msgs.VersionReply).Version)
		}),
	}
)

func init() {
	sh.AddCmds(
		&SetCmd,
		&PrintCmd,
		&WifiCmd,
		&SnapshotCmd,
		&UpdatedCmd,
		&LogCmd,
		&VersionCmd,
	)
}
