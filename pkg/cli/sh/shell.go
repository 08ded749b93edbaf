// Package sh provides the interactive shell of scripting hosts.
package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/abiosoft/ishell"

	fx "github.com/robotalks/wsm.go/pkg/framework"
	"github.com/robotalks/wsm.go/pkg/l1"
	env "github.com/robotalks/wsm.go/pkg/l1/env/connector"
	"github.com/robotalks/wsm.go/pkg/l1/msgs"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool
	// Timeout bounds waiting for a reply.
	Timeout time.Duration
	// Watch prints telemetry events as they arrive, toggled from the
	// shell while the loop reads it.
	Watch atomic.Bool
	// Output overrides the shell as the output writer.
	Output io.Writer

	Shell  *ishell.Shell
	Config *env.Config
	Loop   *ConnLoop
}

// ConnLoop is a running loop with a bridge host connection.
type ConnLoop struct {
	Ctx    context.Context
	Cancel func()
	Ref    l1.ControllerRef
	Loop   *fx.Loop
	Conn   l1.ControllerConn
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

// DefaultTimeout is the default time waiting for a reply.
const DefaultTimeout = 5 * time.Second

var (
	// flags

	evalOnly   bool
	outputJSON bool
	timeout    = DefaultTimeout

	// commands
	commands = []*ishell.Cmd{
		&DiscoverCmd,
		&ConnectCmd,
		&DisconnectCmd,
		&WatchCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.DurationVar(&timeout, "timeout", timeout, "Time waiting for a reply.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		Timeout:     timeout,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Loop == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// FormatInfo prints ControllerInfo into friendly string for display.
func FormatInfo(info l1.ControllerInfo) string {
	str := info.Ref.Name()
	if v := info.Meta.APIVersion; v != "" {
		str += " [" + v + "]"
	}
	if d := info.Meta.Description; d != "" {
		str += ": " + d
	}
	return str
}

// FormatMsg prints a message as NAME fields, or JSON.
func FormatMsg(w io.Writer, msg fx.Message, asJSON bool) error {
	serializable := msg.(msgs.SerializableMessage).Serializable()
	if asJSON {
		out, err := json.Marshal(serializable)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}
	_, err := fmt.Fprintf(w, "%s %s\n",
		reflect.Indirect(reflect.ValueOf(msg)).Type().Name(),
		serializable.String())
	return err
}

// Request sends a command and waits for the reply.
func (s *Shell) Request(msg fx.Message) (fx.Message, error) {
	if s.Loop == nil {
		return nil, fmt.Errorf("not connected")
	}
	ctx, cancel := context.WithTimeout(s.Loop.Ctx, s.Timeout)
	defer cancel()
	reply, err := l1.Wait(ctx, s.Loop.Conn.DoCommand(msg))
	if err == context.DeadlineExceeded {
		err = fmt.Errorf("command timeout")
	}
	return reply, err
}

// DoCommand runs a command and prints the reply.
func DoCommand(c *ishell.Context, msg fx.Message) (fx.Message, error) {
	s := ShellFrom(c)
	reply, err := s.Request(msg)
	if err != nil {
		c.Err(err)
		return nil, err
	}
	if _, ok := reply.(*msgs.CommandOK); ok && !s.OutputJSON {
		c.Println("OK")
		return reply, nil
	}
	if err = FormatMsg(s.Out(), reply, s.OutputJSON); err != nil {
		c.Err(err)
	}
	return reply, err
}

// Out is the writer of the shell output.
func (s *Shell) Out() io.Writer {
	if s.Output != nil {
		return s.Output
	}
	return shellWriter{s.Shell}
}

type shellWriter struct {
	sh *ishell.Shell
}

func (w shellWriter) Write(p []byte) (int, error) {
	w.sh.Print(string(p))
	return len(p), nil
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// DiscoverControllers discovers bridge hosts.
func (s *Shell) DiscoverControllers(filter func(l1.ControllerInfo) bool) ([]l1.ControllerInfo, error) {
	connector, err := s.Config.NewConnector()
	if err != nil {
		return nil, err
	}
	infoList, err := connector.Discover(context.TODO())
	if err != nil {
		return nil, err
	}
	if filter == nil {
		return infoList, nil
	}
	items := make([]l1.ControllerInfo, 0, len(infoList))
	for _, info := range infoList {
		if filter(info) {
			items = append(items, info)
		}
	}
	return items, nil
}

// SelectController discovers bridge hosts and asks for a choice.
func (s *Shell) SelectController(filter func(l1.ControllerInfo) bool) (*l1.ControllerInfo, error) {
	infoList, err := s.DiscoverControllers(filter)
	if err != nil || len(infoList) == 0 {
		return nil, err
	}
	var index int
	if len(infoList) > 1 {
		if !s.Interactive {
			return nil, fmt.Errorf("more than 1 bridge hosts discovered in non-interactive mode")
		}
		items := make([]string, len(infoList))
		for n, info := range infoList {
			items[n] = FormatInfo(info)
		}
		index = s.Shell.MultiChoice(items, "Which one to connect?")
		if index < 0 {
			return nil, fmt.Errorf("cancelled")
		}
	}
	return &infoList[index], nil
}

// Connect connects the bridge host with ref.
func (s *Shell) Connect(ref l1.ControllerRef) error {
	connector, err := s.Config.NewConnector()
	if err != nil {
		return err
	}
	connLoop := &ConnLoop{Ref: ref}
	connLoop.Ctx, connLoop.Cancel = context.WithCancel(context.Background())
	if connLoop.Conn, err = connector.Connect(connLoop.Ctx, ref); err != nil {
		connLoop.Cancel()
		return err
	}
	connLoop.Loop = fx.NewLoop()
	if adder, ok := connLoop.Conn.(fx.LoopAdder); ok {
		connLoop.Loop.Add(adder)
	}
	connLoop.Loop.AddController(fx.PrLvControl, fx.ControlFunc(s.printEvents))
	s.Disconnect()
	s.Loop = connLoop
	go connLoop.Loop.Run(connLoop.Ctx)
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", ref.Name()))
	return nil
}

// Disconnect disconnects current bridge host.
func (s *Shell) Disconnect() {
	if s.Loop == nil {
		return
	}
	s.Loop.Cancel()
	if closer, ok := s.Loop.Conn.(io.Closer); ok {
		closer.Close()
	}
	s.Loop = nil
	s.Shell.SetPrompt(unconnectedPrompt)
}

func (s *Shell) printEvents(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		if ev, ok := mctx.CurrentMessage().(*msgs.TelemetryEvent); ok {
			mctx.MessageTaken()
			if s.Watch.Load() {
				FormatMsg(s.Out(), ev, s.OutputJSON)
			}
		}
	}))
	return nil
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect && s.Config.Ref.IsValid() {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.Ref.Name())
		}
		if err := s.Connect(s.Config.Ref); err != nil {
			log.Fatalf("connect %q failed: %v", s.Config.Ref.Name(), err)
		}
	}
	defer s.Disconnect()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// DiscoverCmd discovers bridge hosts.
	DiscoverCmd = ishell.Cmd{
		Name:    "discover",
		Aliases: []string{"list", "l"},
		Help:    "list bridge hosts",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			infoList, err := s.DiscoverControllers(nil)
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				if infoList == nil {
					infoList = []l1.ControllerInfo{}
				}
				out, err := json.Marshal(infoList)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			if len(infoList) == 0 {
				c.Println("No bridge hosts found")
				return
			}
			for _, info := range infoList {
				c.Println(FormatInfo(info))
			}
		},
	}

	// ConnectCmd connects a bridge host.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[TYPE [ID]]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			var ref l1.ControllerRef
			if len(c.Args) >= 2 {
				ref.Type, ref.ID = c.Args[0], c.Args[1]
			} else {
				var filter func(l1.ControllerInfo) bool
				if len(c.Args) == 1 {
					filter = func(info l1.ControllerInfo) bool {
						return info.Ref.Type == c.Args[0]
					}
				}
				info, err := s.SelectController(filter)
				if err != nil {
					c.Err(err)
					return
				}
				if info == nil {
					c.Err(fmt.Errorf("no bridge host discovered"))
					return
				}
				ref = info.Ref
			}
			if err := s.Connect(ref); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects current bridge host.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}

	// WatchCmd toggles printing telemetry events.
	WatchCmd = ishell.Cmd{
		Name: "watch",
		Help: "on|off",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) > 0 {
				s.Watch.Store(c.Args[0] == "on")
			}
			c.Printf("watch: %v\n", s.Watch.Load())
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(env.NewConfig()).WithAutoConnect(true).Run(flag.Args()...)
}
