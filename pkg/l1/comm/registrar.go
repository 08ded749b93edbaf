package comm

import (
	"context"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/wsm.go/pkg/framework"
	"github.com/robotalks/wsm.go/pkg/l1"
	"github.com/robotalks/wsm.go/pkg/l1/msgs"
)

// Registrar is the bridge host side of a Pipe. Received commands are
// posted to the loop as l1.CommandMsg.
type Registrar struct {
	pipe Pipe
}

// NewRegistrar creates a Registrar on a PacketReadWriter.
func NewRegistrar(rw PacketReadWriter) *Registrar {
	r := &Registrar{}
	r.Init(rw)
	return r
}

// Init initializes the Registrar with defaults.
func (r *Registrar) Init(rw PacketReadWriter) {
	r.pipe.ReadWriter = rw
	r.pipe.Handler = msgs.HandleTypedMsgFunc(r.handleTypedMsg)
}

// SendEvent implements Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	return r.pipe.SendEventMsg(msg)
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.Add(&r.pipe)
}

// Run serves the pipe until it is closed. The context must carry the
// loop control, see framework.LoopCtlFrom.
func (r *Registrar) Run(ctx context.Context) error {
	return r.pipe.Run(ctx)
}

func (r *Registrar) handleTypedMsg(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
	if !typed.IsCommand() || typed.IsReply() {
		glog.V(2).Infof("ignore message %x", typed.TypeId)
		return nil
	}
	loopCtl := fx.LoopCtlFrom(ctx)
	loopCtl.PostMessage(&l1.CommandMsg{Command: &command{seq: typed.Sequence, msg: msg, pipe: &r.pipe}})
	loopCtl.TriggerNext()
	return nil
}

type command struct {
	seq  uint32
	msg  fx.Message
	pipe *Pipe
}

func (c *command) Msg() fx.Message {
	return c.msg
}

func (c *command) Done(reply fx.Message) error {
	return c.pipe.SendCommandMsg(reply, c.seq)
}

// RegistrarMux registers the bridge host with multiple Registrars.
type RegistrarMux struct {
	Registrars []l1.Registrar
}

// SendEvent implements Registrar.
func (r *RegistrarMux) SendEvent(ctx context.Context, msg fx.Message) error {
	var errs fx.AggregatedError
	for _, reg := range r.Registrars {
		errs.Add(reg.SendEvent(ctx, msg))
	}
	return errs.Aggregate()
}

// AddToLoop implements LoopAdder.
func (r *RegistrarMux) AddToLoop(l *fx.Loop) {
	for _, reg := range r.Registrars {
		if adder, ok := reg.(fx.LoopAdder); ok {
			l.Add(adder)
		}
	}
}

// Add adds more registrars.
func (r *RegistrarMux) Add(regs ...l1.Registrar) {
	r.Registrars = append(r.Registrars, regs...)
}

// Sessions tracks Registrars of accepted connections, events are
// broadcast to all of them.
type Sessions struct {
	lock sync.RWMutex
	regs map[*Registrar]struct{}
}

// Serve runs a Registrar on the connection until it closes.
func (s *Sessions) Serve(ctx context.Context, rw PacketReadWriter) error {
	reg := NewRegistrar(rw)
	s.lock.Lock()
	if s.regs == nil {
		s.regs = make(map[*Registrar]struct{})
	}
	s.regs[reg] = struct{}{}
	s.lock.Unlock()
	defer func() {
		s.lock.Lock()
		delete(s.regs, reg)
		s.lock.Unlock()
	}()
	return reg.Run(ctx)
}

// Len returns the number of active sessions.
func (s *Sessions) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.regs)
}

// SendEvent implements Registrar.
func (s *Sessions) SendEvent(ctx context.Context, msg fx.Message) error {
	var errs fx.AggregatedError
	s.lock.RLock()
	defer s.lock.RUnlock()
	for reg := range s.regs {
		errs.Add(reg.SendEvent(ctx, msg))
	}
	return errs.Aggregate()
}

// UnsupportedCommands replies left-over commands as unsupported.
type UnsupportedCommands struct {
}

// Control implements Controller.
func (c *UnsupportedCommands) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		if cmdMsg, ok := mctx.CurrentMessage().(*l1.CommandMsg); ok {
			mctx.MessageTaken()
			if err := cmdMsg.Command.Done(msgs.NewCommandErr(msgs.ErrUnsupportedCommand)); err != nil {
				glog.Errorf("reply unsupported command error: %v", err)
			}
		}
	}))
	return nil
}

// AddToLoop implements LoopAdder.
func (c *UnsupportedCommands) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvIdle, c)
}
