package comm

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/wsm.go/pkg/framework"
	"github.com/robotalks/wsm.go/pkg/l1/msgs"
)

// Pipe exchanges Typed messages over a PacketReadWriter.
type Pipe struct {
	ReadWriter PacketReadWriter
	Handler    msgs.TypedMsgHandler

	sendLock sync.Mutex
}

// NewPipe creates a Pipe with given PacketReadWriter.
func NewPipe(rw PacketReadWriter) *Pipe {
	return &Pipe{ReadWriter: rw}
}

// SendCommandMsg sends a command, or a reply, with the sequence.
func (p *Pipe) SendCommandMsg(msg fx.Message, seq uint32) error {
	typed, err := msgs.TypedFrom(msg)
	if err != nil {
		return err
	}
	if !typed.IsCommand() {
		return fmt.Errorf("message %x is not a command", typed.TypeId)
	}
	typed.Sequence = seq
	return p.SendTyped(typed)
}

// SendEventMsg sends an event.
func (p *Pipe) SendEventMsg(msg fx.Message) error {
	typed, err := msgs.TypedFrom(msg)
	if err != nil {
		return err
	}
	if !typed.IsEvent() {
		return fmt.Errorf("message %x is not an event", typed.TypeId)
	}
	return p.SendTyped(typed)
}

// SendTyped send a Typed message.
func (p *Pipe) SendTyped(typed *msgs.Typed) error {
	pkt, err := typed.Encode()
	if err != nil {
		return err
	}
	p.sendLock.Lock()
	defer p.sendLock.Unlock()
	return p.ReadWriter.WritePacket(pkt)
}

// Run implements Runnable. The connection is closed when ctx is done.
func (p *Pipe) Run(ctx context.Context) error {
	defer p.Close()
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			p.Close()
		case <-done:
		}
	}()
	for {
		pkt, err := p.ReadWriter.ReadPacket()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err == io.EOF {
				return nil
			}
			return err
		}
		typed, err := msgs.DecodeTyped(pkt)
		if err != nil {
			glog.Warningf("drop malformed packet: %v", err)
			continue
		}
		msg, err := typed.Decode()
		if err != nil {
			// Unknown commands are rejected, unknown replies and events dropped.
			if typed.IsCommand() && !typed.IsReply() {
				if err = p.SendCommandMsg(msgs.NewCommandErr(err), typed.Sequence); err != nil {
					return err
				}
			}
			continue
		}
		if h := p.Handler; h != nil {
			if err = h.HandleTypedMsg(ctx, msg, typed); err != nil {
				return err
			}
		}
	}
}

// Close implements Closer.
func (p *Pipe) Close() error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// AddToLoop implements LoopAdder.
func (p *Pipe) AddToLoop(loop *fx.Loop) {
	if adder, ok := p.ReadWriter.(fx.LoopAdder); ok {
		loop.Add(adder)
	} else if runnable, ok := p.ReadWriter.(fx.Runnable); ok {
		loop.AddRunnable(runnable)
	}
	loop.AddRunnable(p)
}
