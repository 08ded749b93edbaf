package comm

import (
	"container/list"
	"context"
	"sync"
	"time"

	fx "github.com/robotalks/wsm.go/pkg/framework"
	"github.com/robotalks/wsm.go/pkg/l1"
	"github.com/robotalks/wsm.go/pkg/l1/msgs"
)

// DefaultCommandExpiration is the default expiration expecting a result.
// Log transfers of a few megabytes must fit in it.
const DefaultCommandExpiration = 5 * time.Second

// ControllerConn implements l1.ControllerConn on a Pipe.
// Replies are correlated by sequence, commands without a reply
// before Expiration fail with context.DeadlineExceeded.
type ControllerConn struct {
	Expiration time.Duration
	// OnEvent is called for every event from the bridge host,
	// in addition to posting it to the loop.
	OnEvent func(fx.Message)

	pipe    Pipe
	seq     uint32
	pending list.List
	seqMap  map[uint32]*commandFuture
	lock    sync.Mutex
}

// Init initializes ControllerConn with defaults.
func (c *ControllerConn) Init(rw PacketReadWriter) {
	c.Expiration = DefaultCommandExpiration
	c.pipe.ReadWriter = rw
	c.pipe.Handler = msgs.HandleTypedMsgFunc(c.handleTypedMsg)
	c.seqMap = make(map[uint32]*commandFuture)
}

// DoCommand implements ControllerConn.
func (c *ControllerConn) DoCommand(msg fx.Message) l1.CommandFuture {
	c.lock.Lock()
	defer c.lock.Unlock()
	// Sequence 0 is reserved for events.
	if c.seq++; c.seq == 0 {
		c.seq++
	}
	f := &commandFuture{
		seq:      c.seq,
		expireAt: time.Now().Add(c.Expiration),
		result:   make(chan l1.Result, 1),
	}
	if err := c.pipe.SendCommandMsg(msg, f.seq); err != nil {
		f.complete(l1.Result{Err: err})
		return f
	}
	f.elem = c.pending.PushBack(f)
	c.seqMap[f.seq] = f
	return f
}

// Pending returns the number of commands waiting for replies.
func (c *ControllerConn) Pending() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.pending.Len()
}

// Close closes the underlying connection.
func (c *ControllerConn) Close() error {
	return c.pipe.Close()
}

// AddToLoop implements LoopAdder.
func (c *ControllerConn) AddToLoop(l *fx.Loop) {
	l.Add(&c.pipe)
	l.AddController(fx.PrLvIdle, fx.ControlFunc(c.purgeExpired))
}

func (c *ControllerConn) handleTypedMsg(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
	if typed.IsEvent() {
		if fn := c.OnEvent; fn != nil {
			fn(msg)
		}
		loopCtl := fx.LoopCtlFrom(ctx)
		loopCtl.PostMessage(msg)
		loopCtl.TriggerNext()
		return nil
	}
	c.lock.Lock()
	f := c.seqMap[typed.Sequence]
	if f != nil {
		c.pending.Remove(f.elem)
		delete(c.seqMap, typed.Sequence)
	}
	c.lock.Unlock()
	if f == nil {
		return nil
	}
	result := l1.Result{Msg: msg}
	if cmdErr, ok := msg.(*msgs.CommandErr); ok {
		result.Err = cmdErr
	}
	f.complete(result)
	return nil
}

func (c *ControllerConn) purgeExpired(cc fx.ControlContext) error {
	now := cc.Time()
	var expired []*commandFuture
	c.lock.Lock()
	for c.pending.Len() > 0 {
		elem := c.pending.Front()
		f := elem.Value.(*commandFuture)
		if f.expireAt.After(now) {
			break
		}
		c.pending.Remove(elem)
		delete(c.seqMap, f.seq)
		expired = append(expired, f)
	}
	c.lock.Unlock()
	for _, f := range expired {
		f.complete(l1.Result{Err: context.DeadlineExceeded})
	}
	return nil
}

type commandFuture struct {
	seq      uint32
	expireAt time.Time
	elem     *list.Element
	result   chan l1.Result
}

func (f *commandFuture) ResultChan() <-chan l1.Result {
	return f.result
}

func (f *commandFuture) complete(res l1.Result) {
	f.result <- res
	close(f.result)
}
