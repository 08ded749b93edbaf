package framework

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is the default period between iterations.
const DefaultInterval = 100 * time.Millisecond

// Loop runs controllers periodically, or when triggered, and dispatches
// queued messages to them.
type Loop struct {
	Interval time.Duration

	controllers [PriorityLevels][]Controller
	runners     []Runnable

	lock     sync.Mutex
	pending  []Message
	wakeUpCh chan struct{}
}

// LoopAdder knows how to add itself to a loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

type loopCtxKey struct{}

// LoopCtlFrom gets LoopControl from the context passed to runners.
func LoopCtlFrom(ctx context.Context) LoopControl {
	return ctx.Value(loopCtxKey{}).(LoopControl)
}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{
		Interval: DefaultInterval,
		wakeUpCh: make(chan struct{}, 1),
	}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers at a priority level.
func (l *Loop) AddController(priorityLevel int, ctls ...Controller) *Loop {
	l.controllers[priorityLevel] = append(l.controllers[priorityLevel], ctls...)
	return l
}

// AddRunnable adds runners started along with the loop.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// PostMessage implements LoopControl.
func (l *Loop) PostMessage(msg Message) {
	l.lock.Lock()
	l.pending = append(l.pending, msg)
	l.lock.Unlock()
}

// TriggerNext implements LoopControl.
func (l *Loop) TriggerNext() {
	select {
	case l.wakeUpCh <- struct{}{}:
	default:
	}
}

// Run implements Runnable. When a runner fails, the others are
// stopped and their errors returned.
func (l *Loop) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	runner := NewRunnerWith(context.WithValue(runCtx, loopCtxKey{}, LoopControl(l)))
	runner.Go(l.runners...)

	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			cancel()
			if err := runner.Wait(); err != nil {
				glog.V(4).Infof("runners stopped: %v", err)
			}
			return ctx.Err()
		case err := <-runner.Failed():
			glog.Errorf("runner failed: %v", err)
			cancel()
			if waitErr := runner.Wait(); waitErr != nil {
				return waitErr
			}
			return err
		case <-ticker.C:
		case <-l.wakeUpCh:
		}
		l.RunOnce(ctx)
	}
}

// RunOrFail runs the loop until SIGINT/SIGTERM.
func (l *Loop) RunOrFail() {
	r := NewRunner().HandleSignals()
	if err := r.Go(l).Wait(); err != nil {
		glog.Exit(err)
	}
}

// RunOnce runs a single iteration with the messages queued so far.
func (l *Loop) RunOnce(ctx context.Context) {
	iter := &iteration{Loop: l, now: time.Now()}
	l.lock.Lock()
	iter.messages, l.pending = l.pending, nil
	l.lock.Unlock()
	iter.ctx = context.WithValue(ctx, loopCtxKey{}, LoopControl(l))
	for _, ctls := range l.controllers {
		for _, ctl := range ctls {
			if err := ctl.Control(iter); err != nil {
				glog.Errorf("controller error: %v", err)
			}
		}
	}
}

type iteration struct {
	*Loop
	ctx      context.Context
	now      time.Time
	messages []Message
}

func (t *iteration) Context() context.Context { return t.ctx }
func (t *iteration) Time() time.Time          { return t.now }
func (t *iteration) Messages() MessageStore   { return t }

func (t *iteration) ProcessMessages(proc MessageProcessor) {
	remains := t.messages[:0]
	for _, msg := range t.messages {
		mc := &messageContext{msg: msg}
		proc.ProcessMessage(mc)
		if !mc.taken {
			remains = append(remains, msg)
		}
	}
	t.messages = remains
}

type messageContext struct {
	msg   Message
	taken bool
}

func (c *messageContext) CurrentMessage() Message { return c.msg }
func (c *messageContext) MessageTaken()           { c.taken = true }
