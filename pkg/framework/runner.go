package framework

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/golang/glog"
)

// Runner runs multiple Runnables and collects their errors.
type Runner struct {
	Context context.Context
	Runners []Runnable

	errCh  chan error
	failCh chan error
	exitCh chan struct{}
}

// NewRunner creates a runner with a background context.
func NewRunner() *Runner {
	return NewRunnerWith(context.Background())
}

// NewRunnerWith creates a runner with the specified context.
func NewRunnerWith(ctx context.Context) *Runner {
	return &Runner{
		Context: ctx,
		errCh:   make(chan error, 1),
		failCh:  make(chan error, 1),
		exitCh:  make(chan struct{}),
	}
}

// HandleSignals cancels the runners on SIGINT/SIGTERM, and gives up
// waiting on the second signal.
func (r *Runner) HandleSignals() *Runner {
	ctx, cancel := context.WithCancel(r.Context)
	r.Context = ctx
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		glog.Info("stop requested")
		cancel()
		<-sigCh
		glog.Error("stop requested again, force exit")
		close(r.exitCh)
	}()
	return r
}

// Go starts Runnables in the background.
func (r *Runner) Go(runners ...Runnable) *Runner {
	for _, runner := range runners {
		name := strconv.Itoa(len(r.Runners))
		if named, ok := runner.(Named); ok {
			name = named.Name()
		}
		r.Runners = append(r.Runners, runner)
		go func(runner Runnable, name string) {
			glog.V(4).Infof("Runner[%s] started", name)
			err := runner.Run(r.Context)
			glog.V(4).Infof("Runner[%s] stopped: %v", name, err)
			if err != nil && r.Context.Err() == nil {
				select {
				case r.failCh <- fmt.Errorf("%s: %w", name, err):
				default:
				}
			}
			r.errCh <- err
		}(runner, name)
	}
	return r
}

// Failed receives the first error returned by a Runnable before the
// context is done.
func (r *Runner) Failed() <-chan error {
	return r.failCh
}

// Wait waits for all Runnables to stop. Cancellation isn't an error.
func (r *Runner) Wait() error {
	var errs AggregatedError
	for range r.Runners {
		select {
		case <-r.exitCh:
			return errors.New("forced exit")
		case err := <-r.errCh:
			if err != context.Canceled {
				errs.Add(err)
			}
		}
	}
	return errs.Aggregate()
}
