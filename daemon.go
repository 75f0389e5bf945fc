package periodic

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/spikeekips/periodic/logging"
)

var (
	ErrDaemonAlreadyStarted = NewError("daemon already started")
	ErrDaemonAlreadyStopped = NewError("daemon already stopped")
)

type Daemon interface {
	Start(context.Context) error
	Stop() error
}

// ContextDaemon runs one callback on one owned goroutine; Stop cancels the
// callback context and blocks until the goroutine has returned, so after
// Stop() nothing of the daemon is left running.
type ContextDaemon struct {
	*logging.Logging
	callback func(context.Context) error
	cancelf  func()
	donech   chan struct{}
	sync.RWMutex
}

func NewContextDaemon(name string, callback func(context.Context) error) *ContextDaemon {
	return &ContextDaemon{
		Logging: logging.NewLogging(func(c zerolog.Context) zerolog.Context {
			return c.Str("module", "context-daemon").Str("daemon", name)
		}),
		callback: callback,
	}
}

func (dm *ContextDaemon) IsStarted() bool {
	dm.RLock()
	defer dm.RUnlock()

	return dm.cancelf != nil
}

func (dm *ContextDaemon) Start(ctx context.Context) error {
	if _, err := dm.spawn(ctx); err != nil {
		return err
	}

	dm.Log().Debug().Msg("started")

	return nil
}

// Wait starts the daemon and returns the channel, which receives the result
// of the callback after it finished.
func (dm *ContextDaemon) Wait(ctx context.Context) <-chan error {
	ch, err := dm.spawn(ctx)
	if err != nil {
		ech := make(chan error, 1)
		ech <- err

		return ech
	}

	return ch
}

func (dm *ContextDaemon) Stop() error {
	dm.Lock()

	if dm.cancelf == nil {
		dm.Unlock()

		return ErrDaemonAlreadyStopped.Call()
	}

	cancel := dm.cancelf
	donech := dm.donech

	dm.Unlock()

	cancel()
	<-donech

	dm.Log().Debug().Msg("stopped")

	return nil
}

func (dm *ContextDaemon) spawn(ctx context.Context) (<-chan error, error) {
	dm.Lock()
	defer dm.Unlock()

	if dm.cancelf != nil {
		return nil, ErrDaemonAlreadyStarted.Call()
	}

	runctx, cancel := context.WithCancel(ctx)
	donech := make(chan struct{})

	dm.cancelf = cancel
	dm.donech = donech

	ch := make(chan error, 1)

	go func() {
		err := dm.callback(runctx)

		dm.Lock()
		dm.cancelf = nil
		dm.donech = nil
		dm.Unlock()

		cancel()
		close(donech)

		ch <- err
		close(ch)
	}()

	return ch, nil
}
