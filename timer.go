package periodic

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrNilCallback     = NewError("nil timer callback")
	ErrInvalidInterval = NewError("invalid timer interval")
)

type TimerID string

func (ti TimerID) String() string {
	return string(ti)
}

type Timer interface {
	Daemon
	IsStarted() bool
	ID() TimerID
	Interval() time.Duration
}

// PeriodicTimer invokes one callback on one owned goroutine at the given
// interval until stopped. Invocations never overlap; the wait between ticks
// is interruptible, so Stop returns promptly even for very long intervals.
//
// The first invocation happens one full interval after Start, not
// immediately. After each invocation the next deadline is advanced by the
// IntervalPolicy, which keeps the cadence drift-corrected against the
// absolute deadline instead of accumulating callback duration.
type PeriodicTimer struct {
	*ContextDaemon
	callback      func()
	policy        IntervalPolicy
	id            TimerID
	interval      time.Duration
	startstoplock sync.Mutex
	sync.RWMutex
}

func New(callback func(), interval time.Duration) *PeriodicTimer {
	t := &PeriodicTimer{
		callback: callback,
		policy:   ScheduleNextAvailable{},
		id:       TimerID(ULID().String()),
		interval: interval,
	}

	t.ContextDaemon = NewContextDaemon("periodic-timer", t.run)

	return t
}

func (t *PeriodicTimer) ID() TimerID {
	t.RLock()
	defer t.RUnlock()

	return t.id
}

func (t *PeriodicTimer) Interval() time.Duration {
	t.RLock()
	defer t.RUnlock()

	return t.interval
}

// SetID overrides the generated id; only useful before Start.
func (t *PeriodicTimer) SetID(id TimerID) *PeriodicTimer {
	t.Lock()
	defer t.Unlock()

	t.id = id

	return t
}

// SetPolicy replaces the default ScheduleNextAvailable policy; takes effect
// from the next Start.
func (t *PeriodicTimer) SetPolicy(policy IntervalPolicy) *PeriodicTimer {
	t.Lock()
	defer t.Unlock()

	t.policy = policy

	return t
}

// Start spawns the scheduling loop. If the timer is already running, the
// existing loop is stopped and joined first and the schedule restarts from
// now; one short or long gap relative to the previous schedule is expected.
func (t *PeriodicTimer) Start(ctx context.Context) error {
	t.startstoplock.Lock()
	defer t.startstoplock.Unlock()

	t.RLock()
	callback := t.callback
	interval := t.interval
	t.RUnlock()

	switch {
	case callback == nil:
		return ErrNilCallback.Call()
	case interval < 0:
		return ErrInvalidInterval.Errorf("negative, %v", interval)
	}

	if err := t.ContextDaemon.Stop(); err != nil && !errors.Is(err, ErrDaemonAlreadyStopped) {
		return err
	}

	return t.ContextDaemon.Start(ctx)
}

// Stop signals the loop and blocks until it has fully exited; after Stop
// returns the callback will not be invoked again. Stopping a stopped timer
// is a no-op.
func (t *PeriodicTimer) Stop() error {
	t.startstoplock.Lock()
	defer t.startstoplock.Unlock()

	return t.stop()
}

// Close stops the timer and releases the callback; the timer cannot be
// started again.
func (t *PeriodicTimer) Close() error {
	t.startstoplock.Lock()
	defer t.startstoplock.Unlock()

	if err := t.stop(); err != nil {
		return err
	}

	t.Lock()
	t.callback = nil
	t.Unlock()

	return nil
}

// Transfer moves the callback and schedule to a new timer: the source is
// stopped and emptied, and the new timer is started when the source was
// running. The schedule restarts from the transfer instant; the phase of the
// old schedule is not preserved.
func (t *PeriodicTimer) Transfer(ctx context.Context) (*PeriodicTimer, error) {
	t.startstoplock.Lock()
	defer t.startstoplock.Unlock()

	started := t.ContextDaemon.IsStarted()

	if err := t.stop(); err != nil {
		return nil, err
	}

	t.Lock()
	callback := t.callback
	policy := t.policy
	id := t.id
	interval := t.interval
	t.callback = nil
	t.Unlock()

	if callback == nil {
		return nil, ErrNilCallback.Call()
	}

	n := New(callback, interval).SetPolicy(policy).SetID(id)
	n.SetLogging(t.Logging)

	if started {
		if err := n.Start(ctx); err != nil {
			return nil, err
		}
	}

	return n, nil
}

func (t *PeriodicTimer) stop() error {
	if err := t.ContextDaemon.Stop(); err != nil && !errors.Is(err, ErrDaemonAlreadyStopped) {
		return err
	}

	return nil
}

func (t *PeriodicTimer) run(ctx context.Context) error {
	t.RLock()
	callback := t.callback
	policy := t.policy
	interval := t.interval
	t.RUnlock()

	next := time.Now().Add(interval)

	wait := time.NewTimer(interval)
	defer wait.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-wait.C:
		}

		elapsed := t.invoke(callback)

		delay := policy.Schedule(elapsed, interval)
		if delay < 0 {
			delay = 0
		}

		// the deadline only moves forward; when it lands in the past, the
		// wait fires immediately.
		next = next.Add(delay)
		wait.Reset(time.Until(next))
	}
}

func (t *PeriodicTimer) invoke(callback func()) (elapsed time.Duration) {
	started := time.Now()

	defer func() {
		elapsed = time.Since(started)

		if r := recover(); r != nil {
			t.Log().Error().Interface("panic", r).Stringer("id", t.ID()).Msg("timer callback panicked")
		}
	}()

	callback()

	return time.Since(started)
}
