package periodic

import "time"

// IntervalPolicy decides how long the scheduling loop waits before the next
// tick, given how long the last callback took. Implementations must be pure
// and return non-negative durations.
type IntervalPolicy interface {
	Schedule(elapsed, interval time.Duration) time.Duration
}

// ScheduleNextAvailable absorbs the callback duration into the interval; when
// the callback overruns, the missed boundaries are skipped and the schedule
// resumes on the next aligned one. The long-run average period stays equal to
// the configured interval.
type ScheduleNextAvailable struct{}

func (ScheduleNextAvailable) Schedule(elapsed, interval time.Duration) time.Duration {
	switch {
	case interval <= 0:
		return 0
	case elapsed < interval:
		return interval - elapsed
	}

	if d := elapsed % interval; d > 0 {
		return d
	}

	// exact multiple overrun; never reschedule with zero delay
	return interval
}

// InvokeImmediately reschedules with no additional wait; catching up matters
// more than steady cadence.
type InvokeImmediately struct{}

func (InvokeImmediately) Schedule(time.Duration, time.Duration) time.Duration {
	return 0
}
