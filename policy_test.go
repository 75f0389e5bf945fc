package periodic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type testIntervalPolicy struct {
	suite.Suite
}

func (t *testIntervalPolicy) TestScheduleNextAvailable() {
	p := ScheduleNextAvailable{}

	t.Run("under interval", func() {
		t.Equal(time.Millisecond*70, p.Schedule(time.Millisecond*30, time.Millisecond*100))
	})

	t.Run("zero elapsed", func() {
		t.Equal(time.Millisecond*100, p.Schedule(0, time.Millisecond*100))
	})

	t.Run("overrun", func() {
		t.Equal(time.Millisecond*50, p.Schedule(time.Millisecond*250, time.Millisecond*100))
	})

	t.Run("overrun by exact multiple", func() {
		t.Equal(time.Millisecond*100, p.Schedule(time.Millisecond*300, time.Millisecond*100))
	})

	t.Run("elapsed equals interval", func() {
		t.Equal(time.Millisecond*100, p.Schedule(time.Millisecond*100, time.Millisecond*100))
	})

	t.Run("zero interval", func() {
		t.Equal(time.Duration(0), p.Schedule(time.Millisecond*30, 0))
	})

	t.Run("hours do not overflow", func() {
		t.Equal(time.Hour*3, p.Schedule(time.Hour, time.Hour*4))
	})
}

func (t *testIntervalPolicy) TestInvokeImmediately() {
	p := InvokeImmediately{}

	t.Equal(time.Duration(0), p.Schedule(time.Millisecond*30, time.Millisecond*100))
	t.Equal(time.Duration(0), p.Schedule(time.Millisecond*300, time.Millisecond*100))
	t.Equal(time.Duration(0), p.Schedule(0, 0))
}

func TestIntervalPolicy(t *testing.T) {
	suite.Run(t, new(testIntervalPolicy))
}
