package logging

import (
	"sync"

	"github.com/rs/zerolog"
)

type SetLogging interface {
	SetLogging(*Logging) *Logging
}

// Logging wraps zerolog.Logger; the context func is applied whenever a new
// parent logger is set, so embedded components keep their own log context.
type Logging struct {
	logger      zerolog.Logger
	contextFunc func(zerolog.Context) zerolog.Context
	sync.RWMutex
}

func NewLogging(f func(zerolog.Context) zerolog.Context) *Logging {
	return &Logging{
		logger:      zerolog.Nop(),
		contextFunc: f,
	}
}

func (lg *Logging) Log() *zerolog.Logger {
	lg.RLock()
	defer lg.RUnlock()

	return &lg.logger
}

func (lg *Logging) SetLogger(l zerolog.Logger) *Logging {
	lg.Lock()
	defer lg.Unlock()

	if lg.contextFunc != nil {
		lg.logger = lg.contextFunc(l.With()).Logger()

		return lg
	}

	lg.logger = l

	return lg
}

func (lg *Logging) SetLogging(l *Logging) *Logging {
	return lg.SetLogger(*l.Log())
}
