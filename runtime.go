// Copyright 2020 Aleksandr Demakin. All rights reserved.

package fixedpoint

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lmittmann/tint"
)

// OpSym is the spelling of an operator that has no native fixed-point
// definition and is dispatched through the callback registry.
type OpSym string

// Operator symbols accepted by the callback registry.
const (
	OpTrueDiv       OpSym = "/"
	OpTrueDivAssign OpSym = "/="
	OpMatMul        OpSym = "@"
	OpMatMulAssign  OpSym = "@="
)

// Callback implements an unsupported operator for a pair of operands.
// Whatever it returns is passed through verbatim, with no format validation.
type Callback func(left, right Operand) (*FixedPoint, error)

// Runtime holds the process-wide engine state: the monotonic serial-number
// counter, the operator callback registry, and the alert logger. All three
// are safe for concurrent use. Values are attached to a Runtime at
// construction; most programs use the package default.
type Runtime struct {
	serial atomic.Uint64

	mu        sync.RWMutex
	callbacks map[OpSym]Callback
	logger    *slog.Logger
}

var defaultRuntime = NewRuntime(nil)

// NewRuntime returns a new Runtime with an empty callback registry.
// A nil logger means slog.Default at the time a record is emitted.
func NewRuntime(logger *slog.Logger) *Runtime {
	return &Runtime{
		callbacks: make(map[OpSym]Callback),
		logger:    logger,
	}
}

// DefaultRuntime returns the Runtime used by values constructed without
// the WithRuntime option.
func DefaultRuntime() *Runtime {
	return defaultRuntime
}

// NewTintLogger returns a colorized human-readable logger for the
// alert channel.
func NewTintLogger(w io.Writer) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	}))
}

// SetLogger replaces the alert logger. Nil restores slog.Default.
func (rt *Runtime) SetLogger(logger *slog.Logger) {
	rt.mu.Lock()
	rt.logger = logger
	rt.mu.Unlock()
}

// SetCallback registers fn for the given operator symbol.
// A nil fn restores the default fatal behavior.
func (rt *Runtime) SetCallback(op OpSym, fn Callback) {
	rt.mu.Lock()
	if fn == nil {
		delete(rt.callbacks, op)
	} else {
		rt.callbacks[op] = fn
	}
	rt.mu.Unlock()
}

func (rt *Runtime) callback(op OpSym) Callback {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.callbacks[op]
}

func (rt *Runtime) nextSerial() uint64 {
	return rt.serial.Add(1)
}

func (rt *Runtime) warn(sn uint64, msg string, attrs ...slog.Attr) {
	rt.mu.RLock()
	logger := rt.logger
	rt.mu.RUnlock()
	if logger == nil {
		logger = slog.Default()
	}
	args := make([]slog.Attr, 0, len(attrs)+1)
	args = append(args, slog.Uint64("sn", sn))
	args = append(args, attrs...)
	logger.LogAttrs(context.Background(), slog.LevelWarn, msg, args...)
}

// alert enforces one alert channel: error aborts the operation with err,
// warning emits a serial-tagged record and proceeds, ignore proceeds
// silently. The returned error is non-nil only on the fatal path.
func (rt *Runtime) alert(level Alert, sn uint64, err error, attrs ...slog.Attr) error {
	switch level {
	case AlertError:
		return err
	case AlertWarning:
		rt.warn(sn, err.Error(), attrs...)
	}
	return nil
}
