// Copyright 2020 Aleksandr Demakin. All rights reserved.

package fixedpoint

// Rounding selects how excess fraction bits are resolved when a value is
// quantized, at construction or on Resize. The direction names follow the
// usual hardware conventions.
type Rounding uint8

const (
	// RoundConvergent rounds to nearest, ties to even.
	RoundConvergent Rounding = iota
	// RoundNearest rounds to nearest, ties toward positive infinity.
	RoundNearest
	// RoundDown rounds toward negative infinity.
	RoundDown
	// RoundUp rounds toward positive infinity.
	RoundUp
	// RoundIn rounds toward zero.
	RoundIn
	// RoundOut rounds to nearest, ties away from zero.
	RoundOut
)

// String returns the rounding mode name.
func (r Rounding) String() string {
	switch r {
	case RoundConvergent:
		return "convergent"
	case RoundNearest:
		return "nearest"
	case RoundDown:
		return "down"
	case RoundUp:
		return "up"
	case RoundIn:
		return "in"
	case RoundOut:
		return "out"
	}
	return "unknown"
}

// Overflow selects how a value that does not fit its format is resolved.
type Overflow uint8

const (
	// OverflowClamp saturates to the nearest representable value.
	OverflowClamp Overflow = iota
	// OverflowWrap discards high-order bits, producing a modulo-width result.
	OverflowWrap
)

// String returns the overflow mode name.
func (o Overflow) String() string {
	if o == OverflowWrap {
		return "wrap"
	}
	return "clamp"
}

// Alert is the response level of an alert channel.
// Severity grows from AlertIgnore to AlertError.
type Alert uint8

const (
	// AlertIgnore completes the operation silently.
	AlertIgnore Alert = iota
	// AlertWarning completes the operation and emits a log record.
	AlertWarning
	// AlertError aborts the operation, leaving operands unmodified.
	AlertError
)

// String returns the alert level name.
func (a Alert) String() string {
	switch a {
	case AlertWarning:
		return "warning"
	case AlertError:
		return "error"
	}
	return "ignore"
}

func stricter(a, b Alert) Alert {
	if b > a {
		return b
	}
	return a
}

// StrBase is the numeric base used by String and SetFromString.
type StrBase uint8

// Supported string bases.
const (
	Base2  StrBase = 2
	Base8  StrBase = 8
	Base10 StrBase = 10
	Base16 StrBase = 16
)

func (b StrBase) valid() bool {
	switch b {
	case Base2, Base8, Base10, Base16:
		return true
	}
	return false
}

// Policy is the full set of arithmetic properties carried by a value.
// Two interacting values with differing policies trigger the mismatch
// alert; the result of such an operation carries the left operand's Policy.
type Policy struct {
	Rounding          Rounding
	Overflow          Overflow
	OverflowAlert     Alert
	MismatchAlert     Alert
	ImplicitCastAlert Alert
	StrBase           StrBase
}

// defaultPolicy mirrors the stock property set: convergent rounding for
// signed values, nearest for unsigned, clamping with a fatal overflow alert.
func defaultPolicy(signed bool) Policy {
	rounding := RoundNearest
	if signed {
		rounding = RoundConvergent
	}
	return Policy{
		Rounding:          rounding,
		Overflow:          OverflowClamp,
		OverflowAlert:     AlertError,
		MismatchAlert:     AlertWarning,
		ImplicitCastAlert: AlertWarning,
		StrBase:           Base16,
	}
}

// diff returns the names of the fields in which p and other differ,
// in sorted order. Field-by-field on purpose: the property set is closed.
func (p Policy) diff(other Policy) []string {
	var names []string
	if p.ImplicitCastAlert != other.ImplicitCastAlert {
		names = append(names, "implicit_cast_alert")
	}
	if p.MismatchAlert != other.MismatchAlert {
		names = append(names, "mismatch_alert")
	}
	if p.Overflow != other.Overflow {
		names = append(names, "overflow")
	}
	if p.OverflowAlert != other.OverflowAlert {
		names = append(names, "overflow_alert")
	}
	if p.Rounding != other.Rounding {
		names = append(names, "rounding")
	}
	if p.StrBase != other.StrBase {
		names = append(names, "str_base")
	}
	return names
}

type options struct {
	format            *Format
	rounding          *Rounding
	overflow          *Overflow
	overflowAlert     *Alert
	mismatchAlert     *Alert
	implicitCastAlert *Alert
	strBase           *StrBase
	rt                *Runtime
}

// Option overrides a format or policy property at construction.
type Option func(*options)

// WithFormat supplies an explicit (signed, m, n) triple instead of
// inferring one from the initializer.
func WithFormat(signed bool, m, n int) Option {
	return func(o *options) { o.format = &Format{Signed: signed, M: m, N: n} }
}

// WithRounding overrides the rounding mode.
func WithRounding(r Rounding) Option {
	return func(o *options) { o.rounding = &r }
}

// WithOverflow overrides the overflow mode.
func WithOverflow(v Overflow) Option {
	return func(o *options) { o.overflow = &v }
}

// WithOverflowAlert overrides the overflow alert level.
func WithOverflowAlert(a Alert) Option {
	return func(o *options) { o.overflowAlert = &a }
}

// WithMismatchAlert overrides the mismatch alert level.
func WithMismatchAlert(a Alert) Option {
	return func(o *options) { o.mismatchAlert = &a }
}

// WithImplicitCastAlert overrides the implicit cast alert level.
func WithImplicitCastAlert(a Alert) Option {
	return func(o *options) { o.implicitCastAlert = &a }
}

// WithStrBase overrides the base used by String and SetFromString.
func WithStrBase(b StrBase) Option {
	return func(o *options) { o.strBase = &b }
}

// WithPolicy replaces the whole property set.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		o.rounding = &p.Rounding
		o.overflow = &p.Overflow
		o.overflowAlert = &p.OverflowAlert
		o.mismatchAlert = &p.MismatchAlert
		o.implicitCastAlert = &p.ImplicitCastAlert
		o.strBase = &p.StrBase
	}
}

// WithRuntime attaches the value to a Runtime other than the default one.
func WithRuntime(rt *Runtime) Option {
	return func(o *options) { o.rt = rt }
}

func (o *options) policy(signed bool) Policy {
	p := defaultPolicy(signed)
	if o.rounding != nil {
		p.Rounding = *o.rounding
	}
	if o.overflow != nil {
		p.Overflow = *o.overflow
	}
	if o.overflowAlert != nil {
		p.OverflowAlert = *o.overflowAlert
	}
	if o.mismatchAlert != nil {
		p.MismatchAlert = *o.mismatchAlert
	}
	if o.implicitCastAlert != nil {
		p.ImplicitCastAlert = *o.implicitCastAlert
	}
	if o.strBase != nil {
		p.StrBase = *o.strBase
	}
	return p
}
