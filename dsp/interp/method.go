package interp

import (
	"errors"
	"fmt"
	"strings"
)

// Method selects the interpolation algorithm.
type Method int

const (
	PCHIP Method = iota
	Zero
	Nearest
	Linear
	SLinear
	// Quadratic is a local three-point Lagrange parabola. It is not a global
	// quadratic spline, so values between knots differ from one.
	Quadratic
	Cubic
	Akima
)

// ErrUnknownMethod is returned when a method name or value is not supported.
var ErrUnknownMethod = errors.New("interp: unknown method")

var methodNames = [...]string{
	PCHIP:     "pchip",
	Zero:      "zero",
	Nearest:   "nearest",
	Linear:    "linear",
	SLinear:   "slinear",
	Quadratic: "quadratic",
	Cubic:     "cubic",
	Akima:     "akima",
}

// Methods returns all supported methods in declaration order.
func Methods() []Method {
	out := make([]Method, len(methodNames))
	for i := range methodNames {
		out[i] = Method(i)
	}
	return out
}

// String returns the canonical lower-case method name.
func (m Method) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodNames[m]
}

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	return m >= 0 && int(m) < len(methodNames)
}

// ParseMethod resolves a method name, case-insensitively.
func ParseMethod(name string) (Method, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range methodNames {
		if n == key {
			return Method(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q (available: %s)", ErrUnknownMethod, name, strings.Join(methodNames[:], ", "))
}

// minPoints is the smallest sample count the method's fitter accepts.
// Shorter inputs degrade to linear interpolation.
func (m Method) minPoints() int {
	switch m {
	case PCHIP, Quadratic:
		return 3
	case Cubic:
		return 4
	case Akima:
		return 5
	default:
		return 2
	}
}
