// Package interp provides the 1-D interpolation evaluators used by the
// calibration engine.
//
// Available methods:
//
//   - [PCHIP]:     piecewise monotone cubic Hermite (Fritsch-Butland slopes)
//   - [Zero]:      zero-order hold, previous sample value
//   - [Nearest]:   nearest sample value
//   - [Linear]:    piecewise linear
//   - [SLinear]:   first-order spline, identical to [Linear]
//   - [Quadratic]: piecewise quadratic through three neighbouring samples
//   - [Cubic]:     not-a-knot cubic spline (good default)
//   - [Akima]:     Akima spline, robust against outliers
//
// Every [Evaluator] is total: outside the sampled domain it returns its fill
// value (0) instead of extrapolating, and non-finite results are never
// produced for finite input.
package interp
