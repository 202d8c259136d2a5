// Package lti holds single-input single-output linear time-invariant plants
// in numeric transfer-function form and their state-space realization.
package lti

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

var (
	ErrEmptyDenominator = errors.New("lti: empty denominator")
	ErrZeroLeading      = errors.New("lti: leading denominator coefficient is zero")
	ErrImproper         = errors.New("lti: numerator degree exceeds denominator degree")
	ErrNonFinite        = errors.New("lti: non-finite coefficient")
)

// TransferFunction is Num(s)/Den(s) with coefficients ordered from the
// highest power of s down to the constant term.
type TransferFunction struct {
	Num []float64 `json:"num" yaml:"num"`
	Den []float64 `json:"den" yaml:"den"`
}

// New validates and copies the coefficients. Leading zeros of the
// numerator are dropped.
func New(num, den []float64) (TransferFunction, error) {
	tf := TransferFunction{
		Num: trimLeadingZeros(num),
		Den: append([]float64(nil), den...),
	}
	if err := tf.Validate(); err != nil {
		return TransferFunction{}, err
	}
	return tf, nil
}

func (tf TransferFunction) Validate() error {
	if len(tf.Den) == 0 {
		return ErrEmptyDenominator
	}
	if tf.Den[0] == 0 {
		return ErrZeroLeading
	}
	for _, c := range append(append([]float64(nil), tf.Num...), tf.Den...) {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return ErrNonFinite
		}
	}
	if len(trimLeadingZeros(tf.Num)) > len(tf.Den) {
		return fmt.Errorf("%w: %d > %d", ErrImproper, len(tf.Num)-1, len(tf.Den)-1)
	}
	return nil
}

// Order is the degree of the denominator.
func (tf TransferFunction) Order() int {
	return len(tf.Den) - 1
}

func (tf TransferFunction) Eval(s complex128) complex128 {
	return horner(tf.Num, s) / horner(tf.Den, s)
}

// DCGain is the steady-state response to a unit step, G(0). It is +Inf or
// NaN for plants with a pole at the origin.
func (tf TransferFunction) DCGain() float64 {
	g := tf.Eval(0)
	if cmplx.IsNaN(g) {
		return math.NaN()
	}
	if cmplx.IsInf(g) {
		return math.Inf(1)
	}
	return real(g)
}

func (tf TransferFunction) String() string {
	return fmt.Sprintf("%v / %v", tf.Num, tf.Den)
}

func horner(coefs []float64, s complex128) complex128 {
	var acc complex128
	for _, c := range coefs {
		acc = acc*s + complex(c, 0)
	}
	return acc
}

func trimLeadingZeros(coefs []float64) []float64 {
	i := 0
	for i < len(coefs)-1 && coefs[i] == 0 {
		i++
	}
	return append([]float64(nil), coefs[i:]...)
}
