package symbolic

import "errors"

var (
	// ErrVarMismatch indicates operands built over different variables.
	ErrVarMismatch = errors.New("symbolic: operands use different frequency variables")

	// ErrDelayMismatch indicates operands whose delay factors differ.
	ErrDelayMismatch = errors.New("symbolic: operands carry different transport delays")

	// ErrDivideByZero indicates division by an identically zero expression.
	ErrDivideByZero = errors.New("symbolic: division by zero")

	// ErrNonFinite indicates a NaN or Inf coefficient.
	ErrNonFinite = errors.New("symbolic: non-finite coefficient")
)
