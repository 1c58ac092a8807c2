package cassowary

import "errors"

// Errors returned by [Solver] methods.
var (
	ErrUnsatisfiable         = errors.New("cassowary: required constraint is unsatisfiable")
	ErrDuplicateConstraint   = errors.New("cassowary: duplicate constraint")
	ErrUnknownConstraint     = errors.New("cassowary: unknown constraint")
	ErrDuplicateEditVariable = errors.New("cassowary: duplicate edit variable")
	ErrUnknownEditVariable   = errors.New("cassowary: unknown edit variable")
	ErrBadRequiredStrength   = errors.New("cassowary: edit variables cannot be required")
	ErrDiverged              = errors.New("cassowary: optimization exceeded iteration limit")
	ErrInternal              = errors.New("cassowary: internal solver error")
)
