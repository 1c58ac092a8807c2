package constraint

import (
	"fmt"

	"github.com/matzehuels/seed/pkg/errors"
)

// UnknownPropertyError reports a reference to an element, property or
// token that does not exist.
type UnknownPropertyError struct {
	Element  string
	Property string
}

func (e *UnknownPropertyError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("unknown element %q", e.Element)
	}
	if e.Element == "" {
		return fmt.Sprintf("unknown property %q", e.Property)
	}
	return fmt.Sprintf("unknown property %q on %q", e.Property, e.Element)
}

// Code returns the error code for this error type.
func (e *UnknownPropertyError) Code() errors.Code { return errors.ErrCodeUnknownProperty }

// UnsatisfiableError reports a required constraint that conflicts with the
// required constraints added before it.
type UnsatisfiableError struct {
	Constraint string
	Err        error
}

func (e *UnsatisfiableError) Error() string {
	return fmt.Sprintf("unsatisfiable constraint: %s", e.Constraint)
}

func (e *UnsatisfiableError) Unwrap() error { return e.Err }

// Code returns the error code for this error type.
func (e *UnsatisfiableError) Code() errors.Code { return errors.ErrCodeUnsatisfiable }

// NotImplementedError reports a reserved feature, such as Previous/Next
// element references.
type NotImplementedError struct {
	Feature string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("not implemented: %s", e.Feature)
}

// Code returns the error code for this error type.
func (e *NotImplementedError) Code() errors.Code { return errors.ErrCodeNotImplemented }

// ExpressionError reports an expression that cannot be written as a
// linear combination of variables.
type ExpressionError struct {
	Expression string
	Reason     string
}

func (e *ExpressionError) Error() string {
	return fmt.Sprintf("invalid expression %s: %s", e.Expression, e.Reason)
}

// Code returns the error code for this error type.
func (e *ExpressionError) Code() errors.Code { return errors.ErrCodeInvalidExpression }

// DivergedError reports that the solver hit its iteration limit.
type DivergedError struct {
	Constraint string
	Err        error
}

func (e *DivergedError) Error() string {
	return fmt.Sprintf("solver diverged while adding %s", e.Constraint)
}

func (e *DivergedError) Unwrap() error { return e.Err }

// Code returns the error code for this error type.
func (e *DivergedError) Code() errors.Code { return errors.ErrCodeDiverged }
