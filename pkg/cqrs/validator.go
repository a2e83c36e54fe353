package cqrs

import "errors"

// ErrInvalidArgument is matched by every validation failure
var ErrInvalidArgument = errors.New("invalid argument")

// Validator is implemented by anything that can check its own arguments.
type Validator interface {
	Validate() error
}

// ArgumentError reports a failed validation.
type ArgumentError struct {
	// Name of the offending argument, empty for free-form assertions
	Name    string
	Message string
}

func (e *ArgumentError) Error() string {
	return e.Message
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// Assert returns an ArgumentError carrying message when condition is false.
func Assert(condition bool, message string) error {
	if !condition {
		return &ArgumentError{Message: message}
	}
	return nil
}

// AssertFunc is Assert for a lazily evaluated condition.
func AssertFunc(expr func() bool, message string) error {
	return Assert(expr(), message)
}

// AssertIsSet fails with "<name> not set" when value is its type's zero value.
func AssertIsSet[T comparable](value T, name string) error {
	var zero T
	if value == zero {
		return &ArgumentError{Name: name, Message: name + " not set"}
	}
	return nil
}

// FirstError returns the first non-nil error.
func FirstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
