package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRoute is returned when a route has an empty endpoint or both
	// endpoints name the same station. Callers are expected to re-prompt.
	ErrInvalidRoute = errors.New("invalid route")

	// ErrInvalidRange is returned when ticket sales bounds are malformed.
	ErrInvalidRange = errors.New("invalid ticket range")

	// ErrUnknownClass is returned when a wagon class is missing from the catalog.
	ErrUnknownClass = errors.New("unknown wagon class")

	// ErrInvalidCapacity is returned for a wagon class with capacity below one.
	ErrInvalidCapacity = errors.New("invalid wagon capacity")

	// ErrInvalidSales is returned when a sales table holds a negative count.
	ErrInvalidSales = errors.New("invalid ticket sales")
)

// UnknownClassError names the class that could not be resolved.
type UnknownClassError struct {
	Class string
}

func (e *UnknownClassError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownClass, e.Class)
}

func (e *UnknownClassError) Unwrap() error { return ErrUnknownClass }

// InvalidCapacityError carries the offending class and capacity.
type InvalidCapacityError struct {
	Class    string
	Capacity int
}

func (e *InvalidCapacityError) Error() string {
	return fmt.Sprintf("%s: class %q has capacity %d", ErrInvalidCapacity, e.Class, e.Capacity)
}

func (e *InvalidCapacityError) Unwrap() error { return ErrInvalidCapacity }

// IsRecoverable reports whether the caller may retry after fixing its input.
// Only route errors qualify; everything else points at a configuration bug.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrInvalidRoute)
}

// IsConfigError reports whether err stems from a malformed catalog, range or
// sales table.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidSales) ||
		errors.Is(err, ErrUnknownClass) ||
		errors.Is(err, ErrInvalidCapacity)
}
