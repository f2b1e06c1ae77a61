package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError reports a missing or invalid input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError reports an absent entity, looked up by id or natural key.
type NotFoundError struct {
	Entity string
	Key    any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.Key)
}

// InsufficientStockError is returned when an order asks for more meters than the ledger holds.
type InsufficientStockError struct {
	FabricType string
	Available  decimal.Decimal
	Requested  decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %s meters, requested %s meters",
		e.FabricType, e.Available.String(), e.Requested.String())
}

// ConflictError reports a duplicate natural key or a state that forbids the operation.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// storedScale is the number of decimal places kept by every quantity, rate and
// percentage column.
const storedScale = 2

var (
	maxGSTRate = decimal.NewFromInt(100)
	// maxStored is the first magnitude a NUMERIC(14,2) column cannot hold.
	maxStored = decimal.New(1, 12)
)

// checkScale rejects values the database would silently round or overflow on write.
func checkScale(field string, d decimal.Decimal) error {
	if !d.Equal(d.Round(storedScale)) {
		return invalid(field, "must have at most %d decimal places, got %s", storedScale, d)
	}
	if d.Abs().GreaterThanOrEqual(maxStored) {
		return invalid(field, "must be less than %s, got %s", maxStored, d)
	}
	return nil
}

// validateGSTRate accepts a percentage in [0, 100] with at most two decimal places.
func validateGSTRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return invalid("gst_rate", "cannot be negative, got %s", rate)
	}
	if rate.GreaterThan(maxGSTRate) {
		return invalid("gst_rate", "cannot exceed %s, got %s", maxGSTRate, rate)
	}
	return checkScale("gst_rate", rate)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func notFound(entity string, key any) error {
	return &NotFoundError{Entity: entity, Key: key}
}

func conflict(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}
