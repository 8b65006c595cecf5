package entity

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrOrderNotFound   = errors.New("sell order not found")
	ErrConfigNotFound  = errors.New("stop loss config not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrHoldingNotFound = errors.New("holding not found")
)

// ValidationError reports invalid caller input.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// InvalidStateError reports an order action the lifecycle does not allow
// from the order's current status.
type InvalidStateError struct {
	OrderID string
	Status  string
	Action  string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s order %s in status %s", e.Action, e.OrderID, e.Status)
}

// MarketClosedError reports an execution attempt outside trading hours.
// The order is already terminal when this is returned; Retryable tells the
// caller a fresh order may succeed once the exchange reopens.
type MarketClosedError struct {
	Exchange string
	NextOpen *time.Time
}

func (e *MarketClosedError) Error() string {
	if e.NextOpen == nil {
		return fmt.Sprintf("market %s is closed", e.Exchange)
	}
	return fmt.Sprintf("market %s is closed, next open %s", e.Exchange, e.NextOpen.Format(time.RFC3339))
}

func (e *MarketClosedError) Retryable() bool {
	return true
}

// TradeFailedError reports a brokerage rejection. Terminal: the order stays
// failed and is never resubmitted.
type TradeFailedError struct {
	OrderID string
	Reason  string
}

func (e *TradeFailedError) Error() string {
	return fmt.Sprintf("trade for order %s failed: %s", e.OrderID, e.Reason)
}
