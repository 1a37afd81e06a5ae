package custom_error

import "fmt"

// Domain error taxonomy for the request/stock workflow. Handlers branch on
// these with errors.As to pick the HTTP status and keep the specific reason
// visible to the caller.

type ValidationError struct {
	Property string
	Message  string
}

func (e *ValidationError) Error() string {
	if e.Property == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Property, e.Message)
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

type InvalidStateTransitionError struct {
	Current   string
	Attempted string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("cannot %s from status %s", e.Attempted, e.Current)
}

// AlreadyProcessedError guards idempotency: a request that already reached
// APROVADO or ENTREGUE must reject any further approval attempt.
type AlreadyProcessedError struct {
	Status string
}

func (e *AlreadyProcessedError) Error() string {
	return fmt.Sprintf("request already processed (status %s)", e.Status)
}

type InsufficientStockError struct {
	Product   string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.Product, e.Requested, e.Available)
}
