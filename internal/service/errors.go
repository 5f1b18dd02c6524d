package service

import "fmt"

// The HTTP layer maps these by type: ValidationError 422, NotFoundError 404,
// InvalidStateError and InsufficientStockError 400, AuthenticationError 401
// (400 on the webhook path), UpstreamError 500. Detail strings are shown to
// clients verbatim.

type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return e.Detail }

type NotFoundError struct {
	Detail string
}

func (e *NotFoundError) Error() string { return e.Detail }

type InvalidStateError struct {
	Detail string
}

func (e *InvalidStateError) Error() string { return e.Detail }

type InsufficientStockError struct {
	Title string
	Left  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Not enough stock for %s. Only %d left.", e.Title, e.Left)
}

type AuthenticationError struct {
	Detail string
}

func (e *AuthenticationError) Error() string { return e.Detail }

type UpstreamError struct {
	Detail string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Err)
	}
	return e.Detail
}

func (e *UpstreamError) Unwrap() error { return e.Err }
