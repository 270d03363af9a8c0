package errors

import "fmt"

var (
	ErrValidation      = fmt.Errorf("invalid payload")
	ErrNotFound        = fmt.Errorf("resource not found")
	ErrNotAuthorized   = fmt.Errorf("actor does not own the resource")
	ErrAlreadyResolved = fmt.Errorf("already resolved to a terminal status")
	ErrDeliveryFailure = fmt.Errorf("delivery failure")
	ErrWorkerPanic     = fmt.Errorf("worker panic")
)
