package apperrors

import (
	"fmt"
	"net/http"
)

// Error is the application error type returned by the service layer.
// Code is the HTTP status the controller should translate it to.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match against the sentinel instances below even when a
// sentinel has been copied via Wrap.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap returns a copy of sentinel carrying err as its cause, leaving the
// sentinel itself untouched.
func Wrap(sentinel *Error, err error) *Error {
	return &Error{Code: sentinel.Code, Message: sentinel.Message, Err: err}
}

// Generic error kinds
var (
	ErrValidation     = New(http.StatusBadRequest, "Invalid request", nil)
	ErrNotFound       = New(http.StatusNotFound, "Not found", nil)
	ErrForbidden      = New(http.StatusForbidden, "Forbidden", nil)
	ErrInternalServer = New(http.StatusInternalServerError, "Internal server error", nil)
)

// Transaction lifecycle error kinds. Conflict-class errors are detected before
// any mutation sticks; state-class errors after loading the aggregate.
var (
	ErrInsufficientInventory = New(http.StatusConflict, "Not enough seats", nil)
	ErrInvalidVoucher        = New(http.StatusBadRequest, "Invalid voucher", nil)
	ErrInvalidCoupon         = New(http.StatusBadRequest, "Invalid coupon", nil)
	ErrEventNotPublished     = New(http.StatusBadRequest, "Event is not published", nil)
	ErrInvalidTransition     = New(http.StatusConflict, "Operation not valid for current transaction status", nil)
	ErrPaymentWindowExpired  = New(http.StatusBadRequest, "Payment time expired", nil)
	ErrProofMissing          = New(http.StatusBadRequest, "Payment proof not uploaded", nil)
)
