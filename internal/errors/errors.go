package errors

import "fmt"

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	if ve, ok := err.(*ValidationError); ok {
		return ve, true
	}
	return nil, false
}

// Kind classifies a store failure. Callers branch on the kind, never on the message.
type Kind string

const (
	KindIllegalQuantity         Kind = "ILLEGAL_QUANTITY"
	KindIllegalIdentifier       Kind = "ILLEGAL_IDENTIFIER"
	KindMismatch                Kind = "MISMATCH"
	KindInvalidMonth            Kind = "INVALID_MONTH"
	KindInvalidPrice            Kind = "INVALID_PRICE"
	KindIdentifierNotFound      Kind = "IDENTIFIER_NOT_FOUND"
	KindNotInStock              Kind = "NOT_IN_STOCK"
	KindInsufficientStock       Kind = "INSUFFICIENT_STOCK"
	KindPriceNotSet             Kind = "PRICE_NOT_SET"
	KindIllegalReservedQuantity Kind = "ILLEGAL_RESERVED_QUANTITY"
	KindReservationNotFound     Kind = "RESERVATION_NOT_FOUND"
	KindStorageIO               Kind = "STORAGE_IO"
)

// StoreError is returned by every failing store operation.
type StoreError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Is matches any *StoreError of the same kind, so errors.Is(err, ErrPriceNotSet) works
// regardless of message or cause.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrIllegalQuantity         = &StoreError{Kind: KindIllegalQuantity, Message: "quantity must be at least 1"}
	ErrIllegalIdentifier       = &StoreError{Kind: KindIllegalIdentifier, Message: "id must be a non-negative hexadecimal number"}
	ErrMismatch                = &StoreError{Kind: KindMismatch, Message: "bean bag id already used by a different model"}
	ErrInvalidMonth            = &StoreError{Kind: KindInvalidMonth, Message: "month must be between 1 and 12"}
	ErrInvalidPrice            = &StoreError{Kind: KindInvalidPrice, Message: "price must be at least 1 pence"}
	ErrIdentifierNotFound      = &StoreError{Kind: KindIdentifierNotFound, Message: "bean bag id not recognised"}
	ErrNotInStock              = &StoreError{Kind: KindNotInStock, Message: "bean bag is out of stock"}
	ErrInsufficientStock       = &StoreError{Kind: KindInsufficientStock, Message: "insufficient stock available"}
	ErrPriceNotSet             = &StoreError{Kind: KindPriceNotSet, Message: "bean bag price has not been set"}
	ErrIllegalReservedQuantity = &StoreError{Kind: KindIllegalReservedQuantity, Message: "reserved quantity must be at least 1"}
	ErrReservationNotFound     = &StoreError{Kind: KindReservationNotFound, Message: "reservation number not recognised"}
	ErrStorageIO               = &StoreError{Kind: KindStorageIO, Message: "snapshot storage failed"}
)

func NewStoreError(kind Kind, message string) *StoreError {
	return &StoreError{
		Kind:    kind,
		Message: message,
	}
}

func NewStorageError(message string, cause error) *StoreError {
	return &StoreError{
		Kind:    KindStorageIO,
		Message: message,
		Cause:   cause,
	}
}

// KindOf reports the kind of the first *StoreError in err's chain.
func KindOf(err error) (Kind, bool) {
	for err != nil {
		if se, ok := err.(*StoreError); ok {
			return se.Kind, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return "", false
		}
		err = u.Unwrap()
	}
	return "", false
}
