package service

import (
	"errors"
	"fmt"
)

// ValidationError reports a malformed or missing ingestion field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation: %s", e.Reason)
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// StorageError wraps a failure of the reading store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// DeliveryError reports that an alert did not reach a channel.
type DeliveryError struct {
	Channel    string
	StatusCode int
	Body       string
	Err        error
}

func (e *DeliveryError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("delivery via %s: %v", e.Channel, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("delivery via %s: unexpected status %d: %s", e.Channel, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("delivery via %s failed", e.Channel)
	}
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsStorage reports whether err carries a *StorageError.
func IsStorage(err error) bool {
	var s *StorageError
	return errors.As(err, &s)
}
