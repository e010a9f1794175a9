package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound represents a resource not found error in the repository layer.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s with ID '%s' not found", e.Resource, e.ID)
}

// IsNotFound checks if an error is a repository not found error.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}

// NewNotFound creates a new ErrNotFound.
func NewNotFound(resource, id string) ErrNotFound {
	return ErrNotFound{Resource: resource, ID: id}
}

// ErrInvalidToken is returned for a continuation token the store did not issue.
type ErrInvalidToken struct {
	Token  string
	Reason string
}

func (e ErrInvalidToken) Error() string {
	return fmt.Sprintf("invalid continuation token: %s", e.Reason)
}

// IsInvalidToken checks if an error is an ErrInvalidToken.
func IsInvalidToken(err error) bool {
	var it ErrInvalidToken
	return errors.As(err, &it)
}
