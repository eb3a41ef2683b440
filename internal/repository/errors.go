package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when an email collides with an existing row
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrDuplicatePhone is returned when a phone number collides with an existing contact
	ErrDuplicatePhone = errors.New("phone number already exists")
)
