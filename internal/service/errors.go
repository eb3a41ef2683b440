package service

import "errors"

// Business failure kinds. Handlers dispatch on these with errors.Is; none
// of them is fatal.
var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering an email that already has an account
	ErrEmailTaken = errors.New("email already registered")

	// ErrUserNotFound is returned when a token verifies but its subject no longer exists
	ErrUserNotFound = errors.New("user not found")

	// ErrWeakPassword is returned when a registration password fails the policy
	ErrWeakPassword = errors.New("password must be at least 8 characters long and contain uppercase, lowercase, and number")

	// ErrInvalidEmail is returned when a registration email is malformed
	ErrInvalidEmail = errors.New("invalid email format")
)
