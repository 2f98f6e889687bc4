package service

import "errors"

var (
	// ErrInvalidCredentials hides whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrInvalidInput = errors.New("missing or invalid input")
	ErrInvalidURL   = errors.New("invalid URL")

	// ErrOwnerNotFound means a visited link points at a user record that no
	// longer exists; the redirect may still proceed but crediting cannot.
	ErrOwnerNotFound = errors.New("link owner not found")
)
