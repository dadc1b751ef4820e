package auth

import "errors"

// ErrUserAlreadyExists is returned when the application user is already defined on the server.
var ErrUserAlreadyExists = errors.New("user already exists")

// ErrAuthenticationFailed is returned when the server rejects the administrative credentials.
var ErrAuthenticationFailed = errors.New("authentication failed")
