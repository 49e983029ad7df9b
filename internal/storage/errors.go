package storage

import "errors"

// ErrNotFound is returned by mutations whose target row does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyAssigned is returned when a user already has a coach. The
// existing assignment is left untouched.
var ErrAlreadyAssigned = errors.New("user already assigned to a coach")
