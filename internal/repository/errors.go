package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists is returned when creating an entity whose key is taken.
	ErrAlreadyExists = errors.New("entity already exists")

	// ErrConflict is returned when a conditional write lost to a concurrent change.
	ErrConflict = errors.New("entity changed concurrently")
)
