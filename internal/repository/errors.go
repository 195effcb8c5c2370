package repository

import "errors"

var (
	// ErrNotFound covers absent documents and identifiers that can never name a document.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique document is created twice.
	ErrAlreadyExists = errors.New("already exists")
	// ErrDatabase is the generic write failure surfaced to callers; details are only logged.
	ErrDatabase = errors.New("database error")
)
