package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSetNotFound is returned when a word set does not exist.
	ErrSetNotFound = errors.New("set not found")
	// ErrNoWords indicates a set resolved to zero playable words.
	ErrNoWords = errors.New("no words in set")
	// ErrPlayNotFound is returned when a play session is unknown or already finished.
	ErrPlayNotFound = errors.New("play session not found")
)

// IsNotFound reports whether err belongs to the not-found class. Callers
// redirect the user to the set listing on these.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSetNotFound) || errors.Is(err, ErrNoWords) || errors.Is(err, ErrPlayNotFound)
}

// ValidationError is a user-correctable input problem surfaced inline.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RepositoryError wraps a backend failure. Its message is the backend's
// message unchanged so it can be shown to the user verbatim.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return e.Err.Error()
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// ConfigurationError signals a setting that makes the service unusable.
type ConfigurationError struct {
	Setting string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Setting, e.Message)
}
