package core

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrConfiguration is returned when the requested group does not exist,
	// the name pattern does not compile or the scene description is malformed.
	// Nothing has been traversed or written when it is returned.
	ErrConfiguration = errors.New("configuration error")
	// ErrIntegrity is returned when the exported data would not describe
	// every collected mesh exactly once.
	ErrIntegrity = errors.New("integrity fault")
	// ErrIO is returned when the destination cannot be created or written.
	ErrIO = errors.New("io fault")
)

// Configurationf returns an error matching ErrConfiguration.
func Configurationf(format string, args ...interface{}) error {
	return errors.WithMessagef(ErrConfiguration, format, args...)
}

// Integrityf returns an error matching ErrIntegrity.
func Integrityf(format string, args ...interface{}) error {
	return errors.WithMessagef(ErrIntegrity, format, args...)
}

// IntegrityError lists the meshes that were collected but never found
// attached to a concrete object of the scene.
type IntegrityError struct {
	Unmatched []string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: %d mesh(es) never matched to a concrete object: %s",
		ErrIntegrity, len(e.Unmatched), strings.Join(e.Unmatched, ", "))
}

func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}

// IOError carries the failed operation, the path and the underlying cause.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", ErrIO, e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}
