package cache

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrBadKey is wrapped by every error caused by a key that can't be
	// mapped to a path inside the cache.
	ErrBadKey = errors.New("malformed cache key")
	// ErrEmptyPayload is returned when saving zero bytes; zero length
	// is reserved for blank entries.
	ErrEmptyPayload = errors.New("empty payload")
	// ErrBlank is wrapped by a MissError for an entry that is reserved
	// but not yet produced.
	ErrBlank = errors.New("entry is blank")
)

// InitError means the cache root could not be set up as a directory
// tree.
type InitError struct {
	Dir string
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("could not initialize cache in %s: %v", e.Dir, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// WriteError means an entry could not be saved or removed.
type WriteError struct {
	Key  string
	Path string // empty if the key never resolved to a path
	Err  error
}

func (e *WriteError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("could not write key %q to cache: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("could not write key %q to cache at %s: %v", e.Key, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// MissError means the requested entry is absent, blank, or unreadable.
type MissError struct {
	Key string
	Id  string // identifier derived from Key
	Err error
}

func (e *MissError) Error() string {
	return fmt.Sprintf("file with identifier %s not found: %v", e.Id, e.Err)
}

func (e *MissError) Unwrap() error { return e.Err }

// OverwriteError is returned by Save under the Fail policy when the
// entry is already present.
type OverwriteError struct {
	Key string
	Id  string
}

func (e *OverwriteError) Error() string {
	return fmt.Sprintf("entry with identifier %s already present", e.Id)
}

// IsMiss reports whether err is, or wraps, a *MissError.
func IsMiss(err error) bool {
	var miss *MissError
	return errors.As(err, &miss)
}
