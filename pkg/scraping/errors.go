package scraping

import (
	"errors"
	"fmt"
)

// Kind classifies why a fetch failed.
type Kind string

const (
	KindNetwork      Kind = "network"
	KindMissingBlock Kind = "missing-block"
	KindMissingPath  Kind = "missing-path"
	KindNotNumeric   Kind = "not-numeric"
)

var (
	ErrBadStatus    = errors.New("unexpected HTTP status")
	ErrMissingBlock = errors.New("structured data block not found")
	ErrMissingPath  = errors.New("key path not found")
	ErrNotNumeric   = errors.New("value is not numeric")
)

// FetchError reports a failed metric fetch.
type FetchError struct {
	Kind Kind
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err is a FetchError and returns it.
func IsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
