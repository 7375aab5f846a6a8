package feed

import (
	"errors"
	"fmt"
)

// ErrFetchFailed matches every FetchError via errors.Is.
var ErrFetchFailed = errors.New("fetch failed")

// FetchError is the only error kind the accumulator surfaces. It covers
// transport failures, non-2xx responses and undecodable bodies alike.
type FetchError struct {
	Offset int
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch page at offset %d: %v", e.Offset, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrFetchFailed) succeed for any FetchError.
func (e *FetchError) Is(target error) bool { return target == ErrFetchFailed }
