package users

import (
	"context"
	"errors"
)

// ErrBlobNotExist is returned by Blob.Load when the backing object has never
// been written. Callers treat it as an empty collection rather than a
// failure.
var ErrBlobNotExist = errors.New("blob does not exist")

// Blob is the narrow storage contract behind the user store: the whole
// collection travels as one opaque byte slice, read in full and rewritten in
// full. Implementations must make Save all-or-nothing; they are not required
// to coordinate concurrent writers; that is the store's job.
type Blob interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}
