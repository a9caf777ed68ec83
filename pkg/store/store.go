// Package store defines the object storage the gate reads raw files from and
// writes cleaned files to.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Location identifies one object: a bucket (or container, or binding root)
// and a key that may contain path segments.
type Location struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

func (l Location) String() string { return l.Bucket + "/" + l.Key }

// Validate reports whether l names an object.
func (l Location) Validate() error {
	if strings.TrimSpace(l.Bucket) == "" {
		return fmt.Errorf("%w: empty bucket", ErrInvalidLocation)
	}
	if strings.TrimSpace(l.Key) == "" || strings.HasSuffix(l.Key, "/") {
		return fmt.Errorf("%w: key %q does not name an object", ErrInvalidLocation, l.Key)
	}
	return nil
}

var (
	ErrNotFound        = errors.New("object not found")
	ErrInvalidLocation = errors.New("invalid location")
)

type Reader interface {
	Get(ctx context.Context, loc Location) ([]byte, error)
}

type Writer interface {
	Put(ctx context.Context, loc Location, data []byte) error
}

type Store interface {
	Reader
	Writer
}
