// Package daprstore reads and writes objects through Dapr output bindings
// (for example bindings.aws.s3 or bindings.azure.blobstorage). Each bucket
// maps to one binding component; by default the binding has the bucket's
// name.
package daprstore

import (
	"context"
	"fmt"
	"strings"

	dapr "github.com/dapr/go-sdk/client"

	"github.com/wdm0006/intakegate/pkg/store"
)

const (
	opGet    = "get"
	opCreate = "create"
	keyMeta  = "key"
)

// BindingInvoker is the part of the Dapr client used by the store.
type BindingInvoker interface {
	InvokeBinding(ctx context.Context, in *dapr.InvokeBindingRequest) (*dapr.BindingEvent, error)
}

type Store struct {
	client   BindingInvoker
	bindings map[string]string
}

type Option func(*Store)

// WithBindings maps bucket names to binding component names.
func WithBindings(m map[string]string) Option {
	return func(s *Store) {
		for k, v := range m {
			s.bindings[k] = v
		}
	}
}

func New(client BindingInvoker, opts ...Option) *Store {
	s := &Store{client: client, bindings: map[string]string{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) binding(bucket string) string {
	if b, ok := s.bindings[bucket]; ok {
		return b
	}
	return bucket
}

func (s *Store) Get(ctx context.Context, loc store.Location) ([]byte, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	out, err := s.client.InvokeBinding(ctx, &dapr.InvokeBindingRequest{
		Name:      s.binding(loc.Bucket),
		Operation: opGet,
		Metadata:  map[string]string{keyMeta: loc.Key},
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s: %v", store.ErrNotFound, loc, err)
		}
		return nil, fmt.Errorf("binding %s get %s: %w", s.binding(loc.Bucket), loc.Key, err)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: %s: empty binding response", store.ErrNotFound, loc)
	}
	return out.Data, nil
}

func (s *Store) Put(ctx context.Context, loc store.Location, data []byte) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	_, err := s.client.InvokeBinding(ctx, &dapr.InvokeBindingRequest{
		Name:      s.binding(loc.Bucket),
		Operation: opCreate,
		Data:      data,
		Metadata:  map[string]string{keyMeta: loc.Key},
	})
	if err != nil {
		return fmt.Errorf("binding %s create %s: %w", s.binding(loc.Bucket), loc.Key, err)
	}
	return nil
}

// isNotFound recognises the missing-object errors of the common storage
// bindings; Dapr surfaces them as plain text. A bare "not found" is not enough:
// Dapr reports an unknown binding component that way too.
func isNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"nosuchkey", "blobnotfound", "object doesn't exist", "no such file"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
