package daprstore

import (
	"context"
	"errors"
	"testing"

	dapr "github.com/dapr/go-sdk/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/intakegate/pkg/store"
)

type fakeInvoker struct {
	calls []*dapr.InvokeBindingRequest
	out   *dapr.BindingEvent
	err   error
}

func (f *fakeInvoker) InvokeBinding(ctx context.Context, in *dapr.InvokeBindingRequest) (*dapr.BindingEvent, error) {
	f.calls = append(f.calls, in)
	return f.out, f.err
}

func TestGet(t *testing.T) {
	inv := &fakeInvoker{out: &dapr.BindingEvent{Data: []byte("a,b\n")}}
	s := New(inv, WithBindings(map[string]string{"raw-zone": "s3-raw"}))

	b, err := s.Get(context.Background(), store.Location{Bucket: "raw-zone", Key: "in/cars.csv"})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(b))
	require.Len(t, inv.calls, 1)
	assert.Equal(t, "s3-raw", inv.calls[0].Name)
	assert.Equal(t, "get", inv.calls[0].Operation)
	assert.Equal(t, map[string]string{"key": "in/cars.csv"}, inv.calls[0].Metadata)
}

func TestPutUsesBucketAsDefaultBinding(t *testing.T) {
	inv := &fakeInvoker{out: &dapr.BindingEvent{}}
	s := New(inv)
	require.NoError(t, s.Put(context.Background(), store.Location{Bucket: "curated", Key: "processed_cars.csv"}, []byte("x")))
	require.Len(t, inv.calls, 1)
	assert.Equal(t, "curated", inv.calls[0].Name)
	assert.Equal(t, "create", inv.calls[0].Operation)
	assert.Equal(t, []byte("x"), inv.calls[0].Data)
}

func TestErrors(t *testing.T) {
	inv := &fakeInvoker{err: errors.New("error invoking output binding: NoSuchKey: The specified key does not exist")}
	s := New(inv)
	_, err := s.Get(context.Background(), store.Location{Bucket: "raw", Key: "missing.csv"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	denied := errors.New("AccessDenied")
	inv.err = denied
	_, err = s.Get(context.Background(), store.Location{Bucket: "raw", Key: "a.csv"})
	assert.ErrorIs(t, err, denied)
	assert.NotErrorIs(t, err, store.ErrNotFound)

	err = s.Put(context.Background(), store.Location{Bucket: "curated", Key: "a.csv"}, nil)
	assert.ErrorIs(t, err, denied)

	err = s.Put(context.Background(), store.Location{Bucket: "curated"}, nil)
	assert.ErrorIs(t, err, store.ErrInvalidLocation)
}

func TestMissingBindingIsNotMissingObject(t *testing.T) {
	inv := &fakeInvoker{err: errors.New("error invoking output binding raw: binding raw not found")}
	s := New(inv)
	_, err := s.Get(context.Background(), store.Location{Bucket: "raw", Key: "cars.csv"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, err.Error(), "binding raw get cars.csv")

	for _, msg := range []string{
		"BlobNotFound: The specified blob does not exist.",
		"open /data/raw/cars.csv: no such file or directory",
		"storage: object doesn't exist",
	} {
		inv.err = errors.New(msg)
		_, err = s.Get(context.Background(), store.Location{Bucket: "raw", Key: "cars.csv"})
		assert.ErrorIs(t, err, store.ErrNotFound, msg)
	}
}
