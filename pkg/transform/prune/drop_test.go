package prune

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	j "github.com/wdm0006/intakegate/pkg/janitor"
)

func TestDrop(t *testing.T) {
	f, err := j.FromColumns(
		j.NewIntColumn("car_ID", 3),
		j.NewStringColumn("CarName", 3),
		j.NewStringColumn("ownername", 3),
		j.NewFloatColumn("Price", 3),
	)
	require.NoError(t, err)

	out, err := (&Drop{Columns: []string{"car_ID", "ownername", "iban"}}).Apply(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, []string{"CarName", "Price"}, out.Schema().Names())
	assert.Equal(t, 3, out.Rows())
	// input untouched
	assert.Equal(t, 4, f.Cols())
}

func TestDropNothingPresent(t *testing.T) {
	f, err := j.FromColumns(j.NewIntColumn("a", 1))
	require.NoError(t, err)
	out, err := (&Drop{Columns: []string{"x", "y"}}).Apply(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, out.Schema().Names())
}

func TestDropProperties(t *testing.T) {
	pool := []string{"a", "b", "c", "d", "e", "f"}
	rapid.Check(t, func(t *rapid.T) {
		present := rapid.SliceOfDistinct(rapid.SampledFrom(pool), rapid.ID[string]).Draw(t, "present")
		drop := rapid.SliceOf(rapid.SampledFrom(pool)).Draw(t, "drop")

		cols := make([]j.Column, len(present))
		for i, name := range present {
			cols[i] = j.NewStringColumn(name, 2)
		}
		f, err := j.FromColumns(cols...)
		if err != nil {
			t.Fatal(err)
		}
		out, err := (&Drop{Columns: drop}).Apply(context.Background(), f)
		if err != nil {
			t.Fatalf("drop errored: %v", err)
		}
		dropped := map[string]bool{}
		for _, d := range drop {
			dropped[d] = true
		}
		var want []string
		for _, name := range present {
			if !dropped[name] {
				want = append(want, name)
			}
		}
		got := out.Schema().Names()
		if len(got) != len(want) {
			t.Fatalf("got columns %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("got columns %v, want %v", got, want)
			}
		}
	})
}
