package jsonlio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	j "github.com/wdm0006/intakegate/pkg/janitor"
)

const cars = `{"CarName":"alfa-romero giulia","horsepower":111,"Price":13495.5,"turbo":false}
{"CarName":"audi 100 ls","horsepower":null,"Price":13950,"turbo":true,"color":"red"}

{"CarName":"bmw 320i","horsepower":101,"Price":16430,"turbo":false,"color":4}
`

func TestReadAll(t *testing.T) {
	f, err := ReadAll([]byte(cars))
	require.NoError(t, err)
	require.Equal(t, 3, f.Rows())
	assert.Equal(t, []string{"CarName", "horsepower", "Price", "turbo", "color"}, f.Schema().Names())

	kinds := map[string]j.Kind{}
	for _, cs := range f.Schema().Columns {
		kinds[cs.Name] = cs.Type
	}
	assert.Equal(t, map[string]j.Kind{
		"CarName":    j.KindString,
		"horsepower": j.KindInt,
		"Price":      j.KindFloat,
		"turbo":      j.KindBool,
		"color":      j.KindString,
	}, kinds)

	hp, _ := f.ColumnByName("horsepower")
	assert.True(t, hp.IsNull(1))
	v, _ := hp.(*j.IntColumn).Get(2)
	assert.Equal(t, int64(101), v)

	color, _ := f.ColumnByName("color")
	assert.True(t, color.IsNull(0))
	s, _ := color.(*j.StringColumn).Get(2)
	assert.Equal(t, "4", s)
}

func TestReadAllErrors(t *testing.T) {
	_, err := ReadAll([]byte("\n\n"))
	require.ErrorIs(t, err, ErrEmptyInput)
	_, err = ReadAll([]byte(`{"a":1}` + "\n" + `{"a":`))
	require.Error(t, err)
	_, err = ReadAll([]byte(`[1,2]`))
	require.Error(t, err)
}
