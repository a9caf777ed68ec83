package parquetio

import (
	"bytes"
	"testing"

	parquet "github.com/segmentio/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	j "github.com/wdm0006/intakegate/pkg/janitor"
)

type carRow struct {
	CarName    string   `parquet:"CarName"`
	Horsepower *int64   `parquet:"horsepower"`
	Price      float64  `parquet:"Price"`
	Turbo      bool     `parquet:"turbo"`
	Citympg    *float32 `parquet:"citympg"`
}

func ptr[T any](v T) *T { return &v }

func encode(t *testing.T, rows []carRow) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := parquet.NewGenericWriter[carRow](&buf)
	_, err := w.Write(rows)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestReadAll(t *testing.T) {
	data := encode(t, []carRow{
		{CarName: "audi 100 ls", Horsepower: ptr(int64(102)), Price: 13950, Citympg: ptr(float32(24))},
		{CarName: "bmw 320i", Price: 16430, Turbo: true},
	})
	f, err := ReadAll(data)
	require.NoError(t, err)
	require.Equal(t, 2, f.Rows())

	kinds := map[string]j.Kind{}
	for _, cs := range f.Schema().Columns {
		kinds[cs.Name] = cs.Type
	}
	assert.Equal(t, map[string]j.Kind{
		"CarName":    j.KindString,
		"horsepower": j.KindInt,
		"Price":      j.KindFloat,
		"turbo":      j.KindBool,
		"citympg":    j.KindFloat,
	}, kinds)

	hp, _ := f.ColumnByName("horsepower")
	v, ok := hp.(*j.IntColumn).Get(0)
	require.True(t, ok)
	assert.Equal(t, int64(102), v)
	assert.True(t, hp.IsNull(1))

	name, _ := f.ColumnByName("CarName")
	s, _ := name.(*j.StringColumn).Get(1)
	assert.Equal(t, "bmw 320i", s)

	mpg, _ := f.ColumnByName("citympg")
	m, ok := mpg.(*j.FloatColumn).Get(0)
	require.True(t, ok)
	assert.Equal(t, 24.0, m)
}

func TestReadAllGarbage(t *testing.T) {
	_, err := ReadAll([]byte("not parquet"))
	require.Error(t, err)
}
