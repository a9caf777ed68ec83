package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	j "github.com/wdm0006/intakegate/pkg/janitor"
)

func TestOf(t *testing.T) {
	hp := j.NewIntColumn("horsepower", 0)
	hp.Append(100)
	hp.AppendNull()
	hp.Append(120)
	color := j.NewStringColumn("color", 0)
	color.Append("red")
	color.Append("blue")
	color.Append("red")
	turbo := j.NewBoolColumn("turbo", 0)
	turbo.Append(true)
	turbo.Append(false)
	turbo.Append(false)
	empty := j.NewFloatColumn("empty", 3)
	for i := 0; i < 3; i++ {
		empty.SetNull(i)
	}
	f, err := j.FromColumns(hp, color, turbo, empty)
	require.NoError(t, err)

	rep := Of(f, 1)
	require.Len(t, rep.Columns, 4)
	assert.Equal(t, 3, rep.Rows)

	assert.Equal(t, Column{Name: "horsepower", Kind: "int", Count: 2, Nulls: 1, Num: &NumStats{Min: 100, Max: 120, Mean: 110}}, rep.Columns[0])
	assert.Equal(t, []Freq{{Value: "red", Count: 2}}, rep.Columns[1].Top)
	assert.Equal(t, &BoolStats{True: 1, False: 2}, rep.Columns[2].Bool)
	assert.Nil(t, rep.Columns[3].Num)
	assert.Equal(t, 3, rep.Columns[3].Nulls)

	txt := rep.Text()
	assert.Contains(t, txt, "- horsepower (int): count=2 nulls=1 min=100 max=120 mean=110")
	assert.Contains(t, txt, `  * "red": 2`)
}
