package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	j "github.com/wdm0006/intakegate/pkg/janitor"
)

func TestDefault(t *testing.T) {
	r := Default()
	require.Len(t, r.Mandatory(), 11)
	assert.Equal(t, "CarName", r.MandatoryNames()[0])
	assert.Equal(t, "Price", r.MandatoryNames()[10])
	assert.Contains(t, r.Drop(), "ownername")
	assert.Equal(t, []string{"cylindernumber"}, r.IntegralColumns())

	// accessors hand out copies
	names := r.Drop()
	names[0] = "changed"
	assert.Equal(t, "car_ID", r.Drop()[0])
}

func TestTypeAccepts(t *testing.T) {
	assert.True(t, Numeric.Accepts(j.KindInt))
	assert.True(t, Numeric.Accepts(j.KindFloat))
	assert.False(t, Numeric.Accepts(j.KindString))
	assert.True(t, String.Accepts(j.KindString))
	assert.False(t, String.Accepts(j.KindFloat))
	assert.False(t, String.Accepts(j.KindBool))
}

func TestNewRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  func() Config
	}{
		{"no mandatory", func() Config { return Config{} }},
		{"unknown type", func() Config {
			c := DefaultConfig()
			c.Mandatory[0].Type = "date"
			return c
		}},
		{"duplicate field", func() Config {
			c := DefaultConfig()
			c.Mandatory = append(c.Mandatory, Field{Name: "Price", Type: Numeric})
			return c
		}},
		{"mandatory dropped", func() Config {
			c := DefaultConfig()
			c.Drop = append(c.Drop, "horsepower")
			return c
		}},
		{"duplicate mode column", func() Config {
			c := DefaultConfig()
			c.Impute.Mode = append(c.Impute.Mode, "color")
			return c
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.cfg())
			require.ErrorIs(t, err, ErrInvalidRules)
		})
	}
}

func TestLoadYAMLAndTOML(t *testing.T) {
	dir := t.TempDir()
	yml := `mandatory:
  - name: id
    type: numeric
  - name: label
    type: string
drop: [secret]
impute:
  median: [score]
  mode: [group]
normalize:
  integral_suffix: [id]
`
	tml := `drop = ["secret"]

[[mandatory]]
name = "id"
type = "numeric"

[[mandatory]]
name = "label"
type = "string"

[impute]
median = ["score"]
mode = ["group"]

[normalize]
integral_suffix = ["id"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules.yaml"), []byte(yml), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules.toml"), []byte(tml), 0o600))

	for _, name := range []string{"rules.yaml", "rules.toml"} {
		r, err := Load(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Equal(t, []Field{{"id", Numeric}, {"label", String}}, r.Mandatory())
		assert.Equal(t, []string{"secret"}, r.Drop())
		assert.Equal(t, []string{"score"}, r.MedianColumns())
		assert.Equal(t, []string{"group"}, r.ModeColumns())
		assert.Equal(t, []string{"id"}, r.IntegralColumns())
	}
}

func TestLoadEmptyPathIsDefault(t *testing.T) {
	r, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Config(), r.Config())
}

func TestParseUnknownKeyAndFormat(t *testing.T) {
	_, err := Parse([]byte("mandatory: []\nextra: 1\n"), ".yaml")
	require.Error(t, err)
	_, err = Parse([]byte("{}"), ".json")
	require.Error(t, err)
}

func TestYAMLRoundTrip(t *testing.T) {
	b, err := Default().YAML()
	require.NoError(t, err)
	r, err := Parse(b, ".yml")
	require.NoError(t, err)
	assert.Equal(t, Default().Config(), r.Config())
}
