// Package rules holds the fixed cleaning policy applied by the gate: which
// fields are mandatory and with what type, which columns are dropped, which
// are imputed, and which are normalized. A Rules value never changes after
// construction and is safe to share between invocations.
package rules

import (
	"errors"
	"fmt"
	"strings"

	j "github.com/wdm0006/intakegate/pkg/janitor"
)

// Type is the logical type a mandatory field must have.
type Type string

const (
	Numeric Type = "numeric"
	String  Type = "string"
)

// Accepts reports whether a column of kind k satisfies t.
func (t Type) Accepts(k j.Kind) bool {
	switch t {
	case Numeric:
		return k.Numeric()
	case String:
		return k == j.KindString
	default:
		return false
	}
}

func (t Type) valid() bool { return t == Numeric || t == String }

type Field struct {
	Name string `yaml:"name" toml:"name"`
	Type Type   `yaml:"type" toml:"type"`
}

// Config is the serialisable form of Rules.
type Config struct {
	Mandatory []Field  `yaml:"mandatory" toml:"mandatory"`
	Drop      []string `yaml:"drop" toml:"drop"`
	Impute    struct {
		Median []string `yaml:"median" toml:"median"`
		Mode   []string `yaml:"mode" toml:"mode"`
	} `yaml:"impute" toml:"impute"`
	Normalize struct {
		IntegralSuffix []string `yaml:"integral_suffix" toml:"integral_suffix"`
	} `yaml:"normalize" toml:"normalize"`
}

type Rules struct {
	mandatory []Field
	drop      []string
	median    []string
	mode      []string
	integral  []string
}

var ErrInvalidRules = errors.New("invalid rules")

// New validates cfg and builds an immutable Rules value from it.
func New(cfg Config) (*Rules, error) {
	if len(cfg.Mandatory) == 0 {
		return nil, fmt.Errorf("%w: no mandatory fields", ErrInvalidRules)
	}
	seen := map[string]struct{}{}
	for _, f := range cfg.Mandatory {
		if strings.TrimSpace(f.Name) == "" {
			return nil, fmt.Errorf("%w: mandatory field with empty name", ErrInvalidRules)
		}
		if !f.Type.valid() {
			return nil, fmt.Errorf("%w: field %s has unknown type %q", ErrInvalidRules, f.Name, f.Type)
		}
		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("%w: field %s listed twice", ErrInvalidRules, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	for _, d := range cfg.Drop {
		if _, ok := seen[d]; ok {
			return nil, fmt.Errorf("%w: mandatory field %s is also in the drop list", ErrInvalidRules, d)
		}
	}
	for name, set := range map[string][]string{
		"drop":            cfg.Drop,
		"impute.median":   cfg.Impute.Median,
		"impute.mode":     cfg.Impute.Mode,
		"integral_suffix": cfg.Normalize.IntegralSuffix,
	} {
		if err := checkSet(name, set); err != nil {
			return nil, err
		}
	}
	return &Rules{
		mandatory: append([]Field(nil), cfg.Mandatory...),
		drop:      append([]string(nil), cfg.Drop...),
		median:    append([]string(nil), cfg.Impute.Median...),
		mode:      append([]string(nil), cfg.Impute.Mode...),
		integral:  append([]string(nil), cfg.Normalize.IntegralSuffix...),
	}, nil
}

func checkSet(name string, set []string) error {
	seen := make(map[string]struct{}, len(set))
	for _, s := range set {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%w: empty column name in %s", ErrInvalidRules, name)
		}
		if _, dup := seen[s]; dup {
			return fmt.Errorf("%w: column %s listed twice in %s", ErrInvalidRules, s, name)
		}
		seen[s] = struct{}{}
	}
	return nil
}

// Mandatory returns the mandatory fields in declaration order.
func (r *Rules) Mandatory() []Field { return append([]Field(nil), r.mandatory...) }

// MandatoryNames returns the mandatory field names in declaration order.
func (r *Rules) MandatoryNames() []string {
	out := make([]string, len(r.mandatory))
	for i, f := range r.mandatory {
		out[i] = f.Name
	}
	return out
}

func (r *Rules) Drop() []string            { return append([]string(nil), r.drop...) }
func (r *Rules) MedianColumns() []string   { return append([]string(nil), r.median...) }
func (r *Rules) ModeColumns() []string     { return append([]string(nil), r.mode...) }
func (r *Rules) IntegralColumns() []string { return append([]string(nil), r.integral...) }

// Config returns the serialisable form of r.
func (r *Rules) Config() Config {
	var cfg Config
	cfg.Mandatory = r.Mandatory()
	cfg.Drop = r.Drop()
	cfg.Impute.Median = r.MedianColumns()
	cfg.Impute.Mode = r.ModeColumns()
	cfg.Normalize.IntegralSuffix = r.IntegralColumns()
	return cfg
}
