package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/dgallion1/estsyntax/internal/syntax"
)

// LoadOptions reads normalization options from a YAML file such as
//
//	rep_miss_w_dummy: true
//	fix_selfrefs: true
//	mark_root: false
//
// Keys left out keep their default. An empty path returns the defaults.
func LoadOptions(path string) (syntax.Options, error) {
	opts := syntax.DefaultOptions()
	if path == "" {
		return opts, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read options file: %w", err)
	}
	return ParseOptions(data)
}

// ParseOptions decodes YAML options over the defaults. Unknown keys are errors.
func ParseOptions(data []byte) (syntax.Options, error) {
	opts := syntax.DefaultOptions()
	if err := yaml.UnmarshalStrict(data, &opts); err != nil {
		return syntax.DefaultOptions(), fmt.Errorf("%w: options: %v", syntax.ErrInvalidInput, err)
	}
	return opts, nil
}

// Layer returns the configured layer name for format f.
func (c Config) Layer(f syntax.Format) string {
	switch f {
	case syntax.FormatCG3:
		return c.CG3Layer
	case syntax.FormatCONLL:
		return c.CONLLLayer
	default:
		return f.DefaultLayer()
	}
}
