package syntax

import "fmt"

// Options selects the optional behaviour of alignment and normalization.
type Options struct {
	// Alignment
	CheckTokens bool `yaml:"check_tokens" json:"check_tokens"`
	AddWordIDs  bool `yaml:"add_word_ids" json:"add_word_ids"`

	// Normalization
	ReplaceMissing bool `yaml:"rep_miss_w_dummy" json:"rep_miss_w_dummy"`
	FixSelfRefs    bool `yaml:"fix_selfrefs" json:"fix_selfrefs"`
	MarkRoot       bool `yaml:"mark_root" json:"mark_root"`
	KeepOriginal   bool `yaml:"keep_old" json:"keep_old"`
}

// DefaultOptions returns the defaults: missing analyses are replaced with a
// dummy edge and self-references are repaired; everything else is off.
func DefaultOptions() Options {
	return Options{
		ReplaceMissing: true,
		FixSelfRefs:    true,
	}
}

// Key is a stable short representation used in cache keys and logs.
func (o Options) Key() string {
	b := func(v bool) byte {
		if v {
			return '1'
		}
		return '0'
	}
	return fmt.Sprintf("%c%c%c%c%c%c",
		b(o.CheckTokens), b(o.AddWordIDs),
		b(o.ReplaceMissing), b(o.FixSelfRefs), b(o.MarkRoot), b(o.KeepOriginal))
}

// Set applies a named boolean option. Names follow the original keyword
// arguments, including their aliases.
func (o *Options) Set(name string, v bool) error {
	switch name {
	case "check_tokens", "check":
		o.CheckTokens = v
	case "add_word_ids", "word_ids":
		o.AddWordIDs = v
	case "rep_miss_w_dummy", "rep_miss":
		o.ReplaceMissing = v
	case "fix_selfrefs", "selfrefs":
		o.FixSelfRefs = v
	case "mark_root", "root":
		o.MarkRoot = v
	case "keep_old":
		o.KeepOriginal = v
	default:
		return fmt.Errorf("%w: unknown option %q", ErrInvalidInput, name)
	}
	return nil
}

// OptionNames lists every accepted option name, aliases included.
var OptionNames = []string{
	"check_tokens", "check",
	"add_word_ids", "word_ids",
	"rep_miss_w_dummy", "rep_miss",
	"fix_selfrefs", "selfrefs",
	"mark_root", "root",
	"keep_old",
}
