// Package options holds the per-concern configuration structs and the
// interface they all satisfy.
package options

import (
	"strings"

	"github.com/spf13/pflag"
)

// IOptions is implemented by every option group in this package tree.
type IOptions interface {
	// Validate checks the option values and returns all problems found.
	Validate() []error

	// AddFlags registers the group's flags, optionally under prefixes.
	AddFlags(fs *pflag.FlagSet, prefixes ...string)
}

// Join builds a flag-name prefix from the given parts, dot separated with a
// trailing dot, e.g. Join("embedding") == "embedding.". Empty input yields "".
func Join(prefixes ...string) string {
	p := strings.Join(prefixes, ".")
	if p == "" {
		return ""
	}
	return p + "."
}
