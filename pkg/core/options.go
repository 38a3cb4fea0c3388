package core

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Default dialect settings applied when neither the caller nor the
// resource specifies a value.
const (
	DefaultDelimiter      = ","
	DefaultNAValue        = ""
	DefaultLineTerminator = `\n`
	DefaultQuoteChar      = `"`
	DefaultEscapeChar     = `\\`
	DefaultEncoding       = "utf8"
)

// Options carries caller-supplied load settings. Caller-supplied keys take
// precedence over the resource's own dialect configuration; unset fields
// fall back to the resource, then to package defaults.
//
// Engine-specific settings go in Extra and are validated against a
// per-dialect allow-list by each compiler.
type Options struct {
	Delimiter      string
	Header         *bool
	NAValue        *string
	LineTerminator string
	QuoteChar      string
	EscapeChar     string
	Encoding       string
	SkipRows       int

	// Extra holds engine-specific settings, e.g. "local" for client-side
	// LOAD DATA, "compression" and "schema_name" for warehouse copies.
	Extra map[string]string
}

// Bool returns a *bool for use as a header override.
func Bool(v bool) *bool { return &v }

// String returns a *string for use as an na_value override.
func String(v string) *string { return &v }

// WithResource merges the resource's dialect configuration underneath the
// caller's options and applies defaults, returning a fully resolved copy.
// The Header field may still be nil afterwards; the loader resolves it by
// inference before compilation.
func (o Options) WithResource(r *Resource) Options {
	merged := o
	if merged.Delimiter == "" {
		merged.Delimiter = r.Dialect.Delimiter
	}
	if merged.Delimiter == "" {
		merged.Delimiter = DefaultDelimiter
	}
	if merged.Header == nil {
		merged.Header = r.Dialect.Header
	}
	if merged.NAValue == nil {
		na := r.Dialect.NAValue
		merged.NAValue = &na
	}
	if merged.LineTerminator == "" {
		merged.LineTerminator = r.Dialect.LineTerminator
	}
	if merged.LineTerminator == "" {
		merged.LineTerminator = DefaultLineTerminator
	}
	if merged.QuoteChar == "" {
		merged.QuoteChar = r.Dialect.QuoteChar
	}
	if merged.QuoteChar == "" {
		merged.QuoteChar = DefaultQuoteChar
	}
	if merged.EscapeChar == "" {
		merged.EscapeChar = r.Dialect.EscapeChar
	}
	if merged.EscapeChar == "" {
		merged.EscapeChar = DefaultEscapeChar
	}
	if merged.Encoding == "" {
		merged.Encoding = r.Dialect.Encoding
	}
	if merged.Encoding == "" {
		merged.Encoding = DefaultEncoding
	}
	if merged.SkipRows == 0 {
		merged.SkipRows = r.Dialect.SkipRows
	}
	return merged
}

// HeaderValue returns the resolved header flag. It must only be called
// after the loader has resolved the tri-state; calling it earlier is a
// pipeline bug.
func (o Options) HeaderValue() bool {
	if o.Header == nil {
		panic("bulkload: header not resolved before compilation")
	}
	return *o.Header
}

// NAValueOr returns the na_value, or def when unset.
func (o Options) NAValueOr(def string) string {
	if o.NAValue == nil {
		return def
	}
	return *o.NAValue
}

// ValidateExtra checks Extra against a dialect's allow-list. Unknown keys
// are a ConfigurationError rather than being silently accepted.
func (o Options) ValidateExtra(dialect string, allowed ...string) error {
	if len(o.Extra) == 0 {
		return nil
	}
	ok := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		ok[k] = true
	}
	var unknown []string
	for k := range o.Extra {
		if !ok[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return &ConfigurationError{
		Msg: fmt.Sprintf("dialect %s does not accept option(s): %s",
			dialect, strings.Join(unknown, ", ")),
	}
}

var (
	spaceRun    = regexp.MustCompile(`\s+`)
	spaceBefore = regexp.MustCompile(`\s+(;)`)
)

// CollapseSpace normalizes generated statement text: runs of whitespace
// become a single space and space before a terminating semicolon is
// dropped. Cosmetic only, and idempotent.
func CollapseSpace(s string) string {
	s = spaceRun.ReplaceAllString(s, " ")
	s = spaceBefore.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}
