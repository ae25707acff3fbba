package config

import "github.com/pkg/errors"

// ConfigError is spec.md §7's ConfigError class: a configuration
// problem detected before any input is read, always fatal. It wraps
// github.com/pkg/errors so cmd/tokloom can print the proximate message
// by default and the full cause chain at -v, matching how
// regexadapter.Compile's own errors are surfaced.
type ConfigError struct {
	msg   string
	cause error
}

func newConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{msg: errors.Errorf(format, args...).Error()}
}

func (e *ConfigError) Error() string { return e.msg }

func (e *ConfigError) Unwrap() error { return e.cause }

// RegexError is spec.md §7's RegexError class: a pattern failed to
// compile. Identifier names which flag or operator the pattern came
// from (e.g. "primary pattern", "filter", "field") so the diagnostic
// matches spec.md §7's "includes the offending identifier" requirement.
type RegexError struct {
	Identifier string
	cause      error
}

func newRegexError(identifier string, cause error) *RegexError {
	return &RegexError{Identifier: identifier, cause: errors.Wrap(cause, identifier)}
}

func (e *RegexError) Error() string { return e.cause.Error() }

func (e *RegexError) Unwrap() error { return e.cause }
