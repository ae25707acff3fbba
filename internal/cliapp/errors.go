package cliapp

import "github.com/pkg/errors"

// FlagError is a malformed-argument diagnostic, surfaced before any
// input is read — the argument-layer counterpart of config.ConfigError
// for problems config.Compile never sees because they never made it
// into a config.Raw.
type FlagError struct {
	Flag string
	msg  string
}

func newFlagError(flag, format string) *FlagError {
	return &FlagError{Flag: flag, msg: errors.Errorf("%s: %s", flag, format).Error()}
}

func newFlagErrorPlain(format string) *FlagError {
	return &FlagError{msg: format}
}

func (e *FlagError) Error() string { return e.msg }
