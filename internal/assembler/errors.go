package assembler

import "errors"

// ErrInvalidMode means the caller asked for an architecture name other than
// "x86" or "x64". The current mode is left untouched.
var ErrInvalidMode = errors.New("invalid mode")

// ErrUnsafeCode means the input failed the size or lexical-safety checks.
// It deliberately carries no detail: filter internals are not surfaced to
// end users.
var ErrUnsafeCode = errors.New("unsafe code")

// Failure reports that the external toolchain failed or produced a listing
// the decoder could not recognize. Msg is the cleaned assembler diagnostic
// when one exists, otherwise a generic message.
type Failure struct {
	Msg string
}

func (f *Failure) Error() string { return f.Msg }
