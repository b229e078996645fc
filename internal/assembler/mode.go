package assembler

import "fmt"

// Mode selects the instruction-width target passed to the external
// assembler.
type Mode int

const (
	// ModeX86 is the 32-bit target and the default for a new Service.
	ModeX86 Mode = iota
	// ModeX64 is the 64-bit target.
	ModeX64
)

// ParseMode maps the two recognized architecture names to a Mode. Anything
// else fails with ErrInvalidMode.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "x86":
		return ModeX86, nil
	case "x64":
		return ModeX64, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, name)
	}
}

func (m Mode) String() string {
	if m == ModeX64 {
		return "x64"
	}
	return "x86"
}

// Bits returns the instruction width the toolchain flag is derived from.
func (m Mode) Bits() int {
	if m == ModeX64 {
		return 64
	}
	return 32
}
