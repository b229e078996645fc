// Package assembler exposes the sandboxed assemble/disassemble service:
// untrusted snippets go in, machine-code representations come out, and
// nothing reaches the external toolchain without passing the safety filter.
package assembler

import (
	"context"

	"github.com/charmbracelet/log"

	"asmbox/internal/listing"
	"asmbox/internal/safety"
)

// MaxSourceLen is the input size ceiling. Inputs at or above it are refused
// before the filter even runs.
const MaxSourceLen = 10 * 1024

// Invoker runs the external assemble/disassemble pipeline for one accepted
// snippet and returns the raw listing text. toolchain.Runner is the real
// implementation.
type Invoker interface {
	Invoke(ctx context.Context, source string, bits int) (string, error)
}

// Service orchestrates filter, toolchain, and decoder around an ambient
// Architecture Mode.
//
// The mode is a plain field read at Assemble time: SetMode followed by
// Assemble is one critical section from the caller's point of view, and
// the Service does not synchronize the two internally. Callers that share
// a Service across goroutines must either fix the mode up front or guard
// mode+assemble themselves.
type Service struct {
	inv  Invoker
	log  *log.Logger
	mode Mode
}

// New returns a Service in 32-bit mode. lg may be nil.
func New(inv Invoker, lg *log.Logger) *Service {
	return &Service{inv: inv, log: lg, mode: ModeX86}
}

// Mode returns the currently configured architecture mode.
func (s *Service) Mode() Mode { return s.mode }

// SetMode switches the ambient architecture. Unrecognized names fail with
// ErrInvalidMode and leave the current mode unchanged.
func (s *Service) SetMode(name string) error {
	m, err := ParseMode(name)
	if err != nil {
		return err
	}
	s.mode = m
	return nil
}

// Assemble validates code, runs it through the external toolchain, and
// decodes the resulting listing. Oversized or lexically unsafe input fails
// with ErrUnsafeCode before any subprocess is started; toolchain or decoder
// trouble surfaces as *Failure. Nothing is cached or retried, and no state
// outlives the call.
func (s *Service) Assemble(ctx context.Context, code string) (*listing.Record, error) {
	if len(code) >= MaxSourceLen || !safety.IsSafe(code) {
		if s.log != nil {
			s.log.Debug("rejected unsafe input", "len", len(code))
		}
		return nil, ErrUnsafeCode
	}

	out, err := s.inv.Invoke(ctx, code, s.mode.Bits())
	if err != nil {
		return nil, &Failure{Msg: err.Error()}
	}

	rec, err := listing.Decode(out)
	if err != nil {
		// The tools exited cleanly but the listing is not in the
		// expected shape; there is no diagnostic worth relaying.
		if s.log != nil {
			s.log.Warn("unparsable listing", "err", err)
		}
		return nil, &Failure{Msg: "something went wrong"}
	}
	if s.log != nil {
		s.log.Debug("assembled", "mode", s.mode, "bytes", len(rec.Bytes))
	}
	return rec, nil
}
