package csvcore

import "sync/atomic"

// CancelReason is the payload carried by a cancelled Signal. Timeout
// distinguishes a deadline-driven cancellation from a caller-initiated one,
// per the TimeoutError/AbortError distinction the Cancelled error preserves.
type CancelReason struct {
	Timeout bool
	Err     error
}

// Signal is a cooperative cancellation handle shared between a caller and
// the lexer/assembler it drives. It is polled at token and record
// boundaries rather than delivered through a channel: the core is
// synchronous and non-blocking, and a channel-based context.Context would
// reintroduce exactly the internal queuing this package's contract rules
// out. Signal is safe for concurrent use; Cancel is typically called from
// a different goroutine than the one driving Feed/Flush.
type Signal struct {
	reason atomic.Pointer[CancelReason]
}

// NewSignal returns a Signal in the not-cancelled state.
func NewSignal() *Signal {
	return &Signal{}
}

// Cancel marks the signal cancelled with a caller-supplied reason.
func (s *Signal) Cancel(err error) {
	s.reason.Store(&CancelReason{Err: err})
}

// CancelWithTimeout marks the signal cancelled due to a deadline, preserving
// the Timeout distinction for callers that need it.
func (s *Signal) CancelWithTimeout(err error) {
	s.reason.Store(&CancelReason{Timeout: true, Err: err})
}

// Cancelled reports whether the signal has been triggered, and if so, the
// reason it was given.
func (s *Signal) Cancelled() (*CancelReason, bool) {
	r := s.reason.Load()
	return r, r != nil
}
