package blctl

import "errors"

// Sentinel errors for common failure modes. Transport-level failures
// during detection or a sweep are not errors at this level: an
// unresponsive address is recorded as absent and a failed sweep
// transaction leaves stale status behind.
var (
	ErrShortReply  = errors.New("status reply too short")
	ErrSweepActive = errors.New("setpoint sweep already in flight")
	ErrNoMotors    = errors.New("no motors configured")
	ErrBadChecksum = errors.New("config block checksum mismatch")
	ErrBusClosed   = errors.New("bus is closed")
)
