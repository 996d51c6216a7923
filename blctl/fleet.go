package blctl

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Fleet tracks which controller addresses are populated, the last status
// decoded from each, and the fleet-wide feature classification. All
// controllers are assumed to be the same hardware generation; a mixed
// fleet is a detected error condition, not a supported configuration.
type Fleet struct {
	transport AsyncTransport
	store     ConfigStore

	mu         sync.Mutex
	slots      [MaxMotors]slotState
	features   Features
	errorBits  ErrorBits
	count      uint8
	spLen      int  // negotiated command width in bytes
	negotiated bool // width is fixed for the session once set
	closed     bool

	// Sweep chain state: at most one transaction in flight.
	sweeping  bool
	inflight  int
	sweepDone chan struct{}
	rxBuf     [StatusLen]byte
}

type slotState struct {
	present bool
	status  Status
	// Staged setpoint in wire order: bits 10-3 first, bits 2-0 second.
	// Legacy controllers receive only the first byte.
	setpoint [2]byte
}

// FleetConfig holds configuration for creating a new Fleet.
type FleetConfig struct {
	// Transport is the underlying bus. If it implements AsyncTransport
	// its native asynchronous path drives the sweep chain; otherwise a
	// per-transaction goroutine adapter is used.
	Transport Transport

	// Store supplies the expected motor count.
	Store ConfigStore
}

// NewFleet creates a fleet driver with the given configuration.
func NewFleet(cfg FleetConfig) (*Fleet, error) {
	if cfg.Transport == nil {
		return nil, errors.New("transport is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("config store is required")
	}

	at, ok := cfg.Transport.(AsyncTransport)
	if !ok {
		at = asyncShim{cfg.Transport}
	}

	return &Fleet{
		transport: at,
		store:     cfg.Store,
		spLen:     1, // legacy width until negotiated
	}, nil
}

// Close closes the fleet and releases the bus.
func (f *Fleet) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	return f.transport.Close()
}

// Detect pings every possible controller address with a zero command
// and records any responses. A response marks the slot present and its
// contents identify the controller generation; no response is a normal
// outcome, not an error. Detection always scans all slots and never
// aborts early. Fleet-level problems accumulate in the sticky error
// bits: mixed generations, configured addresses that did not respond,
// and responders outside the configured range.
//
// Detection blocks on each transaction in turn; it is meant to run at
// startup, never concurrently with a sweep.
func (f *Fleet) Detect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrBusClosed
	}
	if f.sweeping {
		return ErrSweepActive
	}

	ref := StatusUnknown
	var present uint8
	ping := []byte{0} // do not command the motors to move

	for slot := uint8(0); slot < MaxMotors; slot++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var reply [StatusLen]byte
		if err := f.transport.Tx(SlotAddress(slot), ping, reply[:]); err != nil {
			// The bus reports an error when nothing answers.
			f.slots[slot].present = false
			continue
		}

		status, err := DecodeStatus(reply[:])
		if err != nil {
			f.slots[slot].present = false
			continue
		}

		f.slots[slot].present = true
		f.slots[slot].status = status
		present |= 1 << slot

		// All controllers must report the same generation as the first
		// responder.
		if ref == StatusUnknown {
			ref = status.Code
		} else if status.Code != ref {
			f.errorBits |= ErrorInconsistent
		}
	}

	// The command width is fixed for the session once classified.
	if !f.negotiated && ref != StatusUnknown {
		f.features = ClassifyFeatures(ref)
		f.spLen = f.features.SetpointLen()
		f.negotiated = true
	}

	count, err := f.store.MotorCount()
	if err != nil {
		return fmt.Errorf("read motor count: %w", err)
	}
	if count > MaxMotors {
		count = MaxMotors
	}
	f.count = count

	// Present motors are assumed to occupy contiguous addresses from
	// slot 0. The comparison uses bit clearing, not boolean negation:
	// each side isolates the addresses set in one mask and clear in the
	// other.
	expected := uint8((1 << count) - 1)
	if expected&^present != 0 {
		f.errorBits |= ErrorMissingMotor
	}
	if present&^expected != 0 {
		f.errorBits |= ErrorExtraMotor
	}

	return nil
}

// SetSetpoint stages the drive level for one motor slot. The value is
// read by the next sweep. Slots beyond MaxMotors are ignored; values
// above MaxSetpoint are clamped rather than truncated.
func (f *Fleet) SetSetpoint(slot uint8, v uint16) {
	if slot >= MaxMotors {
		return
	}
	if v > MaxSetpoint {
		v = MaxSetpoint
	}
	low, high := EncodeSetpoint(v)

	f.mu.Lock()
	f.slots[slot].setpoint = [2]byte{high, low}
	f.mu.Unlock()
}

// ErrorFlags returns the accumulated fleet error bits. Flags are sticky
// across detection runs; a safety layer deciding whether to permit
// arming reads them here.
func (f *Fleet) ErrorFlags() ErrorBits {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errorBits
}

// ClearErrorFlags resets the error accumulator. Detection never clears
// flags on its own.
func (f *Fleet) ClearErrorFlags() {
	f.mu.Lock()
	f.errorBits = 0
	f.mu.Unlock()
}

// Features returns the fleet-wide capability classification.
func (f *Fleet) Features() Features {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.features
}

// MotorCount returns the expected motor count read at detection.
func (f *Fleet) MotorCount() uint8 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}

// SetpointLen returns the negotiated command width in bytes.
func (f *Fleet) SetpointLen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.spLen
}

// Present reports whether a controller answered at the given slot
// during the last detection.
func (f *Fleet) Present(slot uint8) bool {
	if slot >= MaxMotors {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slots[slot].present
}

// MotorStatus returns the last decoded status for the given slot and
// whether the slot is present. Status is overwritten wholesale on every
// successful transaction reply; a failed transaction leaves the
// previous status in place.
func (f *Fleet) MotorStatus(slot uint8) (Status, bool) {
	if slot >= MaxMotors {
		return Status{}, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slots[slot].status, f.slots[slot].present
}
