package blctl

import "context"

// BeginSweep pushes every staged setpoint to the bus, one chained
// transaction at a time, highest slot first, terminating at slot 0. It
// returns as soon as the first transaction is issued; each completion
// triggers the next transaction, so at most one is ever in flight.
// Every configured slot is visited exactly once per sweep, whether or
// not a controller answered there during detection.
//
// Starting a sweep while one is in flight returns ErrSweepActive.
// Staged setpoints must not be mutated for the in-flight slot; writing
// them between sweeps is always safe.
func (f *Fleet) BeginSweep() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrBusClosed
	}
	if f.sweeping {
		f.mu.Unlock()
		return ErrSweepActive
	}
	if f.count == 0 {
		f.mu.Unlock()
		return ErrNoMotors
	}

	f.sweeping = true
	f.sweepDone = make(chan struct{})
	slot := int(f.count) - 1
	f.inflight = slot
	w := f.stagedLocked(slot)
	f.mu.Unlock()

	f.transport.TxAsync(SlotAddress(uint8(slot)), w, f.rxBuf[:], f.onTxComplete)
	return nil
}

// stagedLocked copies the slot's staged setpoint at the negotiated
// width. The copy keeps the wire buffer stable even if the caller
// stages a new value mid-sweep.
func (f *Fleet) stagedLocked(slot int) []byte {
	w := make([]byte, f.spLen)
	copy(w, f.slots[slot].setpoint[:f.spLen])
	return w
}

// onTxComplete is the completion callback chaining the sweep. It is the
// only writer of sweep state while a sweep is active.
func (f *Fleet) onTxComplete(err error) {
	f.mu.Lock()
	slot := f.inflight

	if err == nil {
		if status, derr := DecodeStatus(f.rxBuf[:]); derr == nil {
			f.slots[slot].status = status
		}
	}
	// A failed transaction keeps the slot's previous status; the chain
	// still advances.

	slot--
	if slot < 0 {
		f.sweeping = false
		done := f.sweepDone
		f.mu.Unlock()
		close(done)
		return
	}

	f.inflight = slot
	w := f.stagedLocked(slot)
	f.mu.Unlock()

	f.transport.TxAsync(SlotAddress(uint8(slot)), w, f.rxBuf[:], f.onTxComplete)
}

// SweepActive reports whether a sweep is in flight.
func (f *Fleet) SweepActive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sweeping
}

// WaitSweep blocks until the current sweep terminates or the context is
// done. It returns immediately when no sweep is active.
func (f *Fleet) WaitSweep(ctx context.Context) error {
	f.mu.Lock()
	active := f.sweeping
	done := f.sweepDone
	f.mu.Unlock()

	if !active || done == nil {
		return nil
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
