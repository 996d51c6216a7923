package blctl

// Transport is the interface for low-level communication with the
// controller bus. Each call is one combined write-then-read transaction
// with a single device. This abstraction allows for testing with mock
// implementations.
type Transport interface {
	// Tx writes w to the device at addr, then reads len(r) bytes back
	// into r, in one transaction. It blocks until the transaction
	// completes. A device that does not acknowledge is reported as an
	// error.
	Tx(addr byte, w, r []byte) error

	// Close releases the bus.
	Close() error
}

// AsyncTransport is implemented by transports that can run a
// transaction without blocking the caller. done is invoked exactly once
// with the transaction's result; it may run in another goroutine or an
// interrupt-like context, but never concurrently with itself for
// chained transactions.
type AsyncTransport interface {
	Transport

	TxAsync(addr byte, w, r []byte, done func(error))
}

// asyncShim adapts a blocking Transport to AsyncTransport. The fleet
// issues at most one transaction at a time, so a single goroutine per
// transaction preserves ordering.
type asyncShim struct {
	Transport
}

func (s asyncShim) TxAsync(addr byte, w, r []byte, done func(error)) {
	go func() {
		done(s.Tx(addr, w, r))
	}()
}

// ConfigStore supplies the persisted expected motor count, read once
// per detection run. On a flight controller this is eeprom; on a host,
// a config file.
type ConfigStore interface {
	MotorCount() (uint8, error)
}

// StaticMotorCount is a fixed-value ConfigStore.
type StaticMotorCount uint8

// MotorCount implements ConfigStore.
func (s StaticMotorCount) MotorCount() (uint8, error) {
	return uint8(s), nil
}
