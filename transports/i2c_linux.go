//go:build linux

package transports

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// I2CBus drives controllers through a host I2C adapter via periph.io.
type I2CBus struct {
	bus i2c.BusCloser
}

// OpenI2C opens the named host I2C bus. An empty name selects the first
// available bus.
func OpenI2C(name string) (*I2CBus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}

	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", name, err)
	}

	return &I2CBus{bus: bus}, nil
}

// Tx performs a combined write-then-read transaction. Controller
// addresses arrive in 8-bit write form; periph.io expects the 7-bit
// address.
func (b *I2CBus) Tx(addr byte, w, r []byte) error {
	return b.bus.Tx(uint16(addr>>1), w, r)
}

func (b *I2CBus) Close() error {
	return b.bus.Close()
}
