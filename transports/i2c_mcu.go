//go:build baremetal

package transports

import (
	"errors"

	"machine"
)

// MCUBus drives controllers directly through a microcontroller I2C
// peripheral under TinyGo.
type MCUBus struct {
	bus *machine.I2C
}

// OpenMCUI2C configures the named MCU I2C peripheral ("0" or "1").
func OpenMCUI2C(bus string, frequency uint32) (*MCUBus, error) {
	var b *machine.I2C
	switch bus {
	case "", "0":
		b = machine.I2C0
	case "1":
		b = machine.I2C1
	default:
		return nil, errors.New("unknown I2C peripheral")
	}

	if frequency == 0 {
		frequency = machine.TWI_FREQ_400KHZ
	}
	if err := b.Configure(machine.I2CConfig{Frequency: frequency}); err != nil {
		return nil, err
	}

	return &MCUBus{bus: b}, nil
}

// Tx performs a combined write-then-read transaction. The machine
// package expects 7-bit addresses.
func (b *MCUBus) Tx(addr byte, w, r []byte) error {
	return b.bus.Tx(uint16(addr>>1), w, r)
}

func (b *MCUBus) Close() error {
	return nil
}
