//go:build !linux

package transports

import "errors"

// I2CBus is only available on Linux hosts; other platforms use the
// serial bridge.
type I2CBus struct{}

func OpenI2C(name string) (*I2CBus, error) {
	return nil, errors.New("i2c transport requires linux")
}

func (b *I2CBus) Tx(addr byte, w, r []byte) error {
	return errors.New("i2c transport requires linux")
}

func (b *I2CBus) Close() error {
	return nil
}
