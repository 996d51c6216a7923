package blctl

import "fmt"

// BLCConfig option bits.
const (
	ConfigReverseRotation byte = 1 << 0
	ConfigStartPWM1       byte = 1 << 1
	ConfigStartPWM2       byte = 1 << 2
	ConfigStartPWM3       byte = 1 << 3
)

// BLCConfigLen is the size of the controller's on-wire settings block.
const BLCConfigLen = 8

// BLCConfig is the controller's persisted settings block.
type BLCConfig struct {
	Revision         uint8 // configuration revision
	Mask             uint8 // settings mask
	PWMScaling       uint8 // PWM saturation
	CurrentLimit     uint8 // A
	TemperatureLimit uint8 // degrees C
	CurrentScaling   uint8 // scale factor for current measurement
	Bitfield         uint8
}

// EncodeBLCConfig serializes a settings block. The trailing checksum is
// the byte sum of the seven preceding fields.
func EncodeBLCConfig(c BLCConfig) []byte {
	buf := []byte{
		c.Revision,
		c.Mask,
		c.PWMScaling,
		c.CurrentLimit,
		c.TemperatureLimit,
		c.CurrentScaling,
		c.Bitfield,
	}
	return append(buf, blcConfigChecksum(buf))
}

// DecodeBLCConfig parses a settings block and verifies its checksum.
func DecodeBLCConfig(data []byte) (BLCConfig, error) {
	if len(data) < BLCConfigLen {
		return BLCConfig{}, fmt.Errorf("%w: need %d bytes, have %d", ErrShortReply, BLCConfigLen, len(data))
	}
	if sum := blcConfigChecksum(data[:BLCConfigLen-1]); sum != data[BLCConfigLen-1] {
		return BLCConfig{}, fmt.Errorf("%w: expected 0x%02X, got 0x%02X", ErrBadChecksum, sum, data[BLCConfigLen-1])
	}
	return BLCConfig{
		Revision:         data[0],
		Mask:             data[1],
		PWMScaling:       data[2],
		CurrentLimit:     data[3],
		TemperatureLimit: data[4],
		CurrentScaling:   data[5],
		Bitfield:         data[6],
	}, nil
}

func blcConfigChecksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum
}
