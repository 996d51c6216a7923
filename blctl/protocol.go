// Package blctl drives a fleet of Mikrokopter BL-Ctrl brushless motor
// controllers sharing one I2C bus.
package blctl

import (
	"fmt"
	"strings"
)

// Bus addressing constants. Controllers occupy contiguous slots starting
// at the base address, two address values apart.
const (
	MaxMotors   = 8
	BaseAddress = 0x52
)

// SlotAddress returns the bus address of the controller in the given slot.
// Addresses are in 8-bit (write) form; transports using 7-bit addressing
// shift down by one.
func SlotAddress(slot uint8) byte {
	return BaseAddress + slot<<1
}

// MaxSetpoint is the largest encodable drive magnitude (11 bits).
const MaxSetpoint = 2047

// StatusLen is the size of a controller's status reply in bytes.
const StatusLen = 9

// TemperatureUnsupported is the temperature field sentinel reported by
// controllers without a temperature sensor (V1).
const TemperatureUnsupported = 0xFF

// StatusCode is the controller-reported state, which doubles as the
// generation identifier during detection.
type StatusCode byte

const (
	StatusUnknown          StatusCode = 0
	StatusStarting         StatusCode = 40
	StatusV3FastReady      StatusCode = 248
	StatusV3Ready          StatusCode = 249
	StatusV2Ready          StatusCode = 250
	StatusRunningRedundant StatusCode = 254
	StatusRunning          StatusCode = 255 // V1 reports this even before the motors start
)

func (c StatusCode) String() string {
	switch c {
	case StatusUnknown:
		return "unknown"
	case StatusStarting:
		return "starting"
	case StatusV3FastReady:
		return "V3 ready (20 kHz)"
	case StatusV3Ready:
		return "V3 ready"
	case StatusV2Ready:
		return "V2 ready"
	case StatusRunningRedundant:
		return "running (redundant)"
	case StatusRunning:
		return "running"
	}
	return fmt.Sprintf("status 0x%02X", byte(c))
}

// Features describes the capability set of the controller fleet.
type Features byte

const (
	FeatureExtendedStatus Features = 1 << 0
	FeatureV3             Features = 1 << 1
	Feature20kHz          Features = 1 << 2
)

// ClassifyFeatures derives the feature set from a ready-state status
// code. Tiers are ordered: each tier implies every capability below it,
// so the fastest-switching controllers also report V3 and extended
// status. Codes outside the ready family classify as no features.
func ClassifyFeatures(code StatusCode) Features {
	switch code {
	case StatusV3FastReady:
		return Feature20kHz | FeatureV3 | FeatureExtendedStatus
	case StatusV3Ready:
		return FeatureV3 | FeatureExtendedStatus
	case StatusV2Ready:
		return FeatureExtendedStatus
	}
	return 0
}

// SetpointLen returns the command width in bytes: two once extended
// status is confirmed, one for legacy controllers.
func (f Features) SetpointLen() int {
	if f&FeatureExtendedStatus != 0 {
		return 2
	}
	return 1
}

func (f Features) String() string {
	if f == 0 {
		return "legacy"
	}
	var msgs []string
	if f&FeatureExtendedStatus != 0 {
		msgs = append(msgs, "extended status")
	}
	if f&FeatureV3 != 0 {
		msgs = append(msgs, "V3")
	}
	if f&Feature20kHz != 0 {
		msgs = append(msgs, "20 kHz")
	}
	return strings.Join(msgs, ", ")
}

// ErrorBits is the sticky accumulator of fleet-level problems. Bits are
// only ever set by detection; clearing is an explicit caller action.
type ErrorBits byte

const (
	ErrorInconsistent ErrorBits = 1 << 0 // controllers report mixed generations
	ErrorMissingMotor ErrorBits = 1 << 1 // configured address did not respond
	ErrorExtraMotor   ErrorBits = 1 << 2 // unconfigured address responded
)

func (e ErrorBits) String() string {
	if e == 0 {
		return "no errors"
	}
	var msgs []string
	if e&ErrorInconsistent != 0 {
		msgs = append(msgs, "inconsistent controller generations")
	}
	if e&ErrorMissingMotor != 0 {
		msgs = append(msgs, "missing motor")
	}
	if e&ErrorExtraMotor != 0 {
		msgs = append(msgs, "extra motor")
	}
	return strings.Join(msgs, ", ")
}

// EncodeSetpoint splits an 11-bit setpoint into the controller's
// two-byte command form: low carries bits 2-0, high carries bits 10-3.
// Values above MaxSetpoint silently lose their top bit to the byte
// truncation, so callers clamp first.
func EncodeSetpoint(v uint16) (low, high byte) {
	return byte(v) & 0x07, byte(v >> 3)
}

// DecodeSetpoint reassembles a setpoint from its encoded byte pair.
func DecodeSetpoint(low, high byte) uint16 {
	return uint16(high)<<3 | uint16(low&0x07)
}

// Status is a controller's decoded 9-byte reply.
type Status struct {
	Current      uint8      // x 0.1 A
	Code         StatusCode // also the command limit while running
	Temperature  uint8      // degrees C; 0xFF when unsupported (V1)
	RPM          uint8      // scale unverified
	Extra        uint8      // V3: voltage, V2: consumed mAh, V1: unused
	Voltage      uint8      // x 0.1 V; V2 reports only the low byte
	I2CErrors    uint8      // bus error counter (V2 or later)
	VersionMajor uint8      // V2 or later
	VersionMinor uint8      // V2 or later
}

// HasTemperature reports whether the temperature field carries a
// reading rather than the unsupported sentinel.
func (s Status) HasTemperature() bool {
	return s.Temperature != TemperatureUnsupported
}

// DecodeStatus parses a status reply. Only the length is checked; a
// garbled-but-complete reply is the transport's failure to report.
func DecodeStatus(data []byte) (Status, error) {
	if len(data) < StatusLen {
		return Status{}, fmt.Errorf("%w: need %d bytes, have %d", ErrShortReply, StatusLen, len(data))
	}
	return Status{
		Current:      data[0],
		Code:         StatusCode(data[1]),
		Temperature:  data[2],
		RPM:          data[3],
		Extra:        data[4],
		Voltage:      data[5],
		I2CErrors:    data[6],
		VersionMajor: data[7],
		VersionMinor: data[8],
	}, nil
}
