//go:build !baremetal

package transports

import (
	"errors"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// Bridge frame layout, adapter-bound:
//
//	header(1) addr(1) txLen(1) rxLen(1) tx(txLen)
//
// and the adapter's reply:
//
//	header(1) status(1) rx(rxLen)
const bridgeHeader = 0xB1

// Adapter status codes.
const (
	bridgeOK  = 0x00
	bridgeNAK = 0x01
)

var (
	// ErrNoAck indicates the addressed device did not acknowledge.
	ErrNoAck = errors.New("device did not acknowledge")

	// ErrBridgeTimeout indicates the adapter stopped replying.
	ErrBridgeTimeout = errors.New("bridge read timeout")

	errBridgeFrame = errors.New("malformed bridge frame")
)

// bridgePort is the serial port surface the bridge needs. go.bug.st
// ports satisfy it; tests substitute an in-memory pipe.
type bridgePort interface {
	io.ReadWriter
	SetReadTimeout(t time.Duration) error
	Close() error
}

// SerialBridge drives controllers through a UART-attached I2C adapter
// speaking the bridge frame protocol.
type SerialBridge struct {
	port    bridgePort
	timeout time.Duration
}

// SerialBridgeConfig holds configuration for opening a serial bridge.
type SerialBridgeConfig struct {
	Port     string
	BaudRate int
	Timeout  time.Duration
}

// OpenSerialBridge opens a serial port to the bridge adapter.
func OpenSerialBridge(cfg SerialBridgeConfig) (*SerialBridge, error) {
	if cfg.Port == "" {
		return nil, errors.New("serial port path is required")
	}
	if cfg.BaudRate == 0 {
		cfg.BaudRate = 57600
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Second
	}

	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}

	if err := port.SetReadTimeout(cfg.Timeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}

	return &SerialBridge{port: port, timeout: cfg.Timeout}, nil
}

// Tx sends one transaction through the adapter and waits for its reply.
func (t *SerialBridge) Tx(addr byte, w, r []byte) error {
	if len(w) > 0xFF || len(r) > 0xFF {
		return errBridgeFrame
	}

	frame := appendBridgeFrame(nil, addr, w, len(r))
	if _, err := t.port.Write(frame); err != nil {
		return fmt.Errorf("bridge write: %w", err)
	}

	reply := make([]byte, 2+len(r))
	if err := t.readFull(reply); err != nil {
		return err
	}
	if reply[0] != bridgeHeader {
		return errBridgeFrame
	}
	if reply[1] != bridgeOK {
		return ErrNoAck
	}

	copy(r, reply[2:])
	return nil
}

func (t *SerialBridge) Close() error {
	return t.port.Close()
}

func (t *SerialBridge) readFull(buf []byte) error {
	totalRead := 0
	deadline := time.Now().Add(t.timeout)

	for totalRead < len(buf) {
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: read %d of %d expected bytes", ErrBridgeTimeout, totalRead, len(buf))
		}

		remaining := max(time.Until(deadline), 10*time.Millisecond)
		t.port.SetReadTimeout(remaining)

		n, err := t.port.Read(buf[totalRead:])
		if err != nil {
			return fmt.Errorf("bridge read: %w", err)
		}
		if n == 0 {
			continue
		}
		totalRead += n
	}

	return nil
}

// appendBridgeFrame builds an adapter-bound frame in dst.
func appendBridgeFrame(dst []byte, addr byte, w []byte, rxLen int) []byte {
	dst = append(dst, bridgeHeader, addr, byte(len(w)), byte(rxLen))
	return append(dst, w...)
}
