// Package transports provides bus implementations for the blctl driver.
package transports

import (
	"errors"
	"sync"
)

// ErrNoDevice is returned by MockBus for addresses with no scripted
// reply, mirroring a real bus reporting no acknowledgment.
var ErrNoDevice = errors.New("no device at address")

// Txn records one completed bus transaction.
type Txn struct {
	Addr byte
	W    []byte
}

// MockBus implements blctl.Transport and blctl.AsyncTransport for
// testing.
type MockBus struct {
	mu sync.Mutex

	// Replies maps device address to the bytes returned on every
	// transaction with that address.
	Replies map[byte][]byte

	// Errs maps device address to a fixed transaction error, taking
	// precedence over Replies.
	Errs map[byte]error

	// TxFunc overrides transaction behavior entirely when set.
	TxFunc func(addr byte, w, r []byte) error

	// GoAsync makes TxAsync run the transaction in a goroutine. The
	// default synchronous completion keeps tests deterministic.
	GoAsync bool

	// Txns is the transaction log, in issue order.
	Txns []Txn

	Closed bool
}

func (m *MockBus) Tx(addr byte, w, r []byte) error {
	m.mu.Lock()
	m.Txns = append(m.Txns, Txn{Addr: addr, W: append([]byte(nil), w...)})
	txFunc := m.TxFunc
	m.mu.Unlock()

	if txFunc != nil {
		return txFunc(addr, w, r)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.Errs[addr]; ok {
		return err
	}
	reply, ok := m.Replies[addr]
	if !ok {
		return ErrNoDevice
	}
	copy(r, reply)
	return nil
}

func (m *MockBus) TxAsync(addr byte, w, r []byte, done func(error)) {
	if m.GoAsync {
		go func() {
			done(m.Tx(addr, w, r))
		}()
		return
	}
	done(m.Tx(addr, w, r))
}

func (m *MockBus) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// Transactions returns a copy of the transaction log.
func (m *MockBus) Transactions() []Txn {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Txn, len(m.Txns))
	copy(out, m.Txns)
	return out
}
