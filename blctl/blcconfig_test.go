package blctl

import (
	"bytes"
	"errors"
	"testing"
)

func TestBLCConfigRoundTrip(t *testing.T) {
	cfg := BLCConfig{
		Revision:         2,
		Mask:             0xFF,
		PWMScaling:       255,
		CurrentLimit:     30,
		TemperatureLimit: 100,
		CurrentScaling:   64,
		Bitfield:         ConfigReverseRotation | ConfigStartPWM1,
	}

	data := EncodeBLCConfig(cfg)
	if len(data) != BLCConfigLen {
		t.Fatalf("encoded length: got %d, want %d", len(data), BLCConfigLen)
	}

	decoded, err := DecodeBLCConfig(data)
	if err != nil {
		t.Fatalf("DecodeBLCConfig failed: %v", err)
	}
	if decoded != cfg {
		t.Errorf("round trip: got %+v, want %+v", decoded, cfg)
	}
}

func TestBLCConfigChecksum(t *testing.T) {
	data := EncodeBLCConfig(BLCConfig{Revision: 2, CurrentLimit: 20})

	corrupted := bytes.Clone(data)
	corrupted[3]++

	if _, err := DecodeBLCConfig(corrupted); !errors.Is(err, ErrBadChecksum) {
		t.Errorf("corrupted block: got %v, want ErrBadChecksum", err)
	}
}

func TestBLCConfigShort(t *testing.T) {
	if _, err := DecodeBLCConfig([]byte{1, 2, 3}); !errors.Is(err, ErrShortReply) {
		t.Errorf("short block: got %v, want ErrShortReply", err)
	}
}
