package dbc

import (
	"errors"
	"testing"
)

func TestNewMessageRejectsDuplicateSignalNames(t *testing.T) {
	sig := mustSignal(t, SignalFields{Name: "RPM", StartBit: 0, Length: 8, Factor: 1, ByteOrder: LittleEndian})
	_, err := NewMessage(MessageFields{
		ID: 1, Name: "EngineData", DLC: 8, Sender: "ECM",
		Signals: []Signal{sig, sig},
	}, DefaultLimits())
	if err == nil {
		t.Fatal("expected DuplicateName error")
	}
	var derr *Error
	if !errors.As(err, &derr) || derr.Kind != KindDuplicateName {
		t.Fatalf("got %v, want KindDuplicateName", err)
	}
}

func TestNewMessageRejectsBitRangeExceedingDLC(t *testing.T) {
	sig := mustSignal(t, SignalFields{Name: "X", StartBit: 60, Length: 16, Factor: 1, ByteOrder: LittleEndian})
	_, err := NewMessage(MessageFields{
		ID: 1, Name: "Small", DLC: 8, Sender: "ECM",
		Signals: []Signal{sig},
	}, DefaultLimits())
	if err == nil {
		t.Fatal("expected a bit-range validation error")
	}
}

func TestMessageStoredIDEncodesExtendedFlag(t *testing.T) {
	m, err := NewMessage(MessageFields{
		ID: 0x1ABCDEF, IsExtended: true, Name: "ExtMsg", DLC: 8, Sender: "ECM",
	}, DefaultLimits())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.IsExtended() {
		t.Fatal("expected IsExtended to be true")
	}
	if m.ID() != 0x1ABCDEF {
		t.Fatalf("got ID=%x, want 0x1ABCDEF", m.ID())
	}
	if m.StoredID() != (0x1ABCDEF | ExtendedIDFlag) {
		t.Fatalf("got StoredID=%x", m.StoredID())
	}
}
