package dbc

import "testing"

func mustSignal(t *testing.T, f SignalFields) Signal {
	t.Helper()
	s, err := NewSignal(f, DefaultLimits())
	if err != nil {
		t.Fatalf("NewSignal: %v", err)
	}
	return s
}

// S2 — little-endian decode.
func TestExtractRawBitsLittleEndian(t *testing.T) {
	sig := mustSignal(t, SignalFields{
		Name: "RPM", StartBit: 0, Length: 16, ByteOrder: LittleEndian,
		Unsigned: true, Factor: 0.25, Min: 0, Max: 8000,
	})
	payload := []byte{0x40, 0x01, 0, 0, 0, 0, 0, 0}
	raw := extractRawBits(payload, sig)
	if raw != 320 {
		t.Fatalf("got raw=%d, want 320", raw)
	}
}

// S3 — big-endian decode.
func TestExtractRawBitsBigEndian(t *testing.T) {
	sig := mustSignal(t, SignalFields{
		Name: "Pressure", StartBit: 7, Length: 16, ByteOrder: BigEndian,
		Unsigned: true, Factor: 0.01, Min: 0, Max: 655.35,
	})
	payload := []byte{0x03, 0xE8, 0, 0, 0, 0, 0, 0}
	raw := extractRawBits(payload, sig)
	if raw != 1000 {
		t.Fatalf("got raw=%d, want 1000", raw)
	}
}

func TestWriteRawBitsRoundTripsBigEndian(t *testing.T) {
	sig := mustSignal(t, SignalFields{
		Name: "Pressure", StartBit: 7, Length: 16, ByteOrder: BigEndian,
		Unsigned: true, Factor: 0.01, Min: 0, Max: 655.35,
	})
	payload := make([]byte, 8)
	writeRawBits(payload, sig, 1000)
	if payload[0] != 0x03 || payload[1] != 0xE8 {
		t.Fatalf("got payload=%v, want [0x03 0xE8 ...]", payload)
	}
}

func TestSignalBitPositionsLSBFirstLittleEndian(t *testing.T) {
	got := signalBitPositionsLSBFirst(3, 5, LittleEndian)
	want := []uint32{3, 4, 5, 6, 7}
	for i, v := range want {
		if got[i] != v {
			t.Fatalf("position %d: got %d want %d", i, got[i], v)
		}
	}
}

func TestOccupiedBitsNonContiguousBigEndian(t *testing.T) {
	// start_bit=3, length=13, big-endian: walking MSB-first from bit 3
	// down to 0 in byte 0, then from bit 7 down to 0 in byte 1, then bit
	// 7 of byte 2 (absolute 23) gives an occupied set that is not a
	// contiguous [lo,hi] range.
	sig := mustSignal(t, SignalFields{
		Name: "X", StartBit: 3, Length: 13, ByteOrder: BigEndian,
		Unsigned: true, Factor: 1, Min: 0, Max: 8191,
	})
	bs := occupiedBits(sig)
	for _, pos := range []uint32{0, 1, 2, 3, 8, 9, 10, 11, 12, 13, 14, 15} {
		var probe bitSet512
		probe.set(pos)
		if !bs.intersects(probe) {
			t.Fatalf("expected bit %d to be occupied", pos)
		}
	}
	var probe16 bitSet512
	probe16.set(16)
	if bs.intersects(probe16) {
		t.Fatal("bit 16 should not be occupied")
	}
}

func TestBitSet512Intersects(t *testing.T) {
	var a, b bitSet512
	a.set(10)
	b.set(20)
	if a.intersects(b) {
		t.Fatal("disjoint sets should not intersect")
	}
	b.set(10)
	if !a.intersects(b) {
		t.Fatal("sets sharing bit 10 should intersect")
	}
}
