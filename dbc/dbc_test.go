package dbc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const s1Input = `VERSION "1.0"
BS_:
BU_: ECM
BO_ 256 EngineData : 8 ECM
 SG_ RPM : 0|16@1+ (0.25,0) [0|8000] "rpm" Vector__XXX
`

// S1 — minimal round-trip.
func TestParseMinimalRoundTrip(t *testing.T) {
	d, err := Parse([]byte(s1Input))
	require.NoError(t, err)
	require.Equal(t, 1, d.Messages().Len())

	m, ok := d.Messages().At(0)
	require.True(t, ok, "missing message 0")
	sigs := m.Signals()
	require.Len(t, sigs, 1)
	assert.Equal(t, 0.25, sigs[0].Factor())

	text := d.ToText()
	d2, err := Parse([]byte(text))
	require.NoError(t, err, "re-parse of serialized text failed:\n%s", text)
	assert.Equal(t, text, d2.ToText(), "round trip not stable")
}

// S2 — little-endian decode, through the full Parse+Decode path.
func TestDecodeLittleEndian(t *testing.T) {
	d, err := Parse([]byte(s1Input))
	require.NoError(t, err)
	out, err := Decode(d, 256, []byte{0x40, 0x01, 0, 0, 0, 0, 0, 0}, false)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "RPM", out[0].Name)
	assert.Equal(t, 80.0, out[0].Value)
}

// S4 — signed sign-extension, through the full Parse+Decode path.
func TestDecodeSignedSignExtension(t *testing.T) {
	input := `VERSION ""
BS_:
BU_: ECM
BO_ 300 Cabin : 8 ECM
 SG_ Temp : 16|8@1- (1,-40) [-40|215] "C" Vector__XXX
`
	d, err := Parse([]byte(input))
	require.NoError(t, err)

	outNeg, err := Decode(d, 300, []byte{0, 0, 0xFF, 0, 0, 0, 0, 0}, false)
	require.NoError(t, err)
	assert.Equal(t, -41.0, outNeg[0].Value)

	outZero, err := Decode(d, 300, []byte{0, 0, 0x00, 0, 0, 0, 0, 0}, false)
	require.NoError(t, err)
	assert.Equal(t, -40.0, outZero[0].Value)
}

// S5 — basic multiplexing.
func TestDecodeBasicMultiplexing(t *testing.T) {
	input := `VERSION ""
BS_:
BU_: ECM
BO_ 400 Muxed : 8 ECM
 SG_ Mux M : 0|8@1+ (1,0) [0|1] "" Vector__XXX
 SG_ S0 m0 : 8|16@1+ (1,0) [0|65535] "" Vector__XXX
 SG_ S1 m1 : 8|16@1+ (1,0) [0|65535] "" Vector__XXX
`
	d, err := Parse([]byte(input))
	require.NoError(t, err)

	out0, err := Decode(d, 400, []byte{0x00, 0x01, 0x02, 0, 0, 0, 0, 0}, false)
	require.NoError(t, err)
	assert.True(t, hasSignal(out0, "Mux"))
	assert.True(t, hasSignal(out0, "S0"))
	assert.False(t, hasSignal(out0, "S1"))

	out1, err := Decode(d, 400, []byte{0x01, 0x01, 0x02, 0, 0, 0, 0, 0}, false)
	require.NoError(t, err)
	assert.True(t, hasSignal(out1, "Mux"))
	assert.True(t, hasSignal(out1, "S1"))
	assert.False(t, hasSignal(out1, "S0"))
}

func hasSignal(out []DecodedSignal, name string) bool {
	for _, s := range out {
		if s.Name == name {
			return true
		}
	}
	return false
}

func valueOf(out []DecodedSignal, name string) (float64, bool) {
	for _, s := range out {
		if s.Name == name {
			return s.Value, true
		}
	}
	return 0, false
}

// S6 — extended multiplexing: the SG_MUL_VAL_ table, not just the
// signal's own basic `m<v>` tag, decides activation.
func TestExtendedMultiplexingParsesAndValidates(t *testing.T) {
	input := `VERSION ""
BS_:
BU_: ECM
BO_ 500 Ext : 8 ECM
 SG_ Mux1 M : 0|8@1+ (1,0) [0|15] "" Vector__XXX
 SG_ Signal_A m0 : 8|16@1+ (1,0) [0|65535] "" Vector__XXX
SG_MUL_VAL_ 500 Signal_A Mux1 0-5,10-15 ;
`
	d, err := Parse([]byte(input))
	require.NoError(t, err)

	entry, ok := d.ExtendedMultiplexing().For(500, "Signal_A")
	require.True(t, ok, "expected an extended multiplexing entry for Signal_A")
	assert.True(t, entry.Contains(3))
	assert.True(t, entry.Contains(12))
	assert.False(t, entry.Contains(7))
}

// S6 (decode) — Decode must actually consult the SG_MUL_VAL_ ranges,
// not just the signal's own `m0` tag, when deciding whether Signal_A
// is active.
func TestDecodeExtendedMultiplexing(t *testing.T) {
	input := `VERSION ""
BS_:
BU_: ECM
BO_ 500 Ext : 8 ECM
 SG_ Mux1 M : 0|8@1+ (1,0) [0|15] "" Vector__XXX
 SG_ Signal_A m0 : 8|16@1+ (1,0) [0|65535] "" Vector__XXX
SG_MUL_VAL_ 500 Signal_A Mux1 0-5,10-15 ;
`
	d, err := Parse([]byte(input))
	require.NoError(t, err)

	payloadWith := func(mux byte) []byte {
		return []byte{mux, 0x07, 0x00, 0, 0, 0, 0, 0}
	}

	out3, err := Decode(d, 500, payloadWith(3), false)
	require.NoError(t, err)
	assert.True(t, hasSignal(out3, "Signal_A"), "Mux1=3 should fall in range 0-5")
	v, ok := valueOf(out3, "Signal_A")
	assert.True(t, ok)
	assert.Equal(t, 7.0, v)

	out7, err := Decode(d, 500, payloadWith(7), false)
	require.NoError(t, err)
	assert.False(t, hasSignal(out7, "Signal_A"), "Mux1=7 falls outside both ranges")

	out12, err := Decode(d, 500, payloadWith(12), false)
	require.NoError(t, err)
	assert.True(t, hasSignal(out12, "Signal_A"), "Mux1=12 should fall in range 10-15")
}

// S7 — rejects duplicate message ID.
func TestParseRejectsDuplicateMessageID(t *testing.T) {
	input := `VERSION ""
BS_:
BU_: ECM
BO_ 100 First : 8 ECM
BO_ 100 Second : 8 ECM
`
	_, err := Parse([]byte(input))
	require.Error(t, err)
	var derr *Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, KindDuplicateID, derr.Kind)
}

// S7 (extension) — standard and extended messages sharing the same
// raw base ID are not duplicates.
func TestStandardAndExtendedSameBaseIDAreNotDuplicates(t *testing.T) {
	input := `VERSION ""
BS_:
BU_: ECM
BO_ 100 First : 8 ECM
BO_ 2147483748 Second : 8 ECM
`
	d, err := Parse([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, 2, d.Messages().Len())
}

// S8 — rejects factor = 0.
func TestParseRejectsZeroFactor(t *testing.T) {
	input := `VERSION ""
BS_:
BU_: ECM
BO_ 100 First : 8 ECM
 SG_ X : 0|8@1+ (0,0) [0|0] "" Vector__XXX
`
	_, err := Parse([]byte(input))
	require.Error(t, err)
	var derr *Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, KindValidation, derr.Kind)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	d, err := Parse([]byte(s1Input))
	require.NoError(t, err)
	payload, err := Encode(d, 256, map[string]float64{"RPM": 80.0}, false)
	require.NoError(t, err)
	out, err := Decode(d, 256, payload, false)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 80.0, out[0].Value)
}

// Encode must resolve SG_MUL_VAL_ ranges the same way Decode does: a
// multiplexed signal gated only by an extended range, not a plain
// `m<v>` tag match, should still be writable and round-trip through
// Decode.
func TestEncodeDecodeExtendedMultiplexingRoundTrip(t *testing.T) {
	input := `VERSION ""
BS_:
BU_: ECM
BO_ 500 Ext : 8 ECM
 SG_ Mux1 M : 0|8@1+ (1,0) [0|15] "" Vector__XXX
 SG_ Signal_A m0 : 8|16@1+ (1,0) [0|65535] "" Vector__XXX
SG_MUL_VAL_ 500 Signal_A Mux1 0-5,10-15 ;
`
	d, err := Parse([]byte(input))
	require.NoError(t, err)

	payload, err := Encode(d, 500, map[string]float64{"Mux1": 12, "Signal_A": 99}, false)
	require.NoError(t, err)

	out, err := Decode(d, 500, payload, false)
	require.NoError(t, err)
	v, ok := valueOf(out, "Signal_A")
	require.True(t, ok)
	assert.Equal(t, 99.0, v)

	_, err = Encode(d, 500, map[string]float64{"Mux1": 7, "Signal_A": 99}, false)
	require.Error(t, err, "Mux1=7 is outside both SG_MUL_VAL_ ranges")
	var derr *Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, KindMultiplexMismatch, derr.Kind)
}

func TestDecodeUnknownMessageID(t *testing.T) {
	d, err := Parse([]byte(s1Input))
	require.NoError(t, err)
	_, err = Decode(d, 999, []byte{0, 0, 0, 0, 0, 0, 0, 0}, false)
	var derr *Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, KindUnknownID, derr.Kind)
}

func TestCapacityExceededOnTooManyNodes(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxNodes = 2
	_, err := NewNodes([]string{"A", "B", "C"}, limits)
	var derr *Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, KindCapacityExceeded, derr.Kind)
}

func TestToTextContainsVersionAndNode(t *testing.T) {
	d, err := Parse([]byte(s1Input))
	require.NoError(t, err)
	text := d.ToText()
	assert.Contains(t, text, `VERSION "1.0"`)
	assert.Contains(t, text, "BU_: ECM")
}
