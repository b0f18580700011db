package canframe

import (
	stdjson "encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candbc/dbc/dbc"
)

const input = `VERSION "1.0"
BS_:
BU_: ECM
BO_ 256 EngineData : 8 ECM
 SG_ RPM : 0|16@1+ (0.25,0) [0|8000] "rpm" Vector__XXX
`

func TestDecodeAndMarshalFrame(t *testing.T) {
	d, err := dbc.Parse([]byte(input))
	require.NoError(t, err)
	frame, err := Decode(d, 256, false, []byte{0x40, 0x01, 0, 0, 0, 0, 0, 0}, time.UnixMilli(1700000000000))
	require.NoError(t, err)
	assert.Equal(t, "EngineData", frame.Name)

	raw, err := frame.MarshalJSON()
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, stdjson.Unmarshal(raw, &decoded))
	assert.Equal(t, 80.0, decoded["RPM"])
	assert.Equal(t, "EngineData", decoded["name"])
}

func TestMarshalFramesGroupsByName(t *testing.T) {
	d, err := dbc.Parse([]byte(input))
	require.NoError(t, err)
	frame, err := Decode(d, 256, false, []byte{0x40, 0x01, 0, 0, 0, 0, 0, 0}, time.UnixMilli(1700000000000))
	require.NoError(t, err)

	raw, err := MarshalFrames([]Frame{frame})
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, stdjson.Unmarshal(raw, &decoded))

	entry, ok := decoded["EngineData"].(map[string]any)
	require.True(t, ok, "want an EngineData entry, got %v", decoded)
	assert.Equal(t, 80.0, entry["RPM"])
}
