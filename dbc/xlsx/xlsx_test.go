package xlsx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candbc/dbc/dbc"
)

func TestExportImportRoundTrip(t *testing.T) {
	const input = `VERSION "1.0"
BS_:
BU_: ECM
BO_ 256 EngineData : 8 ECM
 SG_ RPM : 0|16@1+ (0.25,0) [0|8000] "rpm" Vector__XXX
`
	d, err := dbc.Parse([]byte(input))
	require.NoError(t, err)

	f, err := ExportWorkbook(d)
	require.NoError(t, err)

	d2, err := ImportWorkbook(f, dbc.DefaultOptions())
	require.NoError(t, err)

	m, ok := d2.FindMessage(256)
	require.True(t, ok, "expected message 256 to survive the round trip")
	assert.Equal(t, "EngineData", m.Name())
	assert.EqualValues(t, 8, m.DLC())

	sigs := m.Signals()
	require.Len(t, sigs, 1)
	assert.Equal(t, "RPM", sigs[0].Name())
	assert.Equal(t, 0.25, sigs[0].Factor())
}
