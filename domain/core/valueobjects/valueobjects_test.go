package valueobjects

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDataIDFromRows_Deterministic(t *testing.T) {
	rows := [][]float64{{1e-3, 0, 7.2}, {1e-3, 1e-3, 7.4}}

	a := NewDataIDFromRows(rows)
	b := NewDataIDFromRows([][]float64{{1e-3, 0, 7.2}, {1e-3, 1e-3, 7.4}})
	c := NewDataIDFromRows([][]float64{{1e-3, 0, 7.2}, {1e-3, 1e-3, 7.5}})

	assert.Len(t, a.String(), 40)
	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}

func TestNewDataIDFromRows_KnownDigest(t *testing.T) {
	id := NewDataIDFromRows([][]float64{{0.001, 0, 1.5}, {0.001, 0.002, 2.25}})

	assert.Equal(t, "48ff36f64f30010dae2e894816cd95813a7a1678", id.String())
}

func TestNewDataIDFromString(t *testing.T) {
	valid := strings.Repeat("ab", 20)

	id, err := NewDataIDFromString(strings.ToUpper(valid))
	require.NoError(t, err)
	assert.Equal(t, valid, id.String())

	_, err = NewDataIDFromString("")
	assert.Error(t, err)
	_, err = NewDataIDFromString("abc")
	assert.Error(t, err)
	_, err = NewDataIDFromString(strings.Repeat("zz", 20))
	assert.Error(t, err)
}

func TestFitID_JSONRoundTrip(t *testing.T) {
	id := NewFitID()

	raw, err := json.Marshal(id)
	require.NoError(t, err)

	var decoded FitID
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.True(t, id.Equals(decoded))

	assert.Error(t, json.Unmarshal([]byte(`"not-a-uuid"`), &decoded))
}

func TestParseFitterName(t *testing.T) {
	name, err := ParseFitterName(" NMR1to2 ")
	require.NoError(t, err)
	assert.Equal(t, FitterNMR1to2, name)

	_, err = ParseFitterName("itc1to1")
	assert.Error(t, err)
}
