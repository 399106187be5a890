package features

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector_MarshalJSON_NonFinite(t *testing.T) {
	v := NewVector()
	for i := range v {
		v[i] = float64(i)
	}
	v[Eccentricity] = math.Inf(1)

	data, err := json.Marshal(v)
	require.NoError(t, err)

	var decoded []*float64
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, Count)
	assert.Nil(t, decoded[Eccentricity])
	require.NotNil(t, decoded[Dispersion])
	assert.Equal(t, float64(Dispersion), *decoded[Dispersion])
}

func TestTable_MarshalJSON_NonFinite(t *testing.T) {
	v := NewVector()
	v[Eccentricity] = math.Inf(1)

	table := NewTable(1)
	require.NoError(t, table.Append(7, v))

	data, err := json.Marshal(table)
	require.NoError(t, err)
	assert.Contains(t, string(data), "null")

	var decoded struct {
		RowIDs []int        `json:"row_ids"`
		Rows   [][]*float64 `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Rows, 1)
	assert.Equal(t, []int{7}, decoded.RowIDs)
	assert.Nil(t, decoded.Rows[0][Eccentricity])
}
