package canonical

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldOrder(t *testing.T) {
	f := Fields()
	require.Len(t, f, 61)
	assert.Equal(t, NumBanco, f[0])
	assert.Equal(t, NomBanco, f[1])
	assert.Equal(t, ValLiquido, f[38])
	assert.Equal(t, Spacer, f[39])
	assert.Equal(t, DatCredito, f[40])
	assert.Equal(t, ValSeguro, f[60])
	assert.Equal(t, 61, Len())
}

func TestFieldsReturnsCopy(t *testing.T) {
	f := Fields()
	f[0] = "CHANGED"
	assert.Equal(t, NumBanco, Fields()[0])
}

func TestHeaderRowBlanksSpacer(t *testing.T) {
	h := HeaderRow()
	assert.Equal(t, "", h[39])
	assert.NotContains(t, h, Spacer)
}

func TestDataFields(t *testing.T) {
	d := DataFields()
	assert.Len(t, d, 60)
	assert.NotContains(t, d, Spacer)
}

func TestIsField(t *testing.T) {
	assert.True(t, IsField(ValBruto))
	assert.False(t, IsField(Spacer))
	assert.False(t, IsField("VALOR_BRUTO"))
}

func TestRecordValues(t *testing.T) {
	r := Record{NumProposta: "1001", ValBruto: "5.000,00"}
	v := r.Values()
	require.Len(t, v, 61)
	assert.Equal(t, "1001", v[2])
	assert.Equal(t, "5.000,00", v[35])
	assert.Equal(t, "", v[39])
	assert.Equal(t, "", v[0])
}

func TestRecordMarshalJSON(t *testing.T) {
	r := Record{ValBruto: "5.000,00", NumBanco: "17", Spacer: "x"}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, `{"NUM_BANCO":"17","NOM_BANCO":"",`))
	assert.True(t, strings.HasSuffix(text, `"VAL_SEGURO":""}`))
	assert.NotContains(t, text, Spacer)

	var back Record
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Len(t, back, 60)
	assert.Equal(t, "5.000,00", back[ValBruto])
}
