package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueConstructors(t *testing.T) {
	assert.True(t, TextValue("  ").IsEmpty())
	assert.Equal(t, "", TextValue("  ").String())
	assert.Equal(t, " PAN ", TextValue(" PAN ").String())

	n := NumberValue(1001, "")
	assert.Equal(t, Number, n.Kind)
	assert.Equal(t, "1001", n.Raw)
	assert.Equal(t, "45000.50", NumberValue(45000.5, "45000.50").String())

	when := TimeValue(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "05/03/2024", when.String())
}

func TestRawRowIsBlank(t *testing.T) {
	assert.True(t, RawRow{}.IsBlank())
	assert.True(t, RawRow{"A": {}, "B": TextValue(" ")}.IsBlank())
	assert.False(t, RawRow{"A": {}, "B": NumberValue(0, "")}.IsBlank())
}

func TestUniqueHeaders(t *testing.T) {
	got := UniqueHeaders([]Value{
		TextValue("A"),
		TextValue("A "),
		TextValue(""),
		TextValue("A_1"),
		{},
	})
	assert.Equal(t, []string{"A", "A_1", EmptyHeader, "A_1_1", EmptyHeader + "_1"}, got)
}

func TestNewSheet(t *testing.T) {
	sheet := NewSheet("S", [][]Value{
		{TextValue("Nome"), TextValue("CPF")},
		{TextValue("Ana")},
		{TextValue("Bia"), TextValue("123"), TextValue("extra")},
	})

	assert.Equal(t, "S", sheet.Name)
	assert.Equal(t, []string{"Nome", "CPF"}, sheet.Headers)
	require.Len(t, sheet.Rows, 2)
	assert.True(t, sheet.Rows[0]["CPF"].IsEmpty())
	assert.Len(t, sheet.Rows[1], 2)
	assert.Equal(t, "123", sheet.Rows[1]["CPF"].String())
}

func TestNewSheetEmptyGrid(t *testing.T) {
	sheet := NewSheet("S", nil)
	assert.Nil(t, sheet.Headers)
	assert.Nil(t, sheet.Rows)
}
