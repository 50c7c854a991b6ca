package importer

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

const sampleCSV = `date,description,amount,reference
2025-01-03,UPI credit from Ramesh,500.00,upi-99812
2025-01-05,Shop rent January,-3500.00,
2025-01-06,Cash deposit,1200.50,dep-17
`

func TestGenericParser(t *testing.T) {
	rows, err := (&GenericParser{}).Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "UPI credit from Ramesh", rows[0].Description)
	assert.True(t, rows[0].Amount.Equal(dec("500.00")))
	assert.Equal(t, "upi-99812", rows[0].Reference)

	assert.True(t, rows[1].Amount.Equal(dec("-3500.00")))
	// Missing reference gets a generated one.
	assert.Equal(t, "stmt_20250105_ShoprentJa", rows[1].Reference)

	assert.Equal(t, 2025, rows[2].Date.Year())
}

func TestGenericParser_NoReferenceColumn(t *testing.T) {
	csv := "date,description,amount\n2025-02-01,Tea,-40\n"
	rows, err := (&GenericParser{}).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "stmt_20250201_Tea", rows[0].Reference)
}

func TestGenericParser_HeaderOnly(t *testing.T) {
	rows, err := (&GenericParser{}).Parse(strings.NewReader("date,description,amount\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGenericParser_BadRow(t *testing.T) {
	csv := "date,description,amount\n03/01/2025,Rent,-100\n"
	_, err := (&GenericParser{}).Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("generic"))
	assert.NotNil(t, r.Get("GENERIC"))
	assert.Nil(t, r.Get("unknown"))
	assert.Contains(t, r.Formats(), "generic")
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := DefaultRegistry()
	assert.Panics(t, func() { r.Register(&GenericParser{}) })
}
