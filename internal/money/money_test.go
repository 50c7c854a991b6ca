package money

import (
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

func TestParse(t *testing.T) {
	d, err := Parse(" 1234.56 ")
	require.NoError(t, err)
	assert.True(t, d.Equal(dec("1234.56")))

	_, err = Parse("")
	require.Error(t, err)

	_, err = Parse("1,000")
	require.Error(t, err)
}

func TestRound_BankersRounding(t *testing.T) {
	// Half-to-even at the 2nd decimal place.
	assert.Equal(t, "2.12", Round(dec("2.125")).StringFixed(2))
	assert.Equal(t, "2.14", Round(dec("2.135")).StringFixed(2))
	assert.Equal(t, "2.13", Round(dec("2.1251")).StringFixed(2))
	assert.Equal(t, "2.12", Round(dec("2.12")).StringFixed(2))
}

func TestClamp(t *testing.T) {
	assert.True(t, Clamp(dec("-5")).IsZero())
	assert.True(t, Clamp(decimal.Zero).IsZero())
	assert.True(t, Clamp(dec("3.50")).Equal(dec("3.50")))
}

func TestApplyRate(t *testing.T) {
	// 1000 at 10% = 100, unrounded.
	assert.True(t, ApplyRate(dec("1000"), dec("10")).Equal(dec("100")))
	assert.True(t, ApplyRate(dec("1000"), decimal.Zero).IsZero())
}

func TestIsSettled(t *testing.T) {
	assert.True(t, IsSettled(decimal.Zero))
	assert.True(t, IsSettled(dec("0.01")))
	assert.True(t, IsSettled(dec("-0.50")))
	assert.False(t, IsSettled(dec("0.02")))
}
