package numwords

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordsForQuantity(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		expected string
	}{
		{"Zero", 0, "cero"},
		{"One", 1, "uno"},
		{"Nine", 9, "nueve"},
		{"Ten", 10, "diez"},
		{"Eleven", 11, "once"},
		{"Fifteen", 15, "quince"},
		{"Sixteen with accent", 16, "dieciséis"},
		{"Nineteen", 19, "diecinueve"},
		{"Twenty", 20, "veinte"},
		{"Twenty one single token", 21, "veintiuno"},
		{"Twenty two with accent", 22, "veintidós"},
		{"Twenty three with accent", 23, "veintitrés"},
		{"Twenty six with accent", 26, "veintiséis"},
		{"Twenty nine", 29, "veintinueve"},
		{"Thirty", 30, "treinta"},
		{"Thirty five joined with y", 35, "treinta y cinco"},
		{"Thirty one", 31, "treinta y uno"},
		{"Ninety nine", 99, "noventa y nueve"},
		{"Exactly one hundred", 100, "cien"},
		{"One hundred one", 101, "ciento uno"},
		{"One hundred ten", 110, "ciento diez"},
		{"One hundred twenty one", 121, "ciento veintiuno"},
		{"Two hundred", 200, "doscientos"},
		{"Five hundred irregular", 500, "quinientos"},
		{"Seven hundred irregular", 700, "setecientos"},
		{"Nine hundred irregular", 900, "novecientos"},
		{"Nine hundred ninety nine", 999, "novecientos noventa y nueve"},
		{"Thousand without un", 1000, "mil"},
		{"Thousand one", 1001, "mil uno"},
		{"Thousand one hundred", 1100, "mil cien"},
		{"Two thousand", 2000, "dos mil"},
		{"Year-like value", 2024, "dos mil veinticuatro"},
		{"Form upper practical value", 9999, "nueve mil novecientos noventa y nueve"},
		{"Ten thousand", 10000, "diez mil"},
		{"Twenty one thousand apocope", 21000, "veintiún mil"},
		{"Thirty one thousand apocope", 31000, "treinta y un mil"},
		{"Hundred thousand", 100000, "cien mil"},
		{"Hundred one thousand apocope", 101001, "ciento un mil uno"},
		{"Ceiling", MaxQuantity, "novecientos noventa y nueve mil novecientos noventa y nueve"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := WordsForQuantity(tc.n)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestWordsForQuantityOutOfRange(t *testing.T) {
	for _, n := range []int{-1, -1000, MaxQuantity + 1, math.MaxInt} {
		actual, err := WordsForQuantity(n)
		assert.ErrorIs(t, err, ErrUnsupportedRange, "n=%d", n)
		assert.Empty(t, actual)
	}
}

func TestWordsForQuantityDeterministicAndWellFormed(t *testing.T) {
	for n := 0; n <= 9999; n++ {
		first, err := WordsForQuantity(n)
		require.NoError(t, err)
		second, _ := WordsForQuantity(n)
		require.Equal(t, first, second)
		require.NotEmpty(t, first)
		require.Equal(t, strings.TrimSpace(first), first, "n=%d", n)
		require.NotContains(t, first, "  ", "n=%d", n)
		require.NotContains(t, first, "un mil", "n=%d", n)
	}
}

func TestWordsForAmount(t *testing.T) {
	words, err := WordsForAmount(10)
	require.NoError(t, err)
	assert.Equal(t, "diez", words)

	_, err = WordsForAmount(2.5)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = WordsForAmount(math.NaN())
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = WordsForAmount(math.Inf(1))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = WordsForAmount(-3)
	assert.ErrorIs(t, err, ErrUnsupportedRange)

	_, err = WordsForAmount(1e7)
	assert.ErrorIs(t, err, ErrUnsupportedRange)
}
