package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  Date
	}{
		{"1905", Date{Year: 1905}},
		{"1905-04", Date{Year: 1905, Month: 4}},
		{"1905-04-17", Date{Year: 1905, Month: 4, Day: 17}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestParseDateRejectsBadInput(t *testing.T) {
	for _, input := range []string{"", "abc", "1905-13", "1905-00", "1905-04-32", "0"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseDate(input)
			require.Error(t, err)
		})
	}
}

func TestDateCompare(t *testing.T) {
	year := Date{Year: 1905}
	month := Date{Year: 1905, Month: 4}
	day := Date{Year: 1905, Month: 4, Day: 17}

	assert.Equal(t, 0, year.Compare(year))
	// Partial dates sort before more precise ones in the same period.
	assert.Equal(t, -1, year.Compare(month))
	assert.Equal(t, -1, month.Compare(day))
	assert.Equal(t, 1, Date{Year: 1906}.Compare(day))
}
