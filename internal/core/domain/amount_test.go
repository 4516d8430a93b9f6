package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
	}{
		{"1", 1_000_000_000},
		{"1.5", 1_500_000_000},
		{"0.000000001", 1},
		{"42.123456789", 42_123_456_789},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.raw)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}

func TestParseAmount_Rejects(t *testing.T) {
	for _, raw := range []string{
		"",
		"abc",
		"-1",
		"0",
		"1.0000000001", // finer than nanogrin
		"99999999999999999999999999",
	} {
		_, err := ParseAmount(raw)
		assert.Error(t, err, raw)
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1.5", FormatAmount(1_500_000_000))
	assert.Equal(t, "0.000000001", FormatAmount(1))
	assert.Equal(t, "0", FormatAmount(0))
	assert.Equal(t, "2", FormatAmount(2_000_000_000))
}
