package numfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompact_Format(t *testing.T) {
	testCases := []struct {
		name     string
		input    int
		expected string
	}{
		{name: "zero", input: 0, expected: "0"},
		{name: "below a thousand", input: 999, expected: "999"},
		{name: "exact thousand drops the decimal", input: 1000, expected: "1K"},
		{name: "thousands with one decimal", input: 1200, expected: "1.2K"},
		{name: "only one decimal digit is kept", input: 12345, expected: "12.3K"},
		{name: "millions", input: 2500000, expected: "2.5M"},
		{name: "billions", input: 3000000000, expected: "3G"},
		{name: "negative", input: -1200, expected: "-1.2K"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Compact{}.Format(tc.input))
		})
	}
}
