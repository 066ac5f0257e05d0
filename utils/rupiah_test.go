package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatRupiah(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "Rp 0"},
		{"500", "Rp 500"},
		{"1000", "Rp 1.000"},
		{"45000", "Rp 45.000"},
		{"1000000", "Rp 1.000.000"},
		{"1234567890", "Rp 1.234.567.890"},
		{"-200000", "-Rp 200.000"},
		{"45000.99", "Rp 45.001"},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatRupiah(decimal.RequireFromString(tc.in)))
		})
	}
}
