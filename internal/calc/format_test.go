package calc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{4, "4"},
		{-4, "-4"},
		{0.1 + 0.2, "0.3"},
		{1.0 / 3, "0.3333333333"},
		{123.456, "123.456"},
		{1e15, "1000000000000000"},
		{1e15 + 2, "1.00000e+15"},
		{2432902008176640000, "2.43290e+18"},
		{-1.5e20, "-1.50000e+20"},
		{1e-10, "0.0000000001"},
		{1e-11, "1.00000e-11"},
		{-3.14159e-12, "-3.14159e-12"},
		{0.00000000004999, "4.99900e-11"},
		{1.23456789012345, "1.2345678901"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.in), "Format(%v)", tt.in)
	}
}
