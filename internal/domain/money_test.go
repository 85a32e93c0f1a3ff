package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidAmount(t *testing.T) {
	tests := []struct {
		amount   string
		expected bool
	}{
		{"150", true},
		{"0.01", true},
		{"10.50", true},
		{"10.500", true},
		{"0", false},
		{"-5", false},
		{"0.001", false},
		{"0.004", false},
		{"99.999", false},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidAmount(decimal.RequireFromString(tt.amount)))
		})
	}
}
