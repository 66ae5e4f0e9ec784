package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnitAmount(t *testing.T) {
	tests := []struct {
		name     string
		currency string
		total    float64
		want     int64
	}{
		{"zero decimal currency charges whole units", "JPY", 150.0, 150},
		{"zero decimal currency is case insensitive", "jpy", 150.0, 150},
		{"two decimal currency scales to cents", "USD", 19.99, 1999},
		{"lowercase two decimal currency", "usd", 19.99, 1999},
		{"two decimal rounding", "EUR", 10.005, 1001},
		{"zero decimal rounding", "KRW", 1000.4, 1000},
		{"zero total", "USD", 0, 0},
		{"unknown currency treated as two decimal", "ZZZ", 1.23, 123},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UnitAmount(tt.currency, tt.total))
		})
	}
}
