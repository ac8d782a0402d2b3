package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPostingNet(t *testing.T) {
	tests := []struct {
		charge  string
		payment string
		want    string
	}{
		{"100", "0", "100"},
		{"0", "250.50", "-250.5"},
		{"100", "100", "0"},
		{"0", "0", "0"},
	}
	for _, tt := range tests {
		p := Posting{
			Charge:  decimal.RequireFromString(tt.charge),
			Payment: decimal.RequireFromString(tt.payment),
		}
		assert.Equal(t, tt.want, p.Net().String(), "Net(%s, %s)", tt.charge, tt.payment)
	}
}
