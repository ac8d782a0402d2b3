package refkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		// Payment-style references.
		{"Ap. Pago Cte. 1078 F. 2796", "2796"},
		{"F.2796", "2796"},
		{"F 2796", "2796"},
		// Invoice-style references.
		{"Factura de Cliente A-2796", "2796"},
		{"A - 2796", "2796"},
		// Payment rule outranks invoice rule when both are present.
		{"A-1111 F. 2222", "2222"},
		// Fallback: last run of digits.
		{"Misc 55", "55"},
		{"Folio 12 parcialidad 3", "3"},
		// No digits at all: cleaned literal.
		{"VARIOS", "VARIOS"},
		{"  pendiente  ", "PENDIENTE"},
		// Missing references.
		{"", Sentinel},
		{"   ", Sentinel},
		{"nan", Sentinel},
		{"None", Sentinel},
		{"NULL", Sentinel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.raw), "Normalize(%q)", tt.raw)
	}
}

func TestNormalizeCustomPlaceholders(t *testing.T) {
	n := NewWithPlaceholders([]string{"s/r"})
	assert.Equal(t, Sentinel, n.Normalize("S/R"))
	// Defaults no longer apply, so "nan" becomes a literal key.
	assert.Equal(t, "NAN", n.Normalize("nan"))
}

func TestNormalizeCaseFolding(t *testing.T) {
	// Lowercase markers still match after upcasing.
	assert.Equal(t, "310", Normalize("f. 310"))
	assert.Equal(t, "311", Normalize("a-311"))
}

func TestSentinelNotEmpty(t *testing.T) {
	assert.NotEmpty(t, Sentinel)
}
