package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func row(cells ...string) Row {
	r := make(Row, MinCells)
	copy(r, cells)
	return r
}

func TestClassifyAccountHeader(t *testing.T) {
	tags := Classify(row("104-001-001", "", "FARMERS DEL NORTE SA"))
	assert.True(t, tags.AccountHeader)
	assert.False(t, tags.OpeningBalance)
	assert.False(t, tags.Posting)

	// Trailing text after the code is allowed, anchoring is at the start only.
	assert.True(t, Classify(row("104-001-001 CLIENTES")).AccountHeader)
	assert.False(t, Classify(row("X 104-001-001")).AccountHeader)
	assert.False(t, Classify(row("104-01-001")).AccountHeader)
}

func TestClassifyOpeningBalance(t *testing.T) {
	tags := Classify(row("", "", "", "Saldo Inicial", "", "", "1500.00"))
	assert.True(t, tags.OpeningBalance)

	// Case-insensitive substring match.
	assert.True(t, Classify(row("", "", "", "** SALDO INICIAL **")).OpeningBalance)
	assert.False(t, Classify(row("", "", "", "Saldo Final")).OpeningBalance)
}

func TestClassifyPosting(t *testing.T) {
	tags := Classify(row("P-88", "2024-03-15", "Factura", "A-100", "1000", "0", "2500"))
	assert.True(t, tags.Posting)

	// ISO prefix is enough, a trailing timestamp does not disqualify.
	assert.True(t, Classify(row("", "2024-03-15 00:00:00")).Posting)
	assert.False(t, Classify(row("", "15/03/2024")).Posting)
	assert.False(t, Classify(row("", "")).Posting)
}

func TestHasMoney(t *testing.T) {
	assert.True(t, HasMoney(row("", "", "", "", "100.50", "0")))
	assert.True(t, HasMoney(row("", "", "", "", "", "200")))
	assert.True(t, HasMoney(row("", "", "", "", "1,234.56", "")))
	assert.False(t, HasMoney(row("", "", "", "", "0", "0")))
	assert.False(t, HasMoney(row("", "", "", "", "n/a", "")))
	assert.False(t, HasMoney(row()))
}

func TestIsPhantom(t *testing.T) {
	// Money but no valid date and no opening marker: phantom.
	bad := row("P-1", "sin fecha", "Pago", "", "", "300")
	assert.True(t, IsPhantom(bad, Classify(bad)))

	// A proper posting is never a phantom.
	good := row("P-1", "2024-01-10", "Pago", "", "", "300")
	assert.False(t, IsPhantom(good, Classify(good)))

	// Opening-balance rows carry money in the balance column semantics, not
	// the movement columns, but even with money they are claimed.
	opening := row("", "", "", "Saldo Inicial", "10", "", "1500")
	assert.False(t, IsPhantom(opening, Classify(opening)))

	// No money, no phantom.
	empty := row("", "texto", "sin montos")
	assert.False(t, IsPhantom(empty, Classify(empty)))
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, "1234.56", ParseAmount("1,234.56").String())
	assert.Equal(t, "-50", ParseAmount(" -50 ").String())
	assert.Equal(t, "99.9", ParseAmount("$99.9").String())
	assert.True(t, ParseAmount("abc").IsZero())
	assert.True(t, ParseAmount("").IsZero())
}

func TestCellOutOfRange(t *testing.T) {
	r := Row{"solo"}
	assert.Equal(t, "solo", r.Cell(0))
	assert.Equal(t, "", r.Cell(7))
	assert.Equal(t, "", r.Cell(-1))
}
