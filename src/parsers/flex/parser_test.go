// backend/src/parsers/flex/parser_test.go
package flex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMapsRowsByHeader(t *testing.T) {
	csv := "TradeID,Ticker,Quantity,PurchasePrice\n" +
		"t-1,AAPL,10,150.25\n" +
		"t-2,MSFT,2,410.5\n"

	rows, err := NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "AAPL", rows[0]["Ticker"])
	assert.Equal(t, "410.5", rows[1]["PurchasePrice"])
}

func TestParseSkipsBlankRows(t *testing.T) {
	csv := "A,B\n" +
		"1,2\n" +
		",\n" +
		"3,4\n"

	rows, err := NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestParseToleratesRaggedRows(t *testing.T) {
	csv := "A,B,C\n" +
		"1,2\n" +
		"3,4,5,6\n"

	rows, err := NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2", rows[0]["B"])
	assert.NotContains(t, rows[0], "C")
	assert.Equal(t, "5", rows[1]["C"])
}

func TestParseStripsBOM(t *testing.T) {
	csv := "\uFEFFA,B\n1,2\n"
	rows, err := NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0]["A"])
}

func TestParseEmptyBody(t *testing.T) {
	_, err := NewParser().Parse(strings.NewReader(""))
	assert.Error(t, err)
}
