package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNumericID(t *testing.T) {
	assert.True(t, IsNumericID("1010"))
	assert.True(t, IsNumericID("0"))
	assert.False(t, IsNumericID(""))
	assert.False(t, IsNumericID("10a"))
	assert.False(t, IsNumericID("-1"))
	assert.False(t, IsNumericID("10 "))
}

func TestFormatTimestampSortsChronologically(t *testing.T) {
	earlier := FormatTimestamp(time.Date(2023, 6, 1, 8, 0, 0, 0, time.UTC))
	later := FormatTimestamp(time.Date(2023, 6, 15, 9, 15, 0, 500, time.UTC))
	assert.Equal(t, "2023-06-01T08:00:00.000000", earlier)
	assert.Less(t, earlier, later)
}

func TestAmountsMarshalAsJSONNumbers(t *testing.T) {
	tx := Transaction{ID: "1", Amount: decimal.RequireFromString("-120.50")}
	body, err := json.Marshal(tx)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"amount":-120.5`)
	assert.NotContains(t, string(body), `"amount":"`)
}
