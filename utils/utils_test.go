package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthWindow(t *testing.T) {
	start, end, err := MonthWindow("2026-12", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), end)

	_, _, err = MonthWindow("2026-13", nil)
	assert.Error(t, err)
	_, _, err = MonthWindow("december", nil)
	assert.Error(t, err)
}

func TestPreviousMonth(t *testing.T) {
	assert.Equal(t, "2026-09", PreviousMonth(time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-12", PreviousMonth(time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)))
}

func TestPage(t *testing.T) {
	limit, offset := Page("3", "20", 50)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 40, offset)

	limit, offset = Page("", "", 50)
	assert.Equal(t, 50, limit)
	assert.Equal(t, 0, offset)

	limit, _ = Page("1", "1000", 50)
	assert.Equal(t, 100, limit)
}
