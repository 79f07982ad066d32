package statements

import (
	"testing"
	"time"

	"github.com/anjiri1684/torah_tutor/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatementHTML(t *testing.T) {
	processed := time.Date(2026, 10, 2, 12, 0, 0, 0, time.UTC)
	p := models.MonthlyTeacherPayment{
		ID:              uuid.New(),
		Month:           "2026-09",
		TotalHours:      10,
		HourlyRate:      2000,
		GrossAmount:     20000,
		TeacherShareBps: 7000,
		AdminShareBps:   3000,
		TeacherAmount:   14000,
		AdminAmount:     6000,
		ProcessedAt:     &processed,
	}
	html, err := StatementHTML(p, models.Profile{FullName: "Miriam <Cohen>", Email: "miriam@example.com"})
	require.NoError(t, err)

	assert.Contains(t, html, "2026-09")
	assert.Contains(t, html, "10.00")
	assert.Contains(t, html, "200.00")
	assert.Contains(t, html, "140.00")
	assert.Contains(t, html, "60.00")
	assert.Contains(t, html, "70.00%")
	assert.Contains(t, html, "October 2, 2026")
	assert.Contains(t, html, "Miriam &lt;Cohen&gt;", "names are escaped")
}
