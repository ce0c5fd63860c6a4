package colporter

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func visit(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}

func TestComputeStatus_NoVisitRecorded(t *testing.T) {
	nows := []time.Time{
		date(2020, time.January, 1),
		date(2024, time.December, 17),
		date(2030, time.June, 30),
	}
	for _, now := range nows {
		status, dueDate := ComputeStatus(sql.NullTime{}, now)
		assert.Equal(t, StatusNoRecord, status)
		assert.False(t, dueDate.Valid)
	}
}

func TestComputeStatus_DueDateIsOneYearAfterVisit(t *testing.T) {
	cases := []struct {
		lastVisit time.Time
		expected  time.Time
	}{
		{date(2024, time.January, 1), date(2025, time.January, 1)},
		{date(2023, time.July, 15), date(2024, time.July, 15)},
		// Leap day rolls over to March 1st.
		{date(2024, time.February, 29), date(2025, time.March, 1)},
	}
	for _, tc := range cases {
		_, dueDate := ComputeStatus(visit(tc.lastVisit), date(2024, time.June, 1))
		require.True(t, dueDate.Valid)
		assert.Equal(t, tc.expected, dueDate.Time, "last visit %s", tc.lastVisit.Format("2006-01-02"))
	}
}

func TestComputeStatus_Boundaries(t *testing.T) {
	lastVisit := visit(date(2024, time.January, 1)) // due 2025-01-01

	cases := []struct {
		name     string
		now      time.Time
		expected DueStatus
	}{
		{"31 days before due", date(2024, time.December, 1), StatusOnTrack},
		{"30 days before due", date(2024, time.December, 2), StatusWarning},
		{"15 days before due", date(2024, time.December, 17), StatusWarning},
		{"on due date", date(2025, time.January, 1), StatusWarning},
		{"one day overdue", date(2025, time.January, 2), StatusOverdue},
		{"long overdue", date(2026, time.August, 9), StatusOverdue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, dueDate := ComputeStatus(lastVisit, tc.now)
			assert.Equal(t, tc.expected, status)
			require.True(t, dueDate.Valid)
			assert.Equal(t, date(2025, time.January, 1), dueDate.Time)
		})
	}
}

func TestComputeStatus_TimeOfDayDoesNotShiftBoundaries(t *testing.T) {
	// A visit late in the day and an evaluation early in the day must land
	// on the same calendar-day arithmetic as midnight values.
	lastVisit := visit(time.Date(2024, time.January, 1, 23, 59, 59, 0, time.UTC))
	now := time.Date(2025, time.January, 1, 0, 0, 1, 0, time.UTC)

	status, dueDate := ComputeStatus(lastVisit, now)
	assert.Equal(t, StatusWarning, status)
	assert.Equal(t, date(2025, time.January, 1), dueDate.Time)
}

func TestComputeStatus_NonUTCInputsAreNormalized(t *testing.T) {
	offset := time.FixedZone("UTC-5", -5*60*60)
	// 2024-01-01 22:00 -05:00 is 2024-01-02 03:00 UTC.
	lastVisit := visit(time.Date(2024, time.January, 1, 22, 0, 0, 0, offset))

	_, dueDate := ComputeStatus(lastVisit, date(2024, time.June, 1))
	require.True(t, dueDate.Valid)
	assert.Equal(t, date(2025, time.January, 2), dueDate.Time)
}

func TestDaysUntilDue(t *testing.T) {
	due := date(2025, time.January, 1)
	assert.Equal(t, 15, DaysUntilDue(due, date(2024, time.December, 17)))
	assert.Equal(t, 0, DaysUntilDue(due, date(2025, time.January, 1)))
	assert.Equal(t, -1, DaysUntilDue(due, date(2025, time.January, 2)))
}
