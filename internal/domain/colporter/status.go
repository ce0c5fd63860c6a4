package colporter

import (
	"database/sql"
	"time"
)

// DueStatus is the lifecycle status derived from a colporter's last visit date.
type DueStatus string

const (
	StatusNoRecord DueStatus = "NO_RECORD"
	StatusOnTrack  DueStatus = "ON_TRACK"
	StatusWarning  DueStatus = "WARNING"
	StatusOverdue  DueStatus = "OVERDUE"
)

const (
	// VisitValidityYears is how long a recorded visit stays valid: the due
	// date is one calendar year after the last visit date.
	VisitValidityYears = 1
	// WarningWindowDays is the window before the due date in which a
	// colporter is reported as WARNING instead of ON_TRACK.
	WarningWindowDays = 30
)

// DayUTC normalizes t to the start of its calendar day in UTC. All due-date
// arithmetic works on these normalized values so partial days never shift a
// trigger by one.
func DayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DueDate returns the visit due date for a last visit on the given day.
func DueDate(lastVisit time.Time) time.Time {
	return DayUTC(lastVisit).AddDate(VisitValidityYears, 0, 0)
}

// DaysUntilDue returns the whole-day distance from now to dueDate. Negative
// once the due date has passed.
func DaysUntilDue(dueDate, now time.Time) int {
	return int(DayUTC(dueDate).Sub(DayUTC(now)).Hours() / 24)
}

// ComputeStatus derives the lifecycle status and due date for a colporter
// from its last visit date. A colporter with no recorded visit is a valid
// first-class case: it maps to StatusNoRecord with no due date and never
// produces a notification.
//
// This is the single status implementation shared by the notification scan
// and every read path that displays status, so the two can never disagree.
func ComputeStatus(lastVisit sql.NullTime, now time.Time) (DueStatus, sql.NullTime) {
	if !lastVisit.Valid {
		return StatusNoRecord, sql.NullTime{}
	}

	dueDate := DueDate(lastVisit.Time)
	due := sql.NullTime{Time: dueDate, Valid: true}

	switch days := DaysUntilDue(dueDate, now); {
	case days < 0:
		return StatusOverdue, due
	case days <= WarningWindowDays:
		return StatusWarning, due
	default:
		return StatusOnTrack, due
	}
}
