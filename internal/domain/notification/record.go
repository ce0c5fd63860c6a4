package notification

import "time"

// Record is one entry of the append-only send ledger. Corresponds to the
// 'notification_log' table; the composite (colporter_id, kind, notify_date)
// is unique there, which is what makes re-running a scan idempotent.
type Record struct {
	ID             int64
	ColporterID    int64
	Kind           Kind
	NotifyDate     time.Time // calendar day (UTC) the notification was triggered for
	SentAt         time.Time
	RecipientEmail string
	CreatedAt      time.Time
}
