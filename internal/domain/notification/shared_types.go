package notification

import "time"

// Kind identifies which due-date notification a ledger entry belongs to.
type Kind string

const (
	KindPreDue Kind = "PRE_DUE" // advance warning, sent ahead of the due date
	KindDue    Kind = "DUE"     // sent on the due date itself
)

// PreDueLeadDays is the lead time of the advance warning.
const PreDueLeadDays = 15

// Kinds lists every notification kind in evaluation order.
func Kinds() []Kind {
	return []Kind{KindPreDue, KindDue}
}

// TriggerDate returns the calendar day on which this kind fires for the
// given due date. Both are start-of-day UTC values.
func (k Kind) TriggerDate(dueDate time.Time) time.Time {
	if k == KindPreDue {
		return dueDate.AddDate(0, 0, -PreDueLeadDays)
	}
	return dueDate
}
