package user

import (
	"context"
)

// Repository resolves account data linked to colporters. Accounts are owned
// by the CRUD side of the system; the notifier only reads them.
type Repository interface {
	// FindNotificationEmail returns the email address notifications for the
	// given colporter should go to. Implementations return a sentinel
	// not-found error when no account or no address exists.
	FindNotificationEmail(ctx context.Context, colporterID int64) (string, error)
}
