package notification

import (
	"context"
	"time"
)

// Repository defines the operations on the notification ledger. The ledger
// is append-only: records are never updated or deleted by this process.
type Repository interface {
	// Exists reports whether a record with the composite key
	// (colporterID, kind, day) is already present.
	Exists(ctx context.Context, colporterID int64, kind Kind, day time.Time) (bool, error)

	// BulkCreate appends all records in one transaction. The batch is
	// all-or-nothing; no partial writes survive a failure.
	BulkCreate(ctx context.Context, records []*Record) error
}
