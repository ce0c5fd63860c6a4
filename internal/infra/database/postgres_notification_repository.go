package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"colporter_notifier/internal/domain/colporter"
	"colporter_notifier/internal/domain/notification"
)

type PostgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

// Exists reports whether a ledger record with the composite key
// (colporterID, kind, day) is already present.
func (r *PostgresNotificationRepository) Exists(ctx context.Context, colporterID int64, kind notification.Kind, day time.Time) (bool, error) {
	query := `SELECT EXISTS(
               SELECT 1 FROM notification_log
               WHERE colporter_id = $1 AND kind = $2 AND notify_date = $3)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, colporterID, kind, colporter.DayUTC(day)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking notification log for (C:%d, K:%s): %w", colporterID, kind, err)
	}
	return exists, nil
}

// BulkCreate appends the cycle's new ledger records in one transaction.
// The insert ignores rows that collide on the (colporter_id, kind,
// notify_date) constraint, so two scheduler instances racing on the same day
// cannot produce duplicates.
func (r *PostgresNotificationRepository) BulkCreate(ctx context.Context, records []*notification.Record) error {
	if len(records) == 0 {
		return nil
	}

	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for bulk create: %w", err)
	}
	defer txn.Rollback() // Rollback if not committed

	stmt, err := txn.PrepareContext(ctx, `INSERT INTO notification_log (colporter_id, kind, notify_date, sent_at, recipient_email, created_at)
                                         VALUES ($1, $2, $3, $4, $5, NOW())
                                         ON CONFLICT ON CONSTRAINT notification_log_unique DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for bulk create: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx, rec.ColporterID, rec.Kind, colporter.DayUTC(rec.NotifyDate), rec.SentAt, rec.RecipientEmail)
		if err != nil {
			return fmt.Errorf("error executing statement for bulk create (record for C:%d, K:%s): %w", rec.ColporterID, rec.Kind, err)
		}
	}

	return txn.Commit()
}
