package database

import (
	"context"
	"database/sql"
	"fmt"
)

// ErrEmailNotFound is returned when a colporter has no linked account or the
// account carries no email address.
var ErrEmailNotFound = fmt.Errorf("notification email not found")

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// FindNotificationEmail resolves the email address for the account linked to
// the given colporter.
func (r *PostgresUserRepository) FindNotificationEmail(ctx context.Context, colporterID int64) (string, error) {
	query := `SELECT email FROM users WHERE colporter_id = $1 LIMIT 1`
	var email sql.NullString
	err := r.db.QueryRowContext(ctx, query, colporterID).Scan(&email)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrEmailNotFound
		}
		return "", fmt.Errorf("error resolving notification email for colporter %d: %w", colporterID, err)
	}
	if !email.Valid || email.String == "" {
		return "", ErrEmailNotFound
	}
	return email.String, nil
}
