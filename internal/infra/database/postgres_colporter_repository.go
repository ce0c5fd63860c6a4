package database

import (
	"context"
	"database/sql"
	"fmt"

	"colporter_notifier/internal/domain/colporter"
)

type PostgresColporterRepository struct {
	db *sql.DB
}

func NewPostgresColporterRepository(db *sql.DB) *PostgresColporterRepository {
	return &PostgresColporterRepository{db: db}
}

// ListTracked returns every colporter under visit tracking. The scan reads
// this once per cycle as its roster snapshot.
func (r *PostgresColporterRepository) ListTracked(ctx context.Context) ([]*colporter.Colporter, error) {
	query := `SELECT id, full_name, last_visit_date, created_at, updated_at
               FROM colporters
               WHERE tracked = TRUE
               ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying tracked colporters: %w", err)
	}
	defer rows.Close()

	colporters := make([]*colporter.Colporter, 0)
	for rows.Next() {
		c := colporter.Colporter{}
		if err := rows.Scan(&c.ID, &c.FullName, &c.LastVisitDate, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning colporter row: %w", err)
		}
		colporters = append(colporters, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating colporter rows: %w", err)
	}
	return colporters, nil
}
