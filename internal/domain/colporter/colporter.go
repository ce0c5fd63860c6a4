package colporter

import (
	"database/sql"
	"time"
)

// Colporter represents a tracked field worker.
type Colporter struct {
	ID            int64
	FullName      string
	LastVisitDate sql.NullTime // Absent until a first visit is recorded
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
