package colporter

import (
	"context"
)

// Repository defines the read operations the notifier needs over the
// colporter roster. The roster itself is owned by the CRUD side of the
// system; this process never writes to it.
type Repository interface {
	// ListTracked returns a snapshot of every colporter under visit tracking.
	ListTracked(ctx context.Context) ([]*Colporter, error)
}
