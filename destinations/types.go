package destinations

import (
	"context"

	"github.com/KYVENetwork/sumo-dlt/schema"
)

// Destination executes statements on a single connection inside one open
// transaction. Statements are issued strictly one at a time.
type Destination interface {
	Exec(ctx context.Context, stmt string) error
	// InsertRows writes all rows with a single call, rows keep their order.
	InsertRows(ctx context.Context, rows []schema.TransformedRecord) error
	Commit(ctx context.Context) error
	Close() error
}
