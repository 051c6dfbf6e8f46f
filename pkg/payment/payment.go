package payment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/billingkit/pkg/ledger"
)

// Status of a logged charge. The core only ever sees confirmed charges, so
// completed is the only value written today; the column exists for
// reconciliation tooling that may back-fill refunds.
type Status string

const StatusCompleted Status = "completed"

// Record is one completed external charge.
type Record struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	OrderID   string // payment processor's opaque order identifier
	Amount    ledger.Money
	Status    Status
	CreatedAt time.Time
}

// Store is append-only by design: there is no update or delete.
type Store interface {
	Append(ctx context.Context, rec *Record) error
}
