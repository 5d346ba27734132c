package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and creation time shared by product and
// batch snapshots. Snapshots arrive fully formed from the caller, so there
// is no update tracking here.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
}

// NewBaseEntity returns a BaseEntity with a fresh random ID. Snapshot
// decoding normally supplies the ID from the payload; this is for tests and
// in-process construction.
func NewBaseEntity() BaseEntity {
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
	}
}
