package entity

import (
	"time"

	"github.com/google/uuid"
)

// Owned holds the columns the store assigns to every user-submitted row.
type Owned struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	CreatedBy uuid.UUID `json:"created_by" db:"created_by"`
}
