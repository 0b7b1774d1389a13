// Package photos provides the remote progress-photo store capability. The
// progression engine couples to it only through Save and Fetch; remote
// failures are advisory and never block local state.
package photos

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Photo is one progress photo with its metadata.
type Photo struct {
	ID        uuid.UUID `json:"id"`
	Owner     string    `json:"owner"`
	Day       int       `json:"day"`
	IsInitial bool      `json:"isInitial"`
	TakenAt   time.Time `json:"takenAt"`
	JPEG      []byte    `json:"-"`
}

// Store is the remote photo store capability.
type Store interface {
	// Save stores the photo and returns the record ID assigned by the
	// remote store.
	Save(ctx context.Context, p Photo) (uuid.UUID, error)
	// Fetch retrieves a photo by record ID.
	Fetch(ctx context.Context, id uuid.UUID) (Photo, error)
}
