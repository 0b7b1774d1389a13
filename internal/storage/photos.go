package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a requested photo record doesn't exist.
var ErrNotFound = errors.New("photo not found")

// PhotoRow is one progress photo record, including the image payload.
type PhotoRow struct {
	ID        uuid.UUID `json:"id"`
	Owner     string    `json:"owner"`
	Day       int       `json:"day"`
	IsInitial bool      `json:"isInitial"`
	TakenAt   time.Time `json:"takenAt"`
	JPEG      []byte    `json:"-"`
}

// InsertPhoto stores a photo record.
func (db *DB) InsertPhoto(ctx context.Context, row PhotoRow) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO progress_photos (id, owner, day, is_initial, taken_at, jpeg)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		row.ID, row.Owner, row.Day, row.IsInitial, row.TakenAt, row.JPEG)
	if err != nil {
		return fmt.Errorf("inserting photo: %w", err)
	}
	return nil
}

// GetPhoto retrieves a single photo with its image payload.
func (db *DB) GetPhoto(ctx context.Context, id uuid.UUID) (*PhotoRow, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, owner, day, is_initial, taken_at, jpeg
		 FROM progress_photos WHERE id = $1`, id)

	var p PhotoRow
	err := row.Scan(&p.ID, &p.Owner, &p.Day, &p.IsInitial, &p.TakenAt, &p.JPEG)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying photo: %w", err)
	}
	return &p, nil
}

// QueryPhotosByDay lists photo metadata for one owner and program day,
// oldest first. Image payloads are not included.
func (db *DB) QueryPhotosByDay(ctx context.Context, owner string, day int) ([]PhotoRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, owner, day, is_initial, taken_at
		 FROM progress_photos
		 WHERE owner = $1 AND day = $2
		 ORDER BY taken_at ASC`,
		owner, day)
	if err != nil {
		return nil, fmt.Errorf("querying photos: %w", err)
	}
	defer rows.Close()

	return scanPhotoMeta(rows)
}

// QueryInitialPhotos lists the owner's initial photos, most recent first.
// Image payloads are not included.
func (db *DB) QueryInitialPhotos(ctx context.Context, owner string) ([]PhotoRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, owner, day, is_initial, taken_at
		 FROM progress_photos
		 WHERE owner = $1 AND is_initial
		 ORDER BY taken_at DESC`,
		owner)
	if err != nil {
		return nil, fmt.Errorf("querying initial photos: %w", err)
	}
	defer rows.Close()

	return scanPhotoMeta(rows)
}

func scanPhotoMeta(rows pgx.Rows) ([]PhotoRow, error) {
	var out []PhotoRow
	for rows.Next() {
		var p PhotoRow
		if err := rows.Scan(&p.ID, &p.Owner, &p.Day, &p.IsInitial, &p.TakenAt); err != nil {
			return nil, fmt.Errorf("scanning photo row: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
