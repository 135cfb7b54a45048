// source: photos.sql

package db

import (
	"context"
)

const createPhoto = `-- name: CreatePhoto :exec
INSERT INTO photos (id, mime_type, data)
VALUES (?, ?, ?)
`

type CreatePhotoParams struct {
	ID       string
	MimeType string
	Data     []byte
}

func (q *Queries) CreatePhoto(ctx context.Context, arg CreatePhotoParams) error {
	_, err := q.db.ExecContext(ctx, createPhoto, arg.ID, arg.MimeType, arg.Data)
	return err
}

const getPhoto = `-- name: GetPhoto :one
SELECT id, mime_type, data
FROM photos
WHERE id = ?
`

func (q *Queries) GetPhoto(ctx context.Context, id string) (Photo, error) {
	row := q.db.QueryRowContext(ctx, getPhoto, id)
	var i Photo
	err := row.Scan(&i.ID, &i.MimeType, &i.Data)
	return i, err
}
