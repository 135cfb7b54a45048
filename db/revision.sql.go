// source: revision.sql

package db

import (
	"context"
)

const bumpRevision = `-- name: BumpRevision :one
UPDATE revision
SET value = value + 1
WHERE id = 1
RETURNING value
`

func (q *Queries) BumpRevision(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, bumpRevision)
	var value int64
	err := row.Scan(&value)
	return value, err
}

const getRevision = `-- name: GetRevision :one
SELECT value
FROM revision
WHERE id = 1
`

func (q *Queries) GetRevision(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, getRevision)
	var value int64
	err := row.Scan(&value)
	return value, err
}
