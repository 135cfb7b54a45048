// source: project_lines.sql

package db

import (
	"context"
	"database/sql"
)

const createProjectLine = `-- name: CreateProjectLine :exec
INSERT INTO project_lines (
    name, category, content, location, proposed_by, assigned_staff, amount, case_link, photo_urls
) VALUES (
    ?, ?, ?, ?, ?, ?, ?, ?, ?
)
`

type CreateProjectLineParams struct {
	Name          string
	Category      string
	Content       string
	Location      string
	ProposedBy    string
	AssignedStaff string
	Amount        int64
	CaseLink      string
	PhotoUrls     string
}

func (q *Queries) CreateProjectLine(ctx context.Context, arg CreateProjectLineParams) error {
	_, err := q.db.ExecContext(ctx, createProjectLine,
		arg.Name,
		arg.Category,
		arg.Content,
		arg.Location,
		arg.ProposedBy,
		arg.AssignedStaff,
		arg.Amount,
		arg.CaseLink,
		arg.PhotoUrls,
	)
	return err
}

const deleteProjectLinesByName = `-- name: DeleteProjectLinesByName :execresult
DELETE FROM project_lines
WHERE name = ?
`

func (q *Queries) DeleteProjectLinesByName(ctx context.Context, name string) (sql.Result, error) {
	return q.db.ExecContext(ctx, deleteProjectLinesByName, name)
}

const getProjectLine = `-- name: GetProjectLine :one
SELECT id, name, category, content, location, proposed_by, assigned_staff, amount, case_link, photo_urls
FROM project_lines
WHERE name = ? AND category = ?
`

type GetProjectLineParams struct {
	Name     string
	Category string
}

func (q *Queries) GetProjectLine(ctx context.Context, arg GetProjectLineParams) (ProjectLine, error) {
	row := q.db.QueryRowContext(ctx, getProjectLine, arg.Name, arg.Category)
	var i ProjectLine
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Category,
		&i.Content,
		&i.Location,
		&i.ProposedBy,
		&i.AssignedStaff,
		&i.Amount,
		&i.CaseLink,
		&i.PhotoUrls,
	)
	return i, err
}

const listProjectLines = `-- name: ListProjectLines :many
SELECT id, name, category, content, location, proposed_by, assigned_staff, amount, case_link, photo_urls
FROM project_lines
ORDER BY id
`

func (q *Queries) ListProjectLines(ctx context.Context) ([]ProjectLine, error) {
	rows, err := q.db.QueryContext(ctx, listProjectLines)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ProjectLine
	for rows.Next() {
		var i ProjectLine
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Category,
			&i.Content,
			&i.Location,
			&i.ProposedBy,
			&i.AssignedStaff,
			&i.Amount,
			&i.CaseLink,
			&i.PhotoUrls,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listProjectLinesByName = `-- name: ListProjectLinesByName :many
SELECT id, name, category, content, location, proposed_by, assigned_staff, amount, case_link, photo_urls
FROM project_lines
WHERE name = ?
ORDER BY id
`

func (q *Queries) ListProjectLinesByName(ctx context.Context, name string) ([]ProjectLine, error) {
	rows, err := q.db.QueryContext(ctx, listProjectLinesByName, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ProjectLine
	for rows.Next() {
		var i ProjectLine
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Category,
			&i.Content,
			&i.Location,
			&i.ProposedBy,
			&i.AssignedStaff,
			&i.Amount,
			&i.CaseLink,
			&i.PhotoUrls,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const relinkCase = `-- name: RelinkCase :execresult
UPDATE project_lines
SET case_link = ?
WHERE case_link = ?
`

type RelinkCaseParams struct {
	ToCase   string
	FromCase string
}

func (q *Queries) RelinkCase(ctx context.Context, arg RelinkCaseParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, relinkCase, arg.ToCase, arg.FromCase)
}

const setProjectCaseLink = `-- name: SetProjectCaseLink :execresult
UPDATE project_lines
SET case_link = ?
WHERE name = ?
`

type SetProjectCaseLinkParams struct {
	CaseLink string
	Name     string
}

func (q *Queries) SetProjectCaseLink(ctx context.Context, arg SetProjectCaseLinkParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, setProjectCaseLink, arg.CaseLink, arg.Name)
}

const updateProjectLine = `-- name: UpdateProjectLine :execresult
UPDATE project_lines
SET name = ?,
    category = ?,
    content = ?,
    location = ?,
    proposed_by = ?,
    assigned_staff = ?,
    amount = ?,
    case_link = ?,
    photo_urls = ?
WHERE id = ?
`

type UpdateProjectLineParams struct {
	Name          string
	Category      string
	Content       string
	Location      string
	ProposedBy    string
	AssignedStaff string
	Amount        int64
	CaseLink      string
	PhotoUrls     string
	ID            int64
}

func (q *Queries) UpdateProjectLine(ctx context.Context, arg UpdateProjectLineParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, updateProjectLine,
		arg.Name,
		arg.Category,
		arg.Content,
		arg.Location,
		arg.ProposedBy,
		arg.AssignedStaff,
		arg.Amount,
		arg.CaseLink,
		arg.PhotoUrls,
		arg.ID,
	)
}
