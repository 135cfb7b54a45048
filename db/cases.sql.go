// source: cases.sql

package db

import (
	"context"
	"database/sql"
)

const createCase = `-- name: CreateCase :exec
INSERT INTO cases (
    name, proposed_budget, awarded_total, status, vendor, has_breakdown,
    construction_cost, pollution_cost, management_cost, misc_cost
) VALUES (
    ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
)
`

type CreateCaseParams struct {
	Name             string
	ProposedBudget   int64
	AwardedTotal     int64
	Status           string
	Vendor           string
	HasBreakdown     int64
	ConstructionCost int64
	PollutionCost    int64
	ManagementCost   int64
	MiscCost         int64
}

func (q *Queries) CreateCase(ctx context.Context, arg CreateCaseParams) error {
	_, err := q.db.ExecContext(ctx, createCase,
		arg.Name,
		arg.ProposedBudget,
		arg.AwardedTotal,
		arg.Status,
		arg.Vendor,
		arg.HasBreakdown,
		arg.ConstructionCost,
		arg.PollutionCost,
		arg.ManagementCost,
		arg.MiscCost,
	)
	return err
}

const deleteCase = `-- name: DeleteCase :execresult
DELETE FROM cases
WHERE name = ?
`

func (q *Queries) DeleteCase(ctx context.Context, name string) (sql.Result, error) {
	return q.db.ExecContext(ctx, deleteCase, name)
}

const getCase = `-- name: GetCase :one
SELECT id, name, proposed_budget, awarded_total, status, vendor, has_breakdown,
       construction_cost, pollution_cost, management_cost, misc_cost
FROM cases
WHERE name = ?
`

func (q *Queries) GetCase(ctx context.Context, name string) (Case, error) {
	row := q.db.QueryRowContext(ctx, getCase, name)
	var i Case
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.ProposedBudget,
		&i.AwardedTotal,
		&i.Status,
		&i.Vendor,
		&i.HasBreakdown,
		&i.ConstructionCost,
		&i.PollutionCost,
		&i.ManagementCost,
		&i.MiscCost,
	)
	return i, err
}

const listCases = `-- name: ListCases :many
SELECT id, name, proposed_budget, awarded_total, status, vendor, has_breakdown,
       construction_cost, pollution_cost, management_cost, misc_cost
FROM cases
ORDER BY id
`

func (q *Queries) ListCases(ctx context.Context) ([]Case, error) {
	rows, err := q.db.QueryContext(ctx, listCases)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Case
	for rows.Next() {
		var i Case
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.ProposedBudget,
			&i.AwardedTotal,
			&i.Status,
			&i.Vendor,
			&i.HasBreakdown,
			&i.ConstructionCost,
			&i.PollutionCost,
			&i.ManagementCost,
			&i.MiscCost,
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

const updateCase = `-- name: UpdateCase :execresult
UPDATE cases
SET name = ?,
    proposed_budget = ?,
    awarded_total = ?,
    status = ?,
    vendor = ?,
    has_breakdown = ?,
    construction_cost = ?,
    pollution_cost = ?,
    management_cost = ?,
    misc_cost = ?
WHERE name = ?
`

type UpdateCaseParams struct {
	Name             string
	ProposedBudget   int64
	AwardedTotal     int64
	Status           string
	Vendor           string
	HasBreakdown     int64
	ConstructionCost int64
	PollutionCost    int64
	ManagementCost   int64
	MiscCost         int64
	OldName          string
}

func (q *Queries) UpdateCase(ctx context.Context, arg UpdateCaseParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, updateCase,
		arg.Name,
		arg.ProposedBudget,
		arg.AwardedTotal,
		arg.Status,
		arg.Vendor,
		arg.HasBreakdown,
		arg.ConstructionCost,
		arg.PollutionCost,
		arg.ManagementCost,
		arg.MiscCost,
		arg.OldName,
	)
}
