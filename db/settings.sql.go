// source: settings.sql

package db

import (
	"context"
)

const clearSettingCategories = `-- name: ClearSettingCategories :exec
DELETE FROM setting_categories
`

func (q *Queries) ClearSettingCategories(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, clearSettingCategories)
	return err
}

const clearSettingStaff = `-- name: ClearSettingStaff :exec
DELETE FROM setting_staff
`

func (q *Queries) ClearSettingStaff(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, clearSettingStaff)
	return err
}

const clearSettingSuggesters = `-- name: ClearSettingSuggesters :exec
DELETE FROM setting_suggesters
`

func (q *Queries) ClearSettingSuggesters(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, clearSettingSuggesters)
	return err
}

const createSettingCategory = `-- name: CreateSettingCategory :exec
INSERT INTO setting_categories (name, budget, position)
VALUES (?, ?, ?)
`

type CreateSettingCategoryParams struct {
	Name     string
	Budget   int64
	Position int64
}

func (q *Queries) CreateSettingCategory(ctx context.Context, arg CreateSettingCategoryParams) error {
	_, err := q.db.ExecContext(ctx, createSettingCategory, arg.Name, arg.Budget, arg.Position)
	return err
}

const createSettingStaff = `-- name: CreateSettingStaff :exec
INSERT INTO setting_staff (id, name, position)
VALUES (?, ?, ?)
`

type CreateSettingStaffParams struct {
	ID       string
	Name     string
	Position int64
}

func (q *Queries) CreateSettingStaff(ctx context.Context, arg CreateSettingStaffParams) error {
	_, err := q.db.ExecContext(ctx, createSettingStaff, arg.ID, arg.Name, arg.Position)
	return err
}

const createSettingSuggester = `-- name: CreateSettingSuggester :exec
INSERT INTO setting_suggesters (name, quota, position)
VALUES (?, ?, ?)
`

type CreateSettingSuggesterParams struct {
	Name     string
	Quota    int64
	Position int64
}

func (q *Queries) CreateSettingSuggester(ctx context.Context, arg CreateSettingSuggesterParams) error {
	_, err := q.db.ExecContext(ctx, createSettingSuggester, arg.Name, arg.Quota, arg.Position)
	return err
}

const listSettingCategories = `-- name: ListSettingCategories :many
SELECT name, budget, position
FROM setting_categories
ORDER BY position
`

func (q *Queries) ListSettingCategories(ctx context.Context) ([]SettingCategory, error) {
	rows, err := q.db.QueryContext(ctx, listSettingCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SettingCategory
	for rows.Next() {
		var i SettingCategory
		if err := rows.Scan(&i.Name, &i.Budget, &i.Position); err != nil {
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

const listSettingStaff = `-- name: ListSettingStaff :many
SELECT id, name, position
FROM setting_staff
ORDER BY position
`

func (q *Queries) ListSettingStaff(ctx context.Context) ([]SettingStaff, error) {
	rows, err := q.db.QueryContext(ctx, listSettingStaff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SettingStaff
	for rows.Next() {
		var i SettingStaff
		if err := rows.Scan(&i.ID, &i.Name, &i.Position); err != nil {
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

const listSettingSuggesters = `-- name: ListSettingSuggesters :many
SELECT name, quota, position
FROM setting_suggesters
ORDER BY position
`

func (q *Queries) ListSettingSuggesters(ctx context.Context) ([]SettingSuggester, error) {
	rows, err := q.db.QueryContext(ctx, listSettingSuggesters)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SettingSuggester
	for rows.Next() {
		var i SettingSuggester
		if err := rows.Scan(&i.Name, &i.Quota, &i.Position); err != nil {
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
