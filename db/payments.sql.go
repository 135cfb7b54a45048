// source: payments.sql

package db

import (
	"context"
	"database/sql"
)

const createPayment = `-- name: CreatePayment :exec
INSERT INTO payments (id, case_name, stage, amount, paid_on, invoice)
VALUES (?, ?, ?, ?, ?, ?)
`

type CreatePaymentParams struct {
	ID       string
	CaseName string
	Stage    string
	Amount   int64
	PaidOn   string
	Invoice  string
}

func (q *Queries) CreatePayment(ctx context.Context, arg CreatePaymentParams) error {
	_, err := q.db.ExecContext(ctx, createPayment,
		arg.ID,
		arg.CaseName,
		arg.Stage,
		arg.Amount,
		arg.PaidOn,
		arg.Invoice,
	)
	return err
}

const deletePayment = `-- name: DeletePayment :execresult
DELETE FROM payments
WHERE id = ?
`

func (q *Queries) DeletePayment(ctx context.Context, id string) (sql.Result, error) {
	return q.db.ExecContext(ctx, deletePayment, id)
}

const deletePaymentsByCase = `-- name: DeletePaymentsByCase :execresult
DELETE FROM payments
WHERE case_name = ?
`

func (q *Queries) DeletePaymentsByCase(ctx context.Context, caseName string) (sql.Result, error) {
	return q.db.ExecContext(ctx, deletePaymentsByCase, caseName)
}

const getPayment = `-- name: GetPayment :one
SELECT seq, id, case_name, stage, amount, paid_on, invoice
FROM payments
WHERE id = ?
`

func (q *Queries) GetPayment(ctx context.Context, id string) (Payment, error) {
	row := q.db.QueryRowContext(ctx, getPayment, id)
	var i Payment
	err := row.Scan(
		&i.Seq,
		&i.ID,
		&i.CaseName,
		&i.Stage,
		&i.Amount,
		&i.PaidOn,
		&i.Invoice,
	)
	return i, err
}

const listPayments = `-- name: ListPayments :many
SELECT seq, id, case_name, stage, amount, paid_on, invoice
FROM payments
ORDER BY seq
`

func (q *Queries) ListPayments(ctx context.Context) ([]Payment, error) {
	rows, err := q.db.QueryContext(ctx, listPayments)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Payment
	for rows.Next() {
		var i Payment
		if err := rows.Scan(
			&i.Seq,
			&i.ID,
			&i.CaseName,
			&i.Stage,
			&i.Amount,
			&i.PaidOn,
			&i.Invoice,
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

const renamePaymentCase = `-- name: RenamePaymentCase :execresult
UPDATE payments
SET case_name = ?
WHERE case_name = ?
`

type RenamePaymentCaseParams struct {
	ToCase   string
	FromCase string
}

func (q *Queries) RenamePaymentCase(ctx context.Context, arg RenamePaymentCaseParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, renamePaymentCase, arg.ToCase, arg.FromCase)
}

const updatePayment = `-- name: UpdatePayment :execresult
UPDATE payments
SET case_name = ?,
    stage = ?,
    amount = ?,
    paid_on = ?,
    invoice = ?
WHERE id = ?
`

type UpdatePaymentParams struct {
	CaseName string
	Stage    string
	Amount   int64
	PaidOn   string
	Invoice  string
	ID       string
}

func (q *Queries) UpdatePayment(ctx context.Context, arg UpdatePaymentParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, updatePayment,
		arg.CaseName,
		arg.Stage,
		arg.Amount,
		arg.PaidOn,
		arg.Invoice,
		arg.ID,
	)
}
