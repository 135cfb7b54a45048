package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/stsysd/tenderbook/model"
	"github.com/stsysd/tenderbook/store"
)

// PaymentInput は請款の登録・更新内容です。ID が空の場合は新しいIDが発行されます。
type PaymentInput struct {
	ID       string
	CaseName string
	Stage    string
	Amount   int64
	Date     string
	Invoice  string
}

// SavePayment は請款をIDで登録または更新します。対象の標案が存在する必要があります。
func (e *Engine) SavePayment(ctx context.Context, in PaymentInput) (*model.Payment, error) {
	// 入力の検証
	id, err := model.NewPaymentID(strings.TrimSpace(in.ID))
	if err != nil {
		return nil, err
	}
	date, err := model.NewPaymentDate(strings.TrimSpace(in.Date))
	if err != nil {
		return nil, err
	}
	p, err := model.NewPayment(id.String(), strings.TrimSpace(in.CaseName), in.Stage, in.Amount, date.String(), in.Invoice)
	if err != nil {
		return nil, err
	}

	created := false
	rev, err := e.mutate(ctx, func(tx store.Store) error {
		if _, err := tx.GetCase(ctx, p.CaseName); err != nil {
			return err
		}
		_, err := tx.GetPayment(ctx, p.ID)
		if errors.Is(err, model.ErrPaymentNotFound) {
			created = true
			return tx.CreatePayment(ctx, p)
		}
		if err != nil {
			return err
		}
		return tx.UpdatePayment(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("payment saved",
		"id", p.ID,
		"case", p.CaseName,
		"amount", p.Amount,
		"created", created,
		"revision", rev)
	return p, nil
}

// DeletePayment は請款を削除します。
func (e *Engine) DeletePayment(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return model.NewValidationError("payment id is required")
	}
	rev, err := e.mutate(ctx, func(tx store.Store) error {
		return tx.DeletePayment(ctx, id)
	})
	if err != nil {
		return err
	}

	e.logger.Info("payment deleted", "id", id, "revision", rev)
	return nil
}
