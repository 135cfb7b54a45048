package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stsysd/tenderbook/model"
	"github.com/stsysd/tenderbook/store"
)

// CaseInput は標案の作成・更新内容です。
// OldName が空の場合は新規作成、それ以外は OldName の標案を更新します。
type CaseInput struct {
	OldName string
	Name    string
	Status  string
	Budget  int64
	Vendor  string

	// Costs が指定された場合、決標金額は内訳の合計で置き換えられる
	Costs *model.CostBreakdown
	Total int64
}

// CaseChange は標案の保存結果です。
type CaseChange struct {
	Case            *model.Case `json:"case"`
	Created         bool        `json:"created"`
	RelinkedLines   int         `json:"relinkedLines"`
	RenamedPayments int         `json:"renamedPayments"`
}

// SaveCase は標案を作成または更新します。名前が変わった場合は工程項目と請款に連鎖します。
func (e *Engine) SaveCase(ctx context.Context, in CaseInput) (*CaseChange, error) {
	// 入力の検証
	oldName := strings.TrimSpace(in.OldName)
	newName := strings.TrimSpace(in.Name)
	if newName == "" {
		newName = oldName
	}
	name, err := model.NewCaseName(newName)
	if err != nil {
		return nil, err
	}
	status, err := model.ParseCaseStatus(in.Status)
	if err != nil {
		return nil, err
	}

	c := &model.Case{
		Name:           name.String(),
		ProposedBudget: in.Budget,
		AwardedTotal:   in.Total,
		Status:         status,
		Vendor:         in.Vendor,
	}
	if in.Costs != nil {
		c.SetCosts(*in.Costs)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	change := &CaseChange{Case: c}
	rev, err := e.mutate(ctx, func(tx store.Store) error {
		if oldName == "" {
			change.Created = true
			return tx.CreateCase(ctx, c)
		}

		current, err := tx.GetCase(ctx, oldName)
		if err != nil {
			return err
		}
		// 状態の指定がない更新は現在の状態を保つ
		if strings.TrimSpace(in.Status) == "" {
			c.Status = current.Status
		}
		if c.Name != oldName {
			// 既存の別の標案への改名は衝突
			_, err := tx.GetCase(ctx, c.Name)
			if err == nil {
				return fmt.Errorf("case %q: %w", c.Name, model.ErrConflict)
			}
			if !errors.Is(err, model.ErrCaseNotFound) {
				return err
			}
		}

		if err := tx.UpdateCase(ctx, oldName, c); err != nil {
			return err
		}
		if c.Name == oldName {
			return nil
		}

		// 改名の連鎖
		if change.RelinkedLines, err = tx.RelinkCase(ctx, oldName, c.Name); err != nil {
			return err
		}
		if change.RenamedPayments, err = tx.RenamePaymentCase(ctx, oldName, c.Name); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("case saved",
		"oldName", oldName,
		"name", c.Name,
		"created", change.Created,
		"relinkedLines", change.RelinkedLines,
		"renamedPayments", change.RenamedPayments,
		"revision", rev)
	return change, nil
}

// CaseDeletion は標案削除の結果です。
type CaseDeletion struct {
	Name            string `json:"name"`
	UnlinkedLines   int    `json:"unlinkedLines"`
	DeletedPayments int    `json:"deletedPayments"`
}

// DeleteCase は標案を削除し、連結されていた工程項目を未分派に戻し、請款を削除します。
func (e *Engine) DeleteCase(ctx context.Context, name string) (*CaseDeletion, error) {
	if strings.TrimSpace(name) == "" {
		return nil, model.NewValidationError("case name is required")
	}

	del := &CaseDeletion{Name: name}
	rev, err := e.mutate(ctx, func(tx store.Store) error {
		if err := tx.DeleteCase(ctx, name); err != nil {
			return err
		}
		var err error
		if del.UnlinkedLines, err = tx.RelinkCase(ctx, name, model.Unassigned); err != nil {
			return err
		}
		if del.DeletedPayments, err = tx.DeletePaymentsByCase(ctx, name); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("case deleted",
		"name", name,
		"unlinkedLines", del.UnlinkedLines,
		"deletedPayments", del.DeletedPayments,
		"revision", rev)
	return del, nil
}
