// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import (
	"fmt"
	"time"
)

// DateLayout は請款日の書式です。
const DateLayout = "2006-01-02"

// Payment は標案に対する請款（支払い）1件を表すモデルです。
type Payment struct {
	ID       string `json:"id"`
	CaseName string `json:"caseName"` // 標案名
	Stage    string `json:"stage"`    // 期別
	Amount   int64  `json:"amount"`   // 請款金額
	Date     string `json:"date"`     // 請款日 (YYYY-MM-DD)
	Invoice  string `json:"invoice"`  // 發票/備註
}

// NewPayment はPaymentの新しいインスタンスを作成します。
func NewPayment(id, caseName, stage string, amount int64, date, invoice string) (*Payment, error) {
	p := &Payment{
		ID:       id,
		CaseName: caseName,
		Stage:    stage,
		Amount:   amount,
		Date:     date,
		Invoice:  invoice,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate は請款のデータバリデーションを行います。
func (p *Payment) Validate() error {
	if p.ID == "" {
		return NewValidationError("payment id is required")
	}
	if p.CaseName == "" {
		return NewValidationError("case name is required")
	}
	if p.Stage == "" {
		return NewValidationError("stage is required")
	}
	if p.Amount < 0 {
		return NewValidationError(fmt.Sprintf("amount must not be negative: %d", p.Amount))
	}
	// 日付の検証
	if _, err := time.Parse(DateLayout, p.Date); err != nil {
		return NewValidationError("date must be in YYYY-MM-DD format")
	}
	return nil
}
