// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import "fmt"

// CaseStatus は標案の進行状態です。
type CaseStatus string

// 標案の進行状態
const (
	StatusBidding    CaseStatus = "招標中"
	StatusInProgress CaseStatus = "執行中"
	StatusClosed     CaseStatus = "已結案"
)

// ParseCaseStatus は文字列をCaseStatusに変換します。空文字列は招標中として扱います。
func ParseCaseStatus(s string) (CaseStatus, error) {
	switch CaseStatus(s) {
	case "":
		return StatusBidding, nil
	case StatusBidding, StatusInProgress, StatusClosed:
		return CaseStatus(s), nil
	}
	return "", NewValidationError(fmt.Sprintf("invalid case status: %q", s))
}

// CostBreakdown は決標金額の内訳です。
type CostBreakdown struct {
	Construction     int64 `json:"constCost"`     // 工程費
	PollutionControl int64 `json:"pollutionCost"` // 空污費
	Management       int64 `json:"mgmtCost"`      // 管理費
	Misc             int64 `json:"customCost"`    // 其他費用
}

// Sum は内訳の合計を返します。
func (c CostBreakdown) Sum() int64 {
	return c.Construction + c.PollutionControl + c.Management + c.Misc
}

// Case は標案（調達案件）を表すモデルです。
type Case struct {
	Name           string         `json:"name"`
	ProposedBudget int64          `json:"budget"`
	AwardedTotal   int64          `json:"awardedTotal"`
	Status         CaseStatus     `json:"status"`
	Vendor         string         `json:"vendor"`
	Costs          *CostBreakdown `json:"costs,omitempty"`
}

// NewCase は招標中の新しい標案を作成します。
func NewCase(name string, proposedBudget int64) (*Case, error) {
	c := &Case{
		Name:           name,
		ProposedBudget: proposedBudget,
		Status:         StatusBidding,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// SetCosts は内訳を設定し、決標金額を内訳の合計で置き換えます。
func (c *Case) SetCosts(costs CostBreakdown) {
	c.Costs = &costs
	c.AwardedTotal = costs.Sum()
}

// Validate は標案のデータバリデーションを行います。
func (c *Case) Validate() error {
	if c.Name == "" {
		return NewValidationError("case name is required")
	}
	if c.Name == Unassigned {
		return NewValidationError(fmt.Sprintf("case name %q is reserved", Unassigned))
	}
	if _, err := ParseCaseStatus(string(c.Status)); err != nil {
		return err
	}
	if c.ProposedBudget < 0 || c.AwardedTotal < 0 {
		return NewValidationError("budget amounts must not be negative")
	}
	if c.Costs != nil {
		costs := c.Costs
		if costs.Construction < 0 || costs.PollutionControl < 0 || costs.Management < 0 || costs.Misc < 0 {
			return NewValidationError("cost components must not be negative")
		}
		if costs.Sum() != c.AwardedTotal {
			return NewValidationError(fmt.Sprintf("awarded total %d does not match cost breakdown %d", c.AwardedTotal, costs.Sum()))
		}
	}
	return nil
}
