package aggregate

import (
	"github.com/stsysd/tenderbook/model"
)

// Progress は標案の請款進捗です。
type Progress struct {
	Paid           int64   `json:"paid"`
	Remaining      int64   `json:"remaining"`
	Percent        float64 `json:"percent"`        // 100を超えることがある
	DisplayPercent float64 `json:"displayPercent"` // 0から100に丸めた値
	Overpaid       bool    `json:"overpaid"`
}

// PaymentProgress は指定された標案の請款合計と決標金額に対する割合を計算します。
// 決標金額が0以下の場合、割合は0です。
func PaymentProgress(caseName string, payments []*model.Payment, c *model.Case) Progress {
	var paid int64
	for _, p := range payments {
		if p.CaseName == caseName {
			paid += p.Amount
		}
	}

	var total int64
	if c != nil {
		total = c.AwardedTotal
	}

	pr := Progress{
		Paid:      paid,
		Remaining: total - paid,
		Overpaid:  paid > total,
	}
	if total > 0 {
		pr.Percent = float64(paid) / float64(total) * 100
	}
	pr.DisplayPercent = min(max(pr.Percent, 0), 100)
	return pr
}

// CaseSummary は標案ごとの連結工程と請款進捗をまとめたものです。
type CaseSummary struct {
	Case     *model.Case          `json:"case"`
	Linked   []*model.ProjectLine `json:"linked"`
	Progress Progress             `json:"progress"`
}

// SummarizeCases は標案の順序どおりに要約を返します。
func SummarizeCases(cases []*model.Case, lines []*model.ProjectLine, payments []*model.Payment) []CaseSummary {
	summaries := make([]CaseSummary, 0, len(cases))
	for _, c := range cases {
		linked := LinkedProjects(c.Name, lines)
		if linked == nil {
			linked = []*model.ProjectLine{}
		}
		summaries = append(summaries, CaseSummary{
			Case:     c,
			Linked:   linked,
			Progress: PaymentProgress(c.Name, payments, c),
		})
	}
	return summaries
}
