package aggregate

import (
	"github.com/stsysd/tenderbook/model"
)

// Usage は上限額と使用済み金額の組です。Used は Total を超えることがあります。
type Usage struct {
	Total int64 `json:"total"`
	Used  int64 `json:"used"`
}

// Remaining は残額を返します。超過している場合は負の値になります。
func (u Usage) Remaining() int64 {
	return u.Total - u.Used
}

// OverBudget は使用済み金額が上限を超えているかどうかを返します。
func (u Usage) OverBudget() bool {
	return u.Used > u.Total
}

// Orphans は設定に存在しない科目・建議人に計上された金額です。
type Orphans struct {
	Categories map[string]int64 `json:"categories"`
	Suggesters map[string]int64 `json:"suggesters"`
}

// Analysis は科目別・建議人別の予算使用状況です。
type Analysis struct {
	Categories map[string]Usage `json:"categories"`
	Suggesters map[string]Usage `json:"suggesters"`
	Orphans    Orphans          `json:"orphans"`
}

// ComputeAnalysis は設定のすべてのキーについて使用状況を計算します。
// 工程項目が存在しないキーの使用額は0です。
func ComputeAnalysis(lines []*model.ProjectLine, settings *model.Settings) Analysis {
	a := Analysis{
		Categories: make(map[string]Usage, len(settings.Categories)),
		Suggesters: make(map[string]Usage, len(settings.Suggesters)),
		Orphans: Orphans{
			Categories: map[string]int64{},
			Suggesters: map[string]int64{},
		},
	}
	for name, total := range settings.Categories {
		a.Categories[name] = Usage{Total: total}
	}
	for name, quota := range settings.Suggesters {
		a.Suggesters[name] = Usage{Total: quota}
	}

	for _, line := range lines {
		if u, ok := a.Categories[line.Category]; ok {
			u.Used += line.Amount
			a.Categories[line.Category] = u
		} else {
			a.Orphans.Categories[line.Category] += line.Amount
		}

		// 建議人が未入力の行は集計対象外
		if line.ProposedBy == "" {
			continue
		}
		if u, ok := a.Suggesters[line.ProposedBy]; ok {
			u.Used += line.Amount
			a.Suggesters[line.ProposedBy] = u
		} else {
			a.Orphans.Suggesters[line.ProposedBy] += line.Amount
		}
	}
	return a
}
