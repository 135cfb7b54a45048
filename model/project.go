// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import "fmt"

// Unassigned はどの標案にも連結されていない工程項目のステータス値です。
const Unassigned = "未分派"

// ProjectLine は工程名と予算科目の組み合わせ1件を表すモデルです。
// 同じ名前を持つ複数の行がひとつの工程を構成します。
type ProjectLine struct {
	Name          string   `json:"name"`      // 工程名（グループキー、一意ではない）
	Content       string   `json:"content"`   // 工程内容
	Location      string   `json:"location"`  // 施工地點
	ProposedBy    string   `json:"suggestBy"` // 建議人
	AssignedStaff string   `json:"staff"`     // 承辦人
	Amount        int64    `json:"amount"`    // 金額
	Category      string   `json:"category"`  // 予算科目
	CaseLink      string   `json:"caseLink"`  // 連結先の標案名、または未分派
	PhotoURLs     []string `json:"photoUrls"` // 写真URL
}

// NewProjectLine は新しいProjectLineインスタンスを作成します。
// 作成直後はどの標案にも連結されていません。
func NewProjectLine(name, category string, amount int64) (*ProjectLine, error) {
	p := &ProjectLine{
		Name:      name,
		Category:  category,
		Amount:    amount,
		CaseLink:  Unassigned,
		PhotoURLs: []string{},
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate は工程項目のデータバリデーションを行います。
func (p *ProjectLine) Validate() error {
	if p.Name == "" {
		return NewValidationError("project name is required")
	}
	if p.Category == "" {
		return NewValidationError("category is required")
	}
	if p.Amount < 0 {
		return NewValidationError(fmt.Sprintf("amount must not be negative: %d", p.Amount))
	}
	if p.CaseLink == "" {
		return NewValidationError("case link is required")
	}
	return nil
}

// IsAssigned は標案に連結済みかどうかを返します。
func (p *ProjectLine) IsAssigned() bool {
	return p.CaseLink != Unassigned
}

// SharedFieldDiff はグループ内で共有されるべきフィールドのうち、oと異なるものの名前を返します。
func (p *ProjectLine) SharedFieldDiff(o *ProjectLine) []string {
	var diff []string
	if p.Content != o.Content {
		diff = append(diff, "content")
	}
	if p.Location != o.Location {
		diff = append(diff, "location")
	}
	if p.ProposedBy != o.ProposedBy {
		diff = append(diff, "suggestBy")
	}
	if p.AssignedStaff != o.AssignedStaff {
		diff = append(diff, "staff")
	}
	return diff
}
