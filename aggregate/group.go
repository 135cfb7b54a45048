// Package aggregate は、工程項目・標案・請款から派生ビューを計算する純粋関数を提供します。
// ストアへのアクセスは行いません。
package aggregate

import (
	"slices"

	"github.com/stsysd/tenderbook/model"
)

// Item は工程グループ内の科目ごとの金額です。
type Item struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

// ProjectGroup は同じ名前を持つ工程項目をまとめたビューです。
// 共有フィールドは最初に現れた行の値を採用します。
type ProjectGroup struct {
	Name          string   `json:"name"`
	Content       string   `json:"content"`
	Location      string   `json:"location"`
	ProposedBy    string   `json:"suggestBy"`
	AssignedStaff string   `json:"staff"`
	Status        string   `json:"status"` // 最初の行の連結先
	PhotoURLs     []string `json:"photoUrls"`
	Items         []Item   `json:"items"`
	Total         int64    `json:"total"`
}

// Groups は挿入順を保持した工程グループの集合です。
type Groups struct {
	Names  []string                 `json:"names"`
	ByName map[string]*ProjectGroup `json:"byName"`
}

// List は挿入順にグループを返します。
func (g *Groups) List() []*ProjectGroup {
	list := make([]*ProjectGroup, 0, len(g.Names))
	for _, name := range g.Names {
		list = append(list, g.ByName[name])
	}
	return list
}

// GroupProjects は工程項目を名前でグループ化します。
func GroupProjects(lines []*model.ProjectLine) *Groups {
	groups := &Groups{
		Names:  []string{},
		ByName: make(map[string]*ProjectGroup),
	}
	for _, line := range lines {
		g, ok := groups.ByName[line.Name]
		if !ok {
			photos := line.PhotoURLs
			if photos == nil {
				photos = []string{}
			}
			g = &ProjectGroup{
				Name:          line.Name,
				Content:       line.Content,
				Location:      line.Location,
				ProposedBy:    line.ProposedBy,
				AssignedStaff: line.AssignedStaff,
				Status:        line.CaseLink,
				PhotoURLs:     photos,
				Items:         []Item{},
			}
			groups.ByName[line.Name] = g
			groups.Names = append(groups.Names, line.Name)
		}
		g.Items = append(g.Items, Item{Category: line.Category, Amount: line.Amount})
		g.Total += line.Amount
	}
	return groups
}

// Divergence は同じグループ内で値が食い違っているフィールドを表します。
type Divergence struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

// Divergences は共有フィールドまたは連結先が食い違っているグループを挿入順に返します。
func Divergences(lines []*model.ProjectLine) []Divergence {
	first := make(map[string]*model.ProjectLine)
	fields := make(map[string][]string)
	var order []string
	for _, line := range lines {
		head, ok := first[line.Name]
		if !ok {
			first[line.Name] = line
			continue
		}
		diff := head.SharedFieldDiff(line)
		if head.CaseLink != line.CaseLink {
			diff = append(diff, "caseLink")
		}
		for _, f := range diff {
			if _, seen := fields[line.Name]; !seen {
				order = append(order, line.Name)
			}
			if !slices.Contains(fields[line.Name], f) {
				fields[line.Name] = append(fields[line.Name], f)
			}
		}
	}

	result := make([]Divergence, 0, len(order))
	for _, name := range order {
		result = append(result, Divergence{Name: name, Fields: fields[name]})
	}
	return result
}

// LinkedProjects は指定された標案に連結されている工程項目を返します。
func LinkedProjects(caseName string, lines []*model.ProjectLine) []*model.ProjectLine {
	var linked []*model.ProjectLine
	for _, line := range lines {
		if line.CaseLink == caseName {
			linked = append(linked, line)
		}
	}
	return linked
}

// UnassignedProjects はどの標案にも連結されていない工程項目を返します。
func UnassignedProjects(lines []*model.ProjectLine) []*model.ProjectLine {
	unassigned := []*model.ProjectLine{}
	for _, line := range lines {
		if !line.IsAssigned() {
			unassigned = append(unassigned, line)
		}
	}
	return unassigned
}
