package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stsysd/tenderbook/model"
)

func line(name, category string, amount int64, link string) *model.ProjectLine {
	return &model.ProjectLine{
		Name:      name,
		Category:  category,
		Amount:    amount,
		CaseLink:  link,
		PhotoURLs: []string{},
	}
}

func TestGroupProjects(t *testing.T) {
	a1 := line("Road Repair", "Roads", 50000, model.Unassigned)
	a1.Location = "North"
	a1.PhotoURLs = []string{"/photos/p1"}
	a2 := line("Road Repair", "Drainage", 20000, "Case 1")
	a2.Location = "South"
	b := line("Park", "Roads", 1000, model.Unassigned)

	groups := GroupProjects([]*model.ProjectLine{a1, b, a2})

	assert.Equal(t, []string{"Road Repair", "Park"}, groups.Names)
	require.Contains(t, groups.ByName, "Road Repair")

	g := groups.ByName["Road Repair"]
	assert.Equal(t, int64(70000), g.Total)
	assert.Equal(t, []Item{{"Roads", 50000}, {"Drainage", 20000}}, g.Items)
	// 共有フィールドは最初の行の値
	assert.Equal(t, "North", g.Location)
	assert.Equal(t, model.Unassigned, g.Status)
	assert.Equal(t, []string{"/photos/p1"}, g.PhotoURLs)

	list := groups.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Park", list[1].Name)
	assert.Len(t, list[1].Items, 1)
}

func TestGroupProjectsEmpty(t *testing.T) {
	groups := GroupProjects(nil)
	assert.Empty(t, groups.Names)
	assert.Empty(t, groups.ByName)
}

func TestDivergences(t *testing.T) {
	a1 := line("A", "Roads", 1, model.Unassigned)
	a1.Location = "North"
	a2 := line("A", "Drainage", 1, "Case 1")
	a2.Location = "South"
	a3 := line("A", "Lighting", 1, model.Unassigned)
	a3.Location = "East"
	b1 := line("B", "Roads", 1, model.Unassigned)
	b2 := line("B", "Drainage", 1, model.Unassigned)

	got := Divergences([]*model.ProjectLine{a1, b1, a2, b2, a3})

	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, []string{"location", "caseLink"}, got[0].Fields)
}

func TestLinkedAndUnassignedProjects(t *testing.T) {
	lines := []*model.ProjectLine{
		line("A", "Roads", 1, "Case 1"),
		line("B", "Roads", 1, model.Unassigned),
		line("C", "Roads", 1, "Case 10"),
	}

	linked := LinkedProjects("Case 1", lines)
	require.Len(t, linked, 1)
	assert.Equal(t, "A", linked[0].Name)

	unassigned := UnassignedProjects(lines)
	require.Len(t, unassigned, 1)
	assert.Equal(t, "B", unassigned[0].Name)
}

func TestComputeAnalysis(t *testing.T) {
	settings := model.NewSettings()
	settings.Categories["Roads"] = 100000
	settings.Categories["Lighting"] = 30000
	settings.Suggesters["Alice"] = 150000

	l1 := line("A", "Roads", 70000, model.Unassigned)
	l1.ProposedBy = "Alice"
	l2 := line("B", "Roads", 50000, model.Unassigned)
	l2.ProposedBy = "Bob"
	l3 := line("C", "Retired", 5000, model.Unassigned)

	a := ComputeAnalysis([]*model.ProjectLine{l1, l2, l3}, settings)

	tests := []struct {
		description string
		got         Usage
		want        Usage
	}{
		{"上限を超過した科目", a.Categories["Roads"], Usage{Total: 100000, Used: 120000}},
		{"工程のない科目は使用額0", a.Categories["Lighting"], Usage{Total: 30000, Used: 0}},
		{"建議人の使用額", a.Suggesters["Alice"], Usage{Total: 150000, Used: 70000}},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}

	assert.True(t, a.Categories["Roads"].OverBudget())
	assert.Equal(t, int64(-20000), a.Categories["Roads"].Remaining())
	assert.Len(t, a.Categories, 2)
	assert.Len(t, a.Suggesters, 1)

	// 設定にないキーは別枠で報告される
	assert.Equal(t, map[string]int64{"Retired": 5000}, a.Orphans.Categories)
	assert.Equal(t, map[string]int64{"Bob": 50000}, a.Orphans.Suggesters)
}

func TestPaymentProgress(t *testing.T) {
	c := &model.Case{Name: "Case 1", AwardedTotal: 10000, Status: model.StatusInProgress}

	tests := []struct {
		description string
		payments    []*model.Payment
		c           *model.Case
		want        Progress
	}{
		{
			description: "一部支払い",
			payments: []*model.Payment{
				{CaseName: "Case 1", Amount: 3000},
				{CaseName: "Case 1", Amount: 4000},
				{CaseName: "Case 2", Amount: 9999},
			},
			c:    c,
			want: Progress{Paid: 7000, Remaining: 3000, Percent: 70, DisplayPercent: 70},
		},
		{
			description: "超過支払い",
			payments: []*model.Payment{
				{CaseName: "Case 1", Amount: 12000},
			},
			c:    c,
			want: Progress{Paid: 12000, Remaining: -2000, Percent: 120, DisplayPercent: 100, Overpaid: true},
		},
		{
			description: "決標金額0",
			payments:    nil,
			c:           &model.Case{Name: "Case 1"},
			want:        Progress{},
		},
		{
			description: "決標金額0で支払いあり",
			payments:    []*model.Payment{{CaseName: "Case 1", Amount: 500}},
			c:           &model.Case{Name: "Case 1"},
			want:        Progress{Paid: 500, Remaining: -500, Overpaid: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.want, PaymentProgress("Case 1", tt.payments, tt.c))
		})
	}
}

func TestSummarizeCases(t *testing.T) {
	cases := []*model.Case{
		{Name: "Case 1", AwardedTotal: 10000},
		{Name: "Case 2"},
	}
	lines := []*model.ProjectLine{
		line("A", "Roads", 1, "Case 1"),
		line("A", "Drainage", 1, "Case 1"),
	}
	payments := []*model.Payment{{CaseName: "Case 1", Amount: 2500}}

	summaries := SummarizeCases(cases, lines, payments)

	require.Len(t, summaries, 2)
	assert.Equal(t, "Case 1", summaries[0].Case.Name)
	assert.Len(t, summaries[0].Linked, 2)
	assert.Equal(t, 25.0, summaries[0].Progress.Percent)
	assert.NotNil(t, summaries[1].Linked)
	assert.Empty(t, summaries[1].Linked)
}
