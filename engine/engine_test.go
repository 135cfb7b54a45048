package engine

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stsysd/tenderbook/db"
	"github.com/stsysd/tenderbook/model"
	"github.com/stsysd/tenderbook/store"
)

func setupEngine(t *testing.T, opts ...Option) (*Engine, *store.SQLiteStore) {
	t.Helper()
	st, err := store.NewSQLiteStore(t.TempDir(), db.Migrate)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	e := New(st, opts...)

	// 基本の設定
	settings := model.NewSettings()
	settings.Categories["Roads"] = 100000
	settings.Categories["Drainage"] = 50000
	settings.Categories["Lighting"] = 30000
	settings.Suggesters["Alice"] = 150000
	settings.AddStaff("Wang")
	require.NoError(t, e.SaveSettings(context.Background(), settings))
	return e, st
}

func roadRepair(autoCase bool) Submission {
	return Submission{
		Name:       "Road Repair",
		Location:   "North",
		Content:    "Resurface",
		ProposedBy: "Alice",
		Items: []SubmissionItem{
			{Category: "Roads", Amount: 50000},
			{Category: "Drainage", Amount: 20000},
		},
		AutoCase: autoCase,
	}
}

func TestSubmitProjectWithAutoCase(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()

	res, err := e.SubmitProject(ctx, roadRepair(true))
	require.NoError(t, err)
	require.Len(t, res.Lines, 2)
	require.NotNil(t, res.Case)

	view, err := e.ReadAll(ctx)
	require.NoError(t, err)

	// 工程名と同名の標案が提案予算=合計で作成される
	require.Len(t, view.Cases, 1)
	c := view.Cases[0]
	assert.Equal(t, "Road Repair", c.Name)
	assert.Equal(t, int64(70000), c.ProposedBudget)
	assert.Equal(t, model.StatusBidding, c.Status)
	assert.Equal(t, int64(0), c.AwardedTotal)

	// すべての行が連結される
	for _, line := range view.Projects {
		assert.Equal(t, "Road Repair", line.CaseLink)
	}

	// グループと分析
	require.Len(t, view.Groups, 1)
	assert.Equal(t, int64(70000), view.Groups[0].Total)
	assert.Len(t, view.Groups[0].Items, 2)
	assert.Equal(t, "Road Repair", view.Groups[0].Status)
	assert.Equal(t, int64(50000), view.Analysis.Categories["Roads"].Used)
	assert.Equal(t, int64(20000), view.Analysis.Categories["Drainage"].Used)
	assert.Equal(t, int64(0), view.Analysis.Categories["Lighting"].Used)
	assert.Equal(t, int64(70000), view.Analysis.Suggesters["Alice"].Used)

	require.Len(t, view.CaseSummaries, 1)
	assert.Len(t, view.CaseSummaries[0].Linked, 2)
	assert.Empty(t, view.Divergences)
}

func TestSubmitProjectAutoCaseExisting(t *testing.T) {
	e, st := setupEngine(t)
	ctx := context.Background()

	_, err := e.SubmitProject(ctx, roadRepair(true))
	require.NoError(t, err)

	// 既存の標案には予算が加算される
	more := Submission{
		Name:       "Road Repair",
		Location:   "North",
		Content:    "Resurface",
		ProposedBy: "Alice",
		Items:      []SubmissionItem{{Category: "Lighting", Amount: 5000}},
		AutoCase:   true,
	}
	res, err := e.SubmitProject(ctx, more)
	require.NoError(t, err)
	assert.Equal(t, int64(75000), res.Case.ProposedBudget)

	c, err := st.GetCase(ctx, "Road Repair")
	require.NoError(t, err)
	assert.Equal(t, int64(75000), c.ProposedBudget)

	line, err := st.GetProjectLine(ctx, "Road Repair", "Lighting")
	require.NoError(t, err)
	assert.Equal(t, "Road Repair", line.CaseLink)
}

func TestSubmitProjectValidation(t *testing.T) {
	e, st := setupEngine(t)
	ctx := context.Background()

	_, err := e.SubmitProject(ctx, roadRepair(false))
	require.NoError(t, err)

	tests := []struct {
		description string
		sub         Submission
		check       func(error) bool
	}{
		{
			description: "工程名なし",
			sub:         Submission{Items: []SubmissionItem{{Category: "Roads", Amount: 1}}},
			check:       model.IsValidationError,
		},
		{
			description: "科目なし",
			sub:         Submission{Name: "Park"},
			check:       model.IsValidationError,
		},
		{
			description: "未登録の科目",
			sub:         Submission{Name: "Park", Items: []SubmissionItem{{Category: "Unknown", Amount: 1}}},
			check:       model.IsValidationError,
		},
		{
			description: "同じ科目の重複",
			sub: Submission{Name: "Park", Items: []SubmissionItem{
				{Category: "Roads", Amount: 1},
				{Category: "Roads", Amount: 2},
			}},
			check: model.IsValidationError,
		},
		{
			description: "既存の工程と科目が衝突",
			sub: Submission{Name: "Road Repair", Items: []SubmissionItem{
				{Category: "Lighting", Amount: 1},
				{Category: "Roads", Amount: 1},
			}},
			check: func(err error) bool { return errors.Is(err, model.ErrConflict) },
		},
		{
			description: "未分派という名前の標案は作れない",
			sub:         Submission{Name: model.Unassigned, Items: []SubmissionItem{{Category: "Roads", Amount: 1}}, AutoCase: true},
			check:       model.IsValidationError,
		},
		{
			description: "不正な写真",
			sub: Submission{Name: "Park", Items: []SubmissionItem{{Category: "Roads", Amount: 1}},
				Photos: []PhotoUpload{{Data: "!!!"}}},
			check: model.IsValidationError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			_, err := e.SubmitProject(ctx, tt.sub)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
		})
	}

	// 失敗した登録は何も残さない
	lines, err := st.ListProjectLines(ctx)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestSubmitProjectPhotos(t *testing.T) {
	e, _ := setupEngine(t, WithPhotoURLPrefix("https://example.test/"))
	ctx := context.Background()

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	sub := roadRepair(false)
	sub.Photos = []PhotoUpload{
		{Data: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)},
		{Data: base64.StdEncoding.EncodeToString(jpeg), MIMEType: "image/jpeg"},
	}

	res, err := e.SubmitProject(ctx, sub)
	require.NoError(t, err)
	require.Len(t, res.PhotoURLs, 2)
	assert.Regexp(t, `^https://example\.test/photos/[0-9a-f-]{36}$`, res.PhotoURLs[0])

	// 写真は最初の科目行にのみ付与される
	assert.Equal(t, res.PhotoURLs, res.Lines[0].PhotoURLs)
	assert.Empty(t, res.Lines[1].PhotoURLs)

	id := res.PhotoURLs[0][len("https://example.test/photos/"):]
	photo, err := e.Photo(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "image/png", photo.MIMEType)
	assert.Equal(t, png, photo.Data)
}

func TestStrictGrouping(t *testing.T) {
	e, _ := setupEngine(t, WithStrictGrouping(true))
	ctx := context.Background()

	_, err := e.SubmitProject(ctx, roadRepair(false))
	require.NoError(t, err)

	// 共有フィールドが異なる追加登録は拒否される
	sub := Submission{
		Name:     "Road Repair",
		Location: "South",
		Items:    []SubmissionItem{{Category: "Lighting", Amount: 1}},
	}
	_, err = e.SubmitProject(ctx, sub)
	assert.True(t, model.IsValidationError(err), "unexpected error: %v", err)

	// 一致していれば受け付ける
	sub.Location = "North"
	sub.Content = "Resurface"
	sub.ProposedBy = "Alice"
	_, err = e.SubmitProject(ctx, sub)
	require.NoError(t, err)

	// 1行だけ共有フィールドを変える編集は拒否される
	_, err = e.UpdateProject(ctx, "Road Repair", "Roads", ProjectPatch{
		Name: "Road Repair", Category: "Roads", Amount: 1, Location: "Elsewhere",
		Content: "Resurface", ProposedBy: "Alice",
	})
	assert.True(t, model.IsValidationError(err), "unexpected error: %v", err)
}

func TestLenientGroupingReportsDivergence(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()

	_, err := e.SubmitProject(ctx, roadRepair(false))
	require.NoError(t, err)
	_, err = e.SubmitProject(ctx, Submission{
		Name:     "Road Repair",
		Location: "South",
		Items:    []SubmissionItem{{Category: "Lighting", Amount: 1}},
	})
	require.NoError(t, err)

	view, err := e.ReadAll(ctx)
	require.NoError(t, err)
	// 最初の行が優先される
	assert.Equal(t, "North", view.Groups[0].Location)
	require.Len(t, view.Divergences, 1)
	assert.Equal(t, "Road Repair", view.Divergences[0].Name)
	assert.Contains(t, view.Divergences[0].Fields, "location")
}

func TestUpdateProject(t *testing.T) {
	e, st := setupEngine(t)
	ctx := context.Background()

	_, err := e.SubmitProject(ctx, roadRepair(true))
	require.NoError(t, err)

	updated, err := e.UpdateProject(ctx, "Road Repair", "Drainage", ProjectPatch{
		Name:       "Road Repair",
		Category:   "Lighting",
		Amount:     25000,
		Location:   "North",
		Content:    "Resurface",
		ProposedBy: "Alice",
	})
	require.NoError(t, err)
	// 連結先は保持される
	assert.Equal(t, "Road Repair", updated.CaseLink)

	_, err = st.GetProjectLine(ctx, "Road Repair", "Drainage")
	assert.ErrorIs(t, err, model.ErrProjectNotFound)
	line, err := st.GetProjectLine(ctx, "Road Repair", "Lighting")
	require.NoError(t, err)
	assert.Equal(t, int64(25000), line.Amount)

	// 既存の行と衝突
	_, err = e.UpdateProject(ctx, "Road Repair", "Lighting", ProjectPatch{Name: "Road Repair", Category: "Roads"})
	assert.ErrorIs(t, err, model.ErrConflict)

	// 存在しない行
	_, err = e.UpdateProject(ctx, "Nothing", "Roads", ProjectPatch{Name: "Nothing", Category: "Roads"})
	assert.ErrorIs(t, err, model.ErrProjectNotFound)

	// 未登録の科目
	_, err = e.UpdateProject(ctx, "Road Repair", "Roads", ProjectPatch{Name: "Road Repair", Category: "Unknown"})
	assert.True(t, model.IsValidationError(err))
}

func TestDeleteProjectLeavesCase(t *testing.T) {
	e, st := setupEngine(t)
	ctx := context.Background()

	_, err := e.SubmitProject(ctx, roadRepair(true))
	require.NoError(t, err)

	n, err := e.DeleteProject(ctx, "Road Repair")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	lines, err := st.ListProjectLines(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)

	_, err = st.GetCase(ctx, "Road Repair")
	assert.NoError(t, err)

	_, err = e.DeleteProject(ctx, "Road Repair")
	assert.ErrorIs(t, err, model.ErrProjectNotFound)
}

func TestAssignProjectIsIdempotent(t *testing.T) {
	e, st := setupEngine(t)
	ctx := context.Background()

	_, err := e.SubmitProject(ctx, roadRepair(false))
	require.NoError(t, err)
	_, err = e.SaveCase(ctx, CaseInput{Name: "Case 1"})
	require.NoError(t, err)

	for range 2 {
		n, err := e.AssignProject(ctx, "Road Repair", "Case 1")
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	}
	lines, err := st.ListProjectLinesByName(ctx, "Road Repair")
	require.NoError(t, err)
	for _, line := range lines {
		assert.Equal(t, "Case 1", line.CaseLink)
	}

	// 連結の解除
	_, err = e.AssignProject(ctx, "Road Repair", model.Unassigned)
	require.NoError(t, err)
	line, _ := st.GetProjectLine(ctx, "Road Repair", "Roads")
	assert.Equal(t, model.Unassigned, line.CaseLink)

	// 存在しない標案と工程
	_, err = e.AssignProject(ctx, "Road Repair", "Nowhere")
	assert.ErrorIs(t, err, model.ErrCaseNotFound)
	_, err = e.AssignProject(ctx, "Nothing", "Case 1")
	assert.ErrorIs(t, err, model.ErrProjectNotFound)
}

func TestAssignProjectsJoinsErrors(t *testing.T) {
	e, st := setupEngine(t)
	ctx := context.Background()

	_, err := e.SubmitProject(ctx, roadRepair(false))
	require.NoError(t, err)
	_, err = e.SubmitProject(ctx, Submission{Name: "Park", Items: []SubmissionItem{{Category: "Roads", Amount: 1}}})
	require.NoError(t, err)
	_, err = e.SaveCase(ctx, CaseInput{Name: "Case 1"})
	require.NoError(t, err)

	err = e.AssignProjects(ctx, []string{"Road Repair", "Missing", "Park"}, "Case 1")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrProjectNotFound)
	assert.Contains(t, err.Error(), "Missing")

	// 失敗した工程以外は連結される
	line, _ := st.GetProjectLine(ctx, "Park", "Roads")
	assert.Equal(t, "Case 1", line.CaseLink)
}

func TestSaveCaseRenameCascade(t *testing.T) {
	e, st := setupEngine(t)
	ctx := context.Background()

	_, err := e.SubmitProject(ctx, roadRepair(true))
	require.NoError(t, err)
	_, err = e.SavePayment(ctx, PaymentInput{CaseName: "Road Repair", Stage: "1st", Amount: 100, Date: "2024-03-01"})
	require.NoError(t, err)

	change, err := e.SaveCase(ctx, CaseInput{
		OldName: "Road Repair",
		Name:    "North Road Works",
		Status:  string(model.StatusInProgress),
		Budget:  70000,
		Vendor:  "ACME",
		Costs:   &model.CostBreakdown{Construction: 9000, PollutionControl: 500, Management: 300, Misc: 200},
	})
	require.NoError(t, err)
	assert.False(t, change.Created)
	assert.Equal(t, 2, change.RelinkedLines)
	assert.Equal(t, 1, change.RenamedPayments)
	// 決標金額は内訳の合計
	assert.Equal(t, int64(10000), change.Case.AwardedTotal)

	_, err = st.GetCase(ctx, "Road Repair")
	assert.ErrorIs(t, err, model.ErrCaseNotFound)
	lines, _ := st.ListProjectLinesByName(ctx, "Road Repair")
	for _, line := range lines {
		assert.Equal(t, "North Road Works", line.CaseLink)
	}
	payments, _ := st.ListPayments(ctx)
	require.Len(t, payments, 1)
	assert.Equal(t, "North Road Works", payments[0].CaseName)
}

func TestSaveCaseKeepsStatusWhenOmitted(t *testing.T) {
	e, st := setupEngine(t)
	ctx := context.Background()

	_, err := e.SaveCase(ctx, CaseInput{Name: "Case 1", Status: string(model.StatusInProgress), Budget: 1000})
	require.NoError(t, err)

	// 状態を省略した更新
	change, err := e.SaveCase(ctx, CaseInput{OldName: "Case 1", Budget: 2000, Vendor: "ACME"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, change.Case.Status)

	c, err := st.GetCase(ctx, "Case 1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, c.Status)
	assert.Equal(t, int64(2000), c.ProposedBudget)

	// 新規作成では招標中になる
	change, err = e.SaveCase(ctx, CaseInput{Name: "Case 2"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusBidding, change.Case.Status)
}

func TestSaveCaseErrors(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()

	_, err := e.SaveCase(ctx, CaseInput{Name: "A"})
	require.NoError(t, err)
	_, err = e.SaveCase(ctx, CaseInput{Name: "B"})
	require.NoError(t, err)

	tests := []struct {
		description string
		in          CaseInput
		want        error
	}{
		{"既存の標案への改名", CaseInput{OldName: "A", Name: "B"}, model.ErrConflict},
		{"同名の新規作成", CaseInput{Name: "A"}, model.ErrConflict},
		{"存在しない標案の更新", CaseInput{OldName: "Z", Name: "Y"}, model.ErrCaseNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			_, err := e.SaveCase(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err = e.SaveCase(ctx, CaseInput{Name: "C", Status: "unknown"})
	assert.True(t, model.IsValidationError(err))
	_, err = e.SaveCase(ctx, CaseInput{Name: model.Unassigned})
	assert.True(t, model.IsValidationError(err))

	// 名前を省略した更新は元の名前のまま
	change, err := e.SaveCase(ctx, CaseInput{OldName: "A", Vendor: "ACME", Total: 500})
	require.NoError(t, err)
	assert.Equal(t, "A", change.Case.Name)
	assert.Equal(t, int64(500), change.Case.AwardedTotal)
}

func TestDeleteCaseCascade(t *testing.T) {
	e, st := setupEngine(t)
	ctx := context.Background()

	_, err := e.SubmitProject(ctx, roadRepair(true))
	require.NoError(t, err)
	for _, amount := range []int64{100, 200} {
		_, err := e.SavePayment(ctx, PaymentInput{CaseName: "Road Repair", Stage: "x", Amount: amount, Date: "2024-03-01"})
		require.NoError(t, err)
	}

	del, err := e.DeleteCase(ctx, "Road Repair")
	require.NoError(t, err)
	assert.Equal(t, 2, del.UnlinkedLines)
	assert.Equal(t, 2, del.DeletedPayments)

	lines, _ := st.ListProjectLines(ctx)
	for _, line := range lines {
		assert.Equal(t, model.Unassigned, line.CaseLink)
	}
	payments, _ := st.ListPayments(ctx)
	assert.Empty(t, payments)

	_, err = e.DeleteCase(ctx, "Road Repair")
	assert.ErrorIs(t, err, model.ErrCaseNotFound)
}

func TestPaymentProgressScenario(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()

	_, err := e.SaveCase(ctx, CaseInput{Name: "Case 1", Status: string(model.StatusInProgress), Total: 10000})
	require.NoError(t, err)

	first, err := e.SavePayment(ctx, PaymentInput{CaseName: "Case 1", Stage: "1st", Amount: 3000, Date: "2024-03-01"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	_, err = e.SavePayment(ctx, PaymentInput{CaseName: "Case 1", Stage: "2nd", Amount: 4000, Date: "2024-04-01T09:00:00Z"})
	require.NoError(t, err)

	view, err := e.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, view.CaseSummaries, 1)
	pr := view.CaseSummaries[0].Progress
	assert.Equal(t, int64(7000), pr.Paid)
	assert.Equal(t, int64(3000), pr.Remaining)
	assert.Equal(t, 70.0, pr.Percent)

	// 日付は YYYY-MM-DD に正規化される
	assert.Equal(t, "2024-04-01", view.Payments[1].Date)

	// IDによる更新
	_, err = e.SavePayment(ctx, PaymentInput{ID: first.ID, CaseName: "Case 1", Stage: "1st", Amount: 7000, Date: "2024-03-01"})
	require.NoError(t, err)
	view, err = e.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, view.Payments, 2)
	assert.True(t, view.CaseSummaries[0].Progress.Overpaid)
	assert.Equal(t, 100.0, view.CaseSummaries[0].Progress.DisplayPercent)

	// 削除
	require.NoError(t, e.DeletePayment(ctx, first.ID))
	assert.ErrorIs(t, e.DeletePayment(ctx, first.ID), model.ErrPaymentNotFound)

	// 標案が存在しない請款
	_, err = e.SavePayment(ctx, PaymentInput{CaseName: "Nope", Stage: "1st", Amount: 1, Date: "2024-03-01"})
	assert.ErrorIs(t, err, model.ErrCaseNotFound)
	_, err = e.SavePayment(ctx, PaymentInput{CaseName: "Case 1", Stage: "1st", Amount: 1, Date: "03/01/2024"})
	assert.True(t, model.IsValidationError(err))
}

func TestAnalysisOverBudget(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()

	_, err := e.SubmitProject(ctx, Submission{Name: "A", Items: []SubmissionItem{{Category: "Roads", Amount: 70000}}})
	require.NoError(t, err)
	_, err = e.SubmitProject(ctx, Submission{Name: "B", Items: []SubmissionItem{{Category: "Roads", Amount: 50000}}})
	require.NoError(t, err)

	view, err := e.ReadAll(ctx)
	require.NoError(t, err)
	roads := view.Analysis.Categories["Roads"]
	assert.Equal(t, int64(100000), roads.Total)
	assert.Equal(t, int64(120000), roads.Used)
	assert.True(t, roads.OverBudget())
}

func TestSaveSettingsIsNotRetroactive(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()

	_, err := e.SubmitProject(ctx, roadRepair(false))
	require.NoError(t, err)

	// 科目を削除しても既存の行は残り、分析では設定外として扱われる
	settings := model.NewSettings()
	settings.Categories["Roads"] = 100000
	require.NoError(t, e.SaveSettings(ctx, settings))

	view, err := e.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, view.Projects, 2)
	assert.Equal(t, int64(20000), view.Analysis.Orphans.Categories["Drainage"])
	assert.NotContains(t, view.Analysis.Categories, "Drainage")

	assert.True(t, model.IsValidationError(e.SaveSettings(ctx, nil)))
}

func TestRevisionIncrementsOnSuccess(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()

	before, err := e.Revision(ctx)
	require.NoError(t, err)
	_, err = e.SubmitProject(ctx, roadRepair(false))
	require.NoError(t, err)
	rev, err := e.Revision(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, rev)

	// 失敗した変更では増えない
	_, err = e.DeleteProject(ctx, "Nothing")
	require.Error(t, err)
	rev, err = e.Revision(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, rev)

	view, err := e.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, view.Revision)
}

func TestRevisionSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	st, err := store.NewSQLiteStore(dir, db.Migrate)
	require.NoError(t, err)
	e := New(st)
	settings := model.NewSettings()
	settings.Categories["Roads"] = 100000
	require.NoError(t, e.SaveSettings(ctx, settings))
	_, err = e.SubmitProject(ctx, Submission{Name: "Park", Items: []SubmissionItem{{Category: "Roads", Amount: 1}}})
	require.NoError(t, err)
	before, err := e.Revision(ctx)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	// 再起動後は前回の続きから番号が進む
	st, err = store.NewSQLiteStore(dir, db.Migrate)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	e = New(st)
	rev, err := e.Revision(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, rev)

	_, err = e.DeleteProject(ctx, "Park")
	require.NoError(t, err)
	view, err := e.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, view.Revision)
}

func TestEditSettingsByID(t *testing.T) {
	e, st := setupEngine(t)
	w := startWriter(t, e)
	ctx := context.Background()

	added, err := e.EditSettings(ctx, "addStaff", AddStaff("Lee"))
	require.NoError(t, err)
	require.Len(t, added.Staff, 2)
	wang, lee := added.Staff[0], added.Staff[1]

	// 別々の承辦人への同時編集はどちらも残る
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, edit := range []SettingsEdit{RenameStaff(wang.ID, "Wang Wei"), RenameStaff(lee.ID, "Lee Na")} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, errs[i] = w.Submit(ctx, "", "renameStaff", func(ctx context.Context) (any, error) {
				return e.EditSettings(ctx, "renameStaff", edit)
			})
		}()
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	settings, err := st.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.StaffMember{
		{ID: wang.ID, Name: "Wang Wei"},
		{ID: lee.ID, Name: "Lee Na"},
	}, settings.Staff)
}

func TestEditSettingsErrors(t *testing.T) {
	e, st := setupEngine(t)
	ctx := context.Background()

	before, err := e.Revision(ctx)
	require.NoError(t, err)

	tests := []struct {
		description string
		edit        SettingsEdit
		check       func(t *testing.T, err error)
	}{
		{
			description: "存在しない承辦人",
			edit:        RemoveStaff("missing"),
			check:       func(t *testing.T, err error) { assert.ErrorIs(t, err, model.ErrSettingNotFound) },
		},
		{
			description: "既存の科目への改名",
			edit:        RenameCategory("Roads", "Drainage"),
			check:       func(t *testing.T, err error) { assert.ErrorIs(t, err, model.ErrConflict) },
		},
		{
			description: "負の上限額",
			edit:        SetCategory("Parks", -1),
			check:       func(t *testing.T, err error) { assert.True(t, model.IsValidationError(err)) },
		},
		{
			description: "空の承辦人名",
			edit:        AddStaff(""),
			check:       func(t *testing.T, err error) { assert.True(t, model.IsValidationError(err)) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			_, err := e.EditSettings(ctx, tt.description, tt.edit)
			require.Error(t, err)
			tt.check(t, err)
		})
	}

	// 失敗した編集は保存されず、通し番号も進まない
	settings, err := st.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), settings.Categories["Roads"])
	assert.NotContains(t, settings.Categories, "Parks")
	rev, err := e.Revision(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, rev)

	// 成功した編集
	updated, err := e.EditSettings(ctx, "renameCategory", RenameCategory("Lighting", "Street Lighting"))
	require.NoError(t, err)
	assert.Equal(t, int64(30000), updated.Categories["Street Lighting"])
	updated, err = e.EditSettings(ctx, "setSuggester", SetSuggester("Bob", 5000))
	require.NoError(t, err)
	assert.Equal(t, int64(5000), updated.Suggesters["Bob"])
	_, err = e.EditSettings(ctx, "deleteSuggester", DeleteSuggester("Alice"))
	require.NoError(t, err)

	settings, err = st.LoadSettings(ctx)
	require.NoError(t, err)
	assert.NotContains(t, settings.Categories, "Lighting")
	assert.Equal(t, map[string]int64{"Bob": 5000}, settings.Suggesters)
}
