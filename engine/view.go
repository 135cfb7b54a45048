package engine

import (
	"context"

	"github.com/stsysd/tenderbook/aggregate"
	"github.com/stsysd/tenderbook/model"
	"github.com/stsysd/tenderbook/store"
)

// View は全データのスナップショットと派生ビューです。
type View struct {
	Projects      []*model.ProjectLine      `json:"projects"`
	Cases         []*model.Case             `json:"cases"`
	Payments      []*model.Payment          `json:"payments"`
	Settings      *model.Settings           `json:"settings"`
	Analysis      aggregate.Analysis        `json:"analysis"`
	Groups        []*aggregate.ProjectGroup `json:"groups"`
	CaseSummaries []aggregate.CaseSummary   `json:"caseSummaries"`
	Divergences   []aggregate.Divergence    `json:"divergences"`
	Unassigned    []*model.ProjectLine      `json:"unassigned"` // 連結先を選ぶ候補
	Revision      int64                     `json:"revision"`
}

// ReadAll は一貫したスナップショットを読み取り、派生ビューを計算します。
func (e *Engine) ReadAll(ctx context.Context) (*View, error) {
	v := &View{}
	err := e.store.InTx(ctx, func(tx store.Store) error {
		var err error
		if v.Revision, err = tx.CurrentRevision(ctx); err != nil {
			return err
		}
		if v.Projects, err = tx.ListProjectLines(ctx); err != nil {
			return err
		}
		if v.Cases, err = tx.ListCases(ctx); err != nil {
			return err
		}
		if v.Payments, err = tx.ListPayments(ctx); err != nil {
			return err
		}
		if v.Settings, err = tx.LoadSettings(ctx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	v.Analysis = aggregate.ComputeAnalysis(v.Projects, v.Settings)
	v.Groups = aggregate.GroupProjects(v.Projects).List()
	v.CaseSummaries = aggregate.SummarizeCases(v.Cases, v.Projects, v.Payments)
	v.Divergences = aggregate.Divergences(v.Projects)
	v.Unassigned = aggregate.UnassignedProjects(v.Projects)
	return v, nil
}
