package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/stsysd/tenderbook/model"
	"github.com/stsysd/tenderbook/store"
)

// SubmissionItem は登録する科目と金額の組です。
type SubmissionItem struct {
	Category string
	Amount   int64
}

// PhotoUpload はbase64でエンコードされた添付写真です。データURL形式も受け付けます。
type PhotoUpload struct {
	Data     string
	MIMEType string
}

// Submission は工程の新規登録内容です。共有フィールドはすべての科目行にコピーされます。
type Submission struct {
	Name          string
	Content       string
	Location      string
	ProposedBy    string
	AssignedStaff string
	Items         []SubmissionItem
	Photos        []PhotoUpload
	// AutoCase が真の場合、工程名と同名の標案を作成（または予算を加算）して連結する
	AutoCase bool
}

// SubmitResult は登録結果です。
type SubmitResult struct {
	Lines     []*model.ProjectLine `json:"lines"`
	Case      *model.Case          `json:"case,omitempty"`
	PhotoURLs []string             `json:"photoUrls"`
}

// SubmitProject は工程を登録します。すべての科目行は1つのトランザクションで作成されます。
func (e *Engine) SubmitProject(ctx context.Context, sub Submission) (*SubmitResult, error) {
	// 入力の検証
	name, err := model.NewProjectName(sub.Name)
	if err != nil {
		return nil, err
	}
	if len(sub.Items) == 0 {
		return nil, model.NewValidationError("at least one category amount is required")
	}
	if sub.AutoCase {
		if _, err := model.NewCaseName(name.String()); err != nil {
			return nil, err
		}
	}

	settings, err := e.store.LoadSettings(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	seen := make(map[string]bool, len(sub.Items))
	for _, item := range sub.Items {
		if !settings.HasCategory(item.Category) {
			return nil, model.NewValidationError(fmt.Sprintf("unknown category: %q", item.Category))
		}
		if seen[item.Category] {
			return nil, model.NewValidationError(fmt.Sprintf("duplicate category in submission: %q", item.Category))
		}
		seen[item.Category] = true
		if item.Amount < 0 {
			return nil, model.NewValidationError(fmt.Sprintf("amount must not be negative: %d", item.Amount))
		}
		total += item.Amount
	}

	// 写真のデコード（ストアに触れる前に検証する）
	photos := make([]*model.Photo, 0, len(sub.Photos))
	for _, up := range sub.Photos {
		photo, err := model.DecodePhoto(uuid.NewString(), up.Data, up.MIMEType)
		if err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}

	result := &SubmitResult{PhotoURLs: []string{}}
	rev, err := e.mutate(ctx, func(tx store.Store) error {
		existing, err := tx.ListProjectLinesByName(ctx, name.String())
		if err != nil {
			return err
		}
		for _, line := range existing {
			if seen[line.Category] {
				return fmt.Errorf("project %q already has category %q: %w", name, line.Category, model.ErrConflict)
			}
		}

		// 共有フィールドの一致確認
		if e.strict && len(existing) > 0 {
			incoming := &model.ProjectLine{
				Content:       sub.Content,
				Location:      sub.Location,
				ProposedBy:    sub.ProposedBy,
				AssignedStaff: sub.AssignedStaff,
			}
			if diff := existing[0].SharedFieldDiff(incoming); len(diff) > 0 {
				return model.NewValidationError(fmt.Sprintf("project %q already exists with different %s", name, strings.Join(diff, ", ")))
			}
		}

		caseLink := model.Unassigned
		if sub.AutoCase {
			c, err := e.ensureAutoCase(ctx, tx, name.String(), total)
			if err != nil {
				return err
			}
			result.Case = c
			caseLink = c.Name
		}

		for _, photo := range photos {
			if err := tx.CreatePhoto(ctx, photo); err != nil {
				return err
			}
			result.PhotoURLs = append(result.PhotoURLs, e.photoURL(photo.ID))
		}

		for i, item := range sub.Items {
			line, err := model.NewProjectLine(name.String(), item.Category, item.Amount)
			if err != nil {
				return err
			}
			line.Content = sub.Content
			line.Location = sub.Location
			line.ProposedBy = sub.ProposedBy
			line.AssignedStaff = sub.AssignedStaff
			line.CaseLink = caseLink
			// 写真は最初の科目行にのみ付与する
			if i == 0 {
				line.PhotoURLs = append(line.PhotoURLs, result.PhotoURLs...)
			}
			if err := tx.CreateProjectLine(ctx, line); err != nil {
				return err
			}
			result.Lines = append(result.Lines, line)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("project submitted",
		"name", name.String(),
		"lines", len(result.Lines),
		"total", total,
		"photos", len(result.PhotoURLs),
		"autoCase", sub.AutoCase,
		"revision", rev)
	return result, nil
}

// ensureAutoCase は工程名と同名の標案を用意します。
// 既に存在する場合は提案予算に今回の合計を加算します。
func (e *Engine) ensureAutoCase(ctx context.Context, tx store.Store, name string, total int64) (*model.Case, error) {
	c, err := tx.GetCase(ctx, name)
	if errors.Is(err, model.ErrCaseNotFound) {
		c, err = model.NewCase(name, total)
		if err != nil {
			return nil, err
		}
		if err := tx.CreateCase(ctx, c); err != nil {
			return nil, err
		}
		return c, nil
	}
	if err != nil {
		return nil, err
	}

	c.ProposedBudget += total
	if err := tx.UpdateCase(ctx, name, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (e *Engine) photoURL(id string) string {
	return strings.TrimRight(e.photoURLPrefix, "/") + "/photos/" + id
}

// ProjectPatch は工程項目1行の編集内容です。連結先と写真は変更されません。
type ProjectPatch struct {
	Name          string
	Category      string
	Amount        int64
	Content       string
	Location      string
	ProposedBy    string
	AssignedStaff string
}

// UpdateProject は (oldName, oldCategory) の工程項目を編集します。
func (e *Engine) UpdateProject(ctx context.Context, oldName, oldCategory string, patch ProjectPatch) (*model.ProjectLine, error) {
	// 入力の検証
	name, err := model.NewProjectName(patch.Name)
	if err != nil {
		return nil, err
	}
	if patch.Amount < 0 {
		return nil, model.NewValidationError(fmt.Sprintf("amount must not be negative: %d", patch.Amount))
	}
	settings, err := e.store.LoadSettings(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.HasCategory(patch.Category) {
		return nil, model.NewValidationError(fmt.Sprintf("unknown category: %q", patch.Category))
	}

	var updated *model.ProjectLine
	rev, err := e.mutate(ctx, func(tx store.Store) error {
		current, err := tx.GetProjectLine(ctx, oldName, oldCategory)
		if err != nil {
			return err
		}

		line := *current
		line.Name = name.String()
		line.Category = patch.Category
		line.Amount = patch.Amount
		line.Content = patch.Content
		line.Location = patch.Location
		line.ProposedBy = patch.ProposedBy
		line.AssignedStaff = patch.AssignedStaff

		if e.strict {
			if err := e.checkGroupConsistency(ctx, tx, &line, oldName, oldCategory); err != nil {
				return err
			}
		}

		if err := tx.UpdateProjectLine(ctx, oldName, oldCategory, &line); err != nil {
			return err
		}
		updated = &line
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("project updated",
		"oldName", oldName,
		"oldCategory", oldCategory,
		"name", updated.Name,
		"category", updated.Category,
		"revision", rev)
	return updated, nil
}

// checkGroupConsistency は編集後の行が同名グループの他の行と食い違わないことを確認します。
func (e *Engine) checkGroupConsistency(ctx context.Context, tx store.Store, line *model.ProjectLine, oldName, oldCategory string) error {
	siblings, err := tx.ListProjectLinesByName(ctx, line.Name)
	if err != nil {
		return err
	}
	for _, s := range siblings {
		if s.Name == oldName && s.Category == oldCategory {
			continue
		}
		if diff := s.SharedFieldDiff(line); len(diff) > 0 {
			return model.NewValidationError(fmt.Sprintf("project %q would diverge on %s", line.Name, strings.Join(diff, ", ")))
		}
		return nil
	}
	return nil
}

// DeleteProject は指定された工程名のすべての科目行を削除します。標案は変更しません。
func (e *Engine) DeleteProject(ctx context.Context, name string) (int, error) {
	if strings.TrimSpace(name) == "" {
		return 0, model.NewValidationError("project name is required")
	}

	var n int
	rev, err := e.mutate(ctx, func(tx store.Store) error {
		var err error
		n, err = tx.DeleteProjectLines(ctx, name)
		if err != nil {
			return err
		}
		if n == 0 {
			return model.ErrProjectNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	e.logger.Info("project deleted", "name", name, "lines", n, "revision", rev)
	return n, nil
}

// AssignProject は工程のすべての科目行を標案に連結します。
// caseName に未分派を指定すると連結を解除します。同じ操作を繰り返しても結果は変わりません。
func (e *Engine) AssignProject(ctx context.Context, projectName, caseName string) (int, error) {
	if strings.TrimSpace(projectName) == "" {
		return 0, model.NewValidationError("project name is required")
	}
	if strings.TrimSpace(caseName) == "" {
		return 0, model.NewValidationError("case name is required")
	}

	var n int
	rev, err := e.mutate(ctx, func(tx store.Store) error {
		if caseName != model.Unassigned {
			if _, err := tx.GetCase(ctx, caseName); err != nil {
				return err
			}
		}
		var err error
		n, err = tx.SetProjectCaseLink(ctx, projectName, caseName)
		if err != nil {
			return err
		}
		if n == 0 {
			return model.ErrProjectNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	e.logger.Info("project assigned", "name", projectName, "case", caseName, "lines", n, "revision", rev)
	return n, nil
}

// AssignProjects は複数の工程を同じ標案に連結します。
// 各工程は独立して処理され、失敗したものはまとめてエラーとして返されます。
func (e *Engine) AssignProjects(ctx context.Context, projectNames []string, caseName string) error {
	var errs []error
	for _, name := range projectNames {
		if _, err := e.AssignProject(ctx, name, caseName); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
