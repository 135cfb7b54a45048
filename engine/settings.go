package engine

import (
	"context"

	"github.com/stsysd/tenderbook/model"
	"github.com/stsysd/tenderbook/store"
)

// SettingsEdit は設定の一部を書き換える操作です。
type SettingsEdit func(*model.Settings) error

// EditSettings は保存済みの設定に edit を適用します。
// 読み込みから保存までを1つのトランザクションで行うため、別々の項目への編集は互いを上書きしません。
func (e *Engine) EditSettings(ctx context.Context, op string, edit SettingsEdit) (*model.Settings, error) {
	var updated *model.Settings
	rev, err := e.mutate(ctx, func(tx store.Store) error {
		settings, err := tx.LoadSettings(ctx)
		if err != nil {
			return err
		}
		if err := edit(settings); err != nil {
			return err
		}
		if err := tx.SaveSettings(ctx, settings); err != nil {
			return err
		}
		updated = settings
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("settings edited", "op", op, "revision", rev)
	return updated, nil
}

// AddStaff は承辦人を追加します。
func AddStaff(name string) SettingsEdit {
	return func(s *model.Settings) error {
		if name == "" {
			return model.NewValidationError("staff name is required")
		}
		s.AddStaff(name)
		return nil
	}
}

// RenameStaff はIDで指定した承辦人の名前を変更します。
func RenameStaff(id, name string) SettingsEdit {
	return func(s *model.Settings) error {
		if name == "" {
			return model.NewValidationError("staff name is required")
		}
		return s.RenameStaff(id, name)
	}
}

// RemoveStaff はIDで指定した承辦人を削除します。
func RemoveStaff(id string) SettingsEdit {
	return func(s *model.Settings) error {
		return s.RemoveStaff(id)
	}
}

// SetCategory は予算科目を追加するか上限額を変更します。
func SetCategory(name string, budget int64) SettingsEdit {
	return func(s *model.Settings) error {
		return s.SetCategory(name, budget)
	}
}

// RenameCategory は予算科目の名前を変更します。既存の工程項目は変更しません。
func RenameCategory(old, name string) SettingsEdit {
	return func(s *model.Settings) error {
		return s.RenameCategory(old, name)
	}
}

// DeleteCategory は予算科目を削除します。
func DeleteCategory(name string) SettingsEdit {
	return func(s *model.Settings) error {
		return s.DeleteCategory(name)
	}
}

// SetSuggester は建議人を追加するか配分額を変更します。
func SetSuggester(name string, quota int64) SettingsEdit {
	return func(s *model.Settings) error {
		return s.SetSuggester(name, quota)
	}
}

// RenameSuggester は建議人の名前を変更します。
func RenameSuggester(old, name string) SettingsEdit {
	return func(s *model.Settings) error {
		return s.RenameSuggester(old, name)
	}
}

// DeleteSuggester は建議人を削除します。
func DeleteSuggester(name string) SettingsEdit {
	return func(s *model.Settings) error {
		return s.DeleteSuggester(name)
	}
}
