// Package engine は、工程項目・標案・請款の整合性を保ちながらストアを更新する唯一の経路です。
// 複数レコードにまたがる変更はすべて単一のトランザクション内で行われます。
package engine

import (
	"context"
	"io"
	"log/slog"

	"github.com/stsysd/tenderbook/model"
	"github.com/stsysd/tenderbook/store"
)

// Engine は整合性を保つ更新操作と読み取りビューを提供します。
type Engine struct {
	store          store.Store
	logger         *slog.Logger
	strict         bool
	photoURLPrefix string
}

// Option はEngineの設定を変更します。
type Option func(*Engine)

// WithStrictGrouping は同名グループの共有フィールドが食い違う登録・更新を拒否します。
func WithStrictGrouping(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// WithLogger はログ出力先を設定します。
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithPhotoURLPrefix は写真URLの前に付ける文字列を設定します（例: "https://example.com"）。
func WithPhotoURLPrefix(prefix string) Option {
	return func(e *Engine) {
		e.photoURLPrefix = prefix
	}
}

// New は新しいEngineを作成します。
func New(st store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  st,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Revision は成功した変更操作の通し番号を返します。
// 読み取り結果がどの変更まで反映しているかの目安として使います。番号はストアに保存され、
// 再起動後も減りません。
func (e *Engine) Revision(ctx context.Context) (int64, error) {
	return e.store.CurrentRevision(ctx)
}

// mutate は fn を1つのトランザクションで実行し、同じトランザクション内で通し番号を進めます。
func (e *Engine) mutate(ctx context.Context, fn func(tx store.Store) error) (int64, error) {
	var rev int64
	err := e.store.InTx(ctx, func(tx store.Store) error {
		if err := fn(tx); err != nil {
			return err
		}
		var err error
		rev, err = tx.BumpRevision(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}
	return rev, nil
}

// SaveSettings は設定全体を置き換えます。既存の工程項目は再検証しません。
func (e *Engine) SaveSettings(ctx context.Context, settings *model.Settings) error {
	if settings == nil {
		return model.NewValidationError("config is required")
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	rev, err := e.mutate(ctx, func(tx store.Store) error {
		return tx.SaveSettings(ctx, settings)
	})
	if err != nil {
		return err
	}
	e.logger.Info("settings saved",
		"categories", len(settings.Categories),
		"suggesters", len(settings.Suggesters),
		"staff", len(settings.Staff),
		"revision", rev)
	return nil
}

// Photo は保存済みの添付写真を取得します。
func (e *Engine) Photo(ctx context.Context, id string) (*model.Photo, error) {
	return e.store.GetPhoto(ctx, id)
}
