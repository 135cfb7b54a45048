// Package store は、データの永続化機能を提供します。
package store

import (
	"context"

	"github.com/stsysd/tenderbook/model"
)

// ProjectStore は工程項目の保存と取得を行うインターフェースです。
// 工程項目は (name, category) で一意に識別されます。
type ProjectStore interface {
	// ListProjectLines はすべての工程項目を登録順に取得します。
	ListProjectLines(ctx context.Context) ([]*model.ProjectLine, error)
	// ListProjectLinesByName は指定された工程名の工程項目を取得します。
	ListProjectLinesByName(ctx context.Context, name string) ([]*model.ProjectLine, error)
	// GetProjectLine は指定された工程名と科目の工程項目を取得します。
	GetProjectLine(ctx context.Context, name, category string) (*model.ProjectLine, error)
	// CreateProjectLine は新しい工程項目を作成します。
	CreateProjectLine(ctx context.Context, line *model.ProjectLine) error
	// UpdateProjectLine は (oldName, oldCategory) の工程項目を line の内容で置き換えます。
	UpdateProjectLine(ctx context.Context, oldName, oldCategory string, line *model.ProjectLine) error
	// DeleteProjectLines は指定された工程名のすべての工程項目を削除し、削除件数を返します。
	DeleteProjectLines(ctx context.Context, name string) (int, error)
	// SetProjectCaseLink は指定された工程名のすべての工程項目の連結先を設定し、更新件数を返します。
	SetProjectCaseLink(ctx context.Context, name, caseLink string) (int, error)
	// RelinkCase は連結先が from の工程項目をすべて to に付け替え、更新件数を返します。
	RelinkCase(ctx context.Context, from, to string) (int, error)
}

// CaseStore は標案の保存と取得を行うインターフェースです。
type CaseStore interface {
	// ListCases はすべての標案を登録順に取得します。
	ListCases(ctx context.Context) ([]*model.Case, error)
	// GetCase は指定された名前の標案を取得します。
	GetCase(ctx context.Context, name string) (*model.Case, error)
	// CreateCase は新しい標案を作成します。
	CreateCase(ctx context.Context, c *model.Case) error
	// UpdateCase は oldName の標案を c の内容で置き換えます（名前の変更を含む）。
	UpdateCase(ctx context.Context, oldName string, c *model.Case) error
	// DeleteCase は指定された名前の標案を削除します。
	DeleteCase(ctx context.Context, name string) error
}

// PaymentStore は請款の保存と取得を行うインターフェースです。
type PaymentStore interface {
	// ListPayments はすべての請款を登録順に取得します。
	ListPayments(ctx context.Context) ([]*model.Payment, error)
	// GetPayment は指定されたIDの請款を取得します。
	GetPayment(ctx context.Context, id string) (*model.Payment, error)
	// CreatePayment は新しい請款を作成します。
	CreatePayment(ctx context.Context, p *model.Payment) error
	// UpdatePayment は指定されたIDの請款を更新します。
	UpdatePayment(ctx context.Context, p *model.Payment) error
	// DeletePayment は指定されたIDの請款を削除します。
	DeletePayment(ctx context.Context, id string) error
	// DeletePaymentsByCase は指定された標案の請款をすべて削除し、削除件数を返します。
	DeletePaymentsByCase(ctx context.Context, caseName string) (int, error)
	// RenamePaymentCase は標案名 from の請款をすべて to に付け替え、更新件数を返します。
	RenamePaymentCase(ctx context.Context, from, to string) (int, error)
}

// SettingsStore は設定の読み込みと保存を行うインターフェースです。
type SettingsStore interface {
	// LoadSettings は設定全体を読み込みます。
	LoadSettings(ctx context.Context) (*model.Settings, error)
	// SaveSettings は設定全体を置き換えます。
	SaveSettings(ctx context.Context, settings *model.Settings) error
}

// PhotoStore は添付写真の保存と取得を行うインターフェースです。
type PhotoStore interface {
	// CreatePhoto は写真を保存します。
	CreatePhoto(ctx context.Context, photo *model.Photo) error
	// GetPhoto は指定されたIDの写真を取得します。
	GetPhoto(ctx context.Context, id string) (*model.Photo, error)
}

// RevisionStore は変更操作の通し番号を保存します。
type RevisionStore interface {
	// CurrentRevision は現在の通し番号を返します。
	CurrentRevision(ctx context.Context) (int64, error)
	// BumpRevision は通し番号を1つ進め、新しい値を返します。
	BumpRevision(ctx context.Context) (int64, error)
}

// Store はすべてのコレクションをまとめたインターフェースです。
type Store interface {
	ProjectStore
	CaseStore
	PaymentStore
	SettingsStore
	PhotoStore
	RevisionStore
	// InTx は fn を単一のトランザクション内で実行します。fn がエラーを返した場合はロールバックします。
	InTx(ctx context.Context, fn func(Store) error) error
	// Close はストアの接続を閉じます。
	Close() error
}
