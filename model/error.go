// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import "errors"

// センチネルエラー - リソースが見つからない場合
var (
	ErrProjectNotFound = errors.New("project not found")
	ErrCaseNotFound    = errors.New("case not found")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrPhotoNotFound   = errors.New("photo not found")
)

// ErrConflict は一意キーが既存のデータと衝突した場合のエラーです。
var ErrConflict = errors.New("conflict with existing data")

// ValidationError はバリデーションエラーを表す型
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError はValidationErrorを生成するヘルパー関数
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidationError はerrがValidationErrorを含むかどうかを返します。
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrSettingNotFound は設定項目（科目、建議人、承辦人）が見つからない場合のエラーです。
var ErrSettingNotFound = errors.New("setting entry not found")
