// Package client はtenderbookのアクションAPIを呼び出すGoクライアントを提供します。
//
// サーバー側の失敗はすべて ErrRemote として扱われます。呼び出し側は失敗した場合、
// ReadAll で全体を再取得して表示を同期させます。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/stsysd/tenderbook/engine"
	"github.com/stsysd/tenderbook/model"
)

// ErrRemote はアクションが失敗した場合のエラーです。通信エラーやレスポンスの
// デコード失敗も含みます。
var ErrRemote = errors.New("remote action failed")

// RemoteError は失敗したアクションの詳細です。errors.Is(err, ErrRemote) が真になります。
// 通信やデコードで失敗した場合 StatusCode は0で、原因は Unwrap で取得できます。
type RemoteError struct {
	Action     string
	Message    string
	StatusCode int
	RequestID  string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.Action, e.Message)
	}
	return fmt.Sprintf("%s: %s (status %d, request %s)", e.Action, e.Message, e.StatusCode, e.RequestID)
}

// Is は ErrRemote との比較を可能にします。
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// localError は通信やデコードの失敗を RemoteError に包みます。
func localError(action, msg string, err error) *RemoteError {
	return &RemoteError{
		Action:  action,
		Message: fmt.Sprintf("%s: %v", msg, err),
		Err:     err,
	}
}

// Config はクライアントの設定です。
type Config struct {
	// サーバーのベースURL（例: http://localhost:8080）
	BaseURL string
	// 省略時は http.DefaultClient
	HTTPClient *http.Client
	// AssignProjects の同時実行数（省略時は4）
	Concurrency int
}

// Client はアクションAPIのクライアントです。
type Client struct {
	cfg Config
}

// New は新しいClientを作成します。
func New(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg}
}

// envelope はサーバーのレスポンス形式です。
type envelope struct {
	Status    string          `json:"status"`
	RequestID string          `json:"requestId"`
	Revision  int64           `json:"revision"`
	Result    json.RawMessage `json:"result"`
	Error     string          `json:"error"`
	Code      int             `json:"code"`
}

// exec はアクションを実行し、結果を out にデコードします。
func (c *Client) exec(ctx context.Context, action string, payload map[string]any, out any) (int64, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	payload["action"] = action
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, localError(action, "failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/exec", bytes.NewReader(body))
	if err != nil {
		return 0, localError(action, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return 0, localError(action, "request failed", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, localError(action, "failed to read response", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Status != "success" {
		remote := &RemoteError{
			Action:     action,
			Message:    env.Error,
			StatusCode: res.StatusCode,
			RequestID:  env.RequestID,
			Err:        err,
		}
		if remote.Message == "" {
			remote.Message = strings.TrimSpace(string(raw))
		}
		return 0, remote
	}

	if out != nil && len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, out); err != nil {
			return 0, localError(action, "failed to decode result", err)
		}
	}
	return env.Revision, nil
}

// ReadAll は全データのスナップショットを取得します。
func (c *Client) ReadAll(ctx context.Context) (*engine.View, error) {
	var view engine.View
	if _, err := c.exec(ctx, "readAll", nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Item は登録する科目と金額の組です。
type Item struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

// File は添付写真です。Data はbase64（データURL可）です。
type File struct {
	Data string `json:"data"`
	Type string `json:"type"`
}

// AddRequest は工程の登録内容です。
type AddRequest struct {
	Name       string
	Location   string
	Content    string
	SuggestBy  string
	Staff      string
	Items      []Item
	Files      []File
	IsAutoCase bool
}

// Add は工程を登録します。すべての科目は1回の呼び出しでまとめて登録されます。
func (c *Client) Add(ctx context.Context, in AddRequest) (*engine.SubmitResult, error) {
	payload := map[string]any{
		"name":         in.Name,
		"location":     in.Location,
		"content":      in.Content,
		"suggestBy":    in.SuggestBy,
		"staff":        in.Staff,
		"items":        in.Items,
		"fileDataList": in.Files,
		"isAutoCase":   in.IsAutoCase,
	}
	var result engine.SubmitResult
	if _, err := c.exec(ctx, "add", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateProjectRequest は工程項目1行の編集内容です。
type UpdateProjectRequest struct {
	OldName   string
	OldCat    string
	Name      string
	Category  string
	Amount    int64
	Location  string
	Content   string
	SuggestBy string
	Staff     string
}

// UpdateProject は工程項目1行を編集します。
func (c *Client) UpdateProject(ctx context.Context, in UpdateProjectRequest) (*model.ProjectLine, error) {
	payload := map[string]any{
		"oldName":   in.OldName,
		"oldCat":    in.OldCat,
		"name":      in.Name,
		"category":  in.Category,
		"amount":    in.Amount,
		"location":  in.Location,
		"content":   in.Content,
		"suggestBy": in.SuggestBy,
		"staff":     in.Staff,
	}
	var line model.ProjectLine
	if _, err := c.exec(ctx, "updateProject", payload, &line); err != nil {
		return nil, err
	}
	return &line, nil
}

// DeleteProject は工程のすべての科目行を削除します。
func (c *Client) DeleteProject(ctx context.Context, name string) error {
	_, err := c.exec(ctx, "deleteProject", map[string]any{"name": name}, nil)
	return err
}

// CaseRequest は標案の作成・更新内容です。Costs を指定すると決標金額は内訳の合計になります。
type CaseRequest struct {
	OldName string
	NewName string
	Status  model.CaseStatus
	Budget  int64
	Vendor  string
	Costs   *model.CostBreakdown
	Total   int64
}

// UpdateFullCase は標案を作成（OldName が空）または更新します。
func (c *Client) UpdateFullCase(ctx context.Context, in CaseRequest) (*engine.CaseChange, error) {
	payload := map[string]any{
		"oldName": in.OldName,
		"newName": in.NewName,
		"status":  string(in.Status),
		"budget":  in.Budget,
		"vendor":  in.Vendor,
		"total":   in.Total,
	}
	if in.Costs != nil {
		payload["constCost"] = in.Costs.Construction
		payload["pollutionCost"] = in.Costs.PollutionControl
		payload["mgmtCost"] = in.Costs.Management
		payload["customCost"] = in.Costs.Misc
	}
	var change engine.CaseChange
	if _, err := c.exec(ctx, "updateFullCase", payload, &change); err != nil {
		return nil, err
	}
	return &change, nil
}

// AssignProject は工程を標案に連結します（model.Unassigned で解除）。
func (c *Client) AssignProject(ctx context.Context, projectName, caseName string) error {
	_, err := c.exec(ctx, "assignProject", map[string]any{
		"projectName": projectName,
		"tenderName":  caseName,
	}, nil)
	return err
}

// AssignProjects は複数の工程を同時に連結します。順序は保証されません。
// 失敗した工程のエラーはすべてまとめて返されます。
func (c *Client) AssignProjects(ctx context.Context, projectNames []string, caseName string) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(c.cfg.Concurrency)
	for _, name := range projectNames {
		g.Go(func() error {
			if err := c.AssignProject(ctx, name, caseName); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()
	return errors.Join(errs...)
}

// DeleteCase は標案を削除します。連結されていた工程は未分派に戻り、請款は削除されます。
func (c *Client) DeleteCase(ctx context.Context, name string) (*engine.CaseDeletion, error) {
	var del engine.CaseDeletion
	if _, err := c.exec(ctx, "deleteCase", map[string]any{"name": name}, &del); err != nil {
		return nil, err
	}
	return &del, nil
}

// SaveSettings は設定全体を置き換えます。
func (c *Client) SaveSettings(ctx context.Context, settings *model.Settings) error {
	_, err := c.exec(ctx, "saveSettings", map[string]any{"config": settings}, nil)
	return err
}

// editSettings は設定の部分編集アクションを実行し、編集後の設定を返します。
func (c *Client) editSettings(ctx context.Context, action string, payload map[string]any) (*model.Settings, error) {
	var settings model.Settings
	if _, err := c.exec(ctx, action, payload, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// AddStaff は承辦人を追加し、発行されたIDを含む登録内容を返します。
func (c *Client) AddStaff(ctx context.Context, name string) (*model.StaffMember, error) {
	settings, err := c.editSettings(ctx, "addStaff", map[string]any{"name": name})
	if err != nil {
		return nil, err
	}
	// 追加した承辦人は末尾に入る
	if len(settings.Staff) == 0 {
		return nil, &RemoteError{Action: "addStaff", Message: "staff missing from response"}
	}
	m := settings.Staff[len(settings.Staff)-1]
	return &m, nil
}

// RenameStaff はIDで指定した承辦人の名前を変更します。
func (c *Client) RenameStaff(ctx context.Context, id, name string) (*model.Settings, error) {
	return c.editSettings(ctx, "renameStaff", map[string]any{"id": id, "name": name})
}

// RemoveStaff はIDで指定した承辦人を削除します。
func (c *Client) RemoveStaff(ctx context.Context, id string) (*model.Settings, error) {
	return c.editSettings(ctx, "removeStaff", map[string]any{"id": id})
}

// SetCategory は予算科目を追加するか上限額を変更します。
func (c *Client) SetCategory(ctx context.Context, name string, budget int64) (*model.Settings, error) {
	return c.editSettings(ctx, "setCategory", map[string]any{"name": name, "amount": budget})
}

// RenameCategory は予算科目の名前を変更します。
func (c *Client) RenameCategory(ctx context.Context, oldName, newName string) (*model.Settings, error) {
	return c.editSettings(ctx, "renameCategory", map[string]any{"oldName": oldName, "newName": newName})
}

// DeleteCategory は予算科目を削除します。
func (c *Client) DeleteCategory(ctx context.Context, name string) (*model.Settings, error) {
	return c.editSettings(ctx, "deleteCategory", map[string]any{"name": name})
}

// SetSuggester は建議人を追加するか配分額を変更します。
func (c *Client) SetSuggester(ctx context.Context, name string, quota int64) (*model.Settings, error) {
	return c.editSettings(ctx, "setSuggester", map[string]any{"name": name, "amount": quota})
}

// RenameSuggester は建議人の名前を変更します。
func (c *Client) RenameSuggester(ctx context.Context, oldName, newName string) (*model.Settings, error) {
	return c.editSettings(ctx, "renameSuggester", map[string]any{"oldName": oldName, "newName": newName})
}

// DeleteSuggester は建議人を削除します。
func (c *Client) DeleteSuggester(ctx context.Context, name string) (*model.Settings, error) {
	return c.editSettings(ctx, "deleteSuggester", map[string]any{"name": name})
}

// PaymentRequest は請款の登録・更新内容です。ID が空の場合は新規登録です。
type PaymentRequest struct {
	ID         string
	TenderName string
	Stage      string
	Amount     int64
	Date       string
	Invoice    string
}

// SavePayment は請款を登録または更新します。
func (c *Client) SavePayment(ctx context.Context, in PaymentRequest) (*model.Payment, error) {
	payload := map[string]any{
		"id":         in.ID,
		"tenderName": in.TenderName,
		"stage":      in.Stage,
		"amount":     in.Amount,
		"date":       in.Date,
		"invoice":    in.Invoice,
	}
	var p model.Payment
	if _, err := c.exec(ctx, "savePayment", payload, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePayment は請款を削除します。
func (c *Client) DeletePayment(ctx context.Context, id string) error {
	_, err := c.exec(ctx, "deletePayment", map[string]any{"id": id}, nil)
	return err
}
