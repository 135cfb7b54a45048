package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stsysd/tenderbook/engine"
	"github.com/stsysd/tenderbook/model"
)

// アクション名
const (
	ActionReadAll        = "readAll"
	ActionAdd            = "add"
	ActionUpdateProject  = "updateProject"
	ActionDeleteProject  = "deleteProject"
	ActionUpdateFullCase = "updateFullCase"
	ActionAssignProject  = "assignProject"
	ActionAssignProjects = "assignProjects"
	ActionDeleteCase     = "deleteCase"
	ActionSaveSettings   = "saveSettings"
	ActionSavePayment    = "savePayment"
	ActionDeletePayment  = "deletePayment"

	// 設定の部分編集
	ActionAddStaff        = "addStaff"
	ActionRenameStaff     = "renameStaff"
	ActionRemoveStaff     = "removeStaff"
	ActionSetCategory     = "setCategory"
	ActionRenameCategory  = "renameCategory"
	ActionDeleteCategory  = "deleteCategory"
	ActionSetSuggester    = "setSuggester"
	ActionRenameSuggester = "renameSuggester"
	ActionDeleteSuggester = "deleteSuggester"
)

// paramError はリクエストの形式が不正な場合のエラーです。
type paramError struct {
	msg string
}

func (e *paramError) Error() string {
	return e.msg
}

func newParamError(format string, args ...any) error {
	return &paramError{msg: fmt.Sprintf(format, args...)}
}

// decodeParams はリクエストボディを指定された構造体にデコードします。
func decodeParams(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		// 金額などの値オブジェクトのバリデーションエラーはそのまま返す
		if model.IsValidationError(err) {
			return err
		}
		return newParamError("invalid request body: %v", err)
	}
	return nil
}

// ExecParams はアクションの共通パラメータです。
type ExecParams struct {
	Action string `json:"action"`
}

// NewExecParams はリクエストボディからアクション名を取得します。
func NewExecParams(body []byte) (*ExecParams, error) {
	var params ExecParams
	if err := decodeParams(body, &params); err != nil {
		return nil, err
	}
	if params.Action == "" {
		return nil, newParamError("action is required")
	}
	return &params, nil
}

// buildTask はアクションに対応する変更操作を組み立てます。
func (s *Server) buildTask(action string, body []byte) (engine.TaskFunc, error) {
	switch action {
	case ActionAdd:
		sub, err := NewSubmissionParams(body)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) (any, error) {
			return s.engine.SubmitProject(ctx, *sub)
		}, nil

	case ActionUpdateProject:
		params, err := NewUpdateProjectParams(body)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) (any, error) {
			return s.engine.UpdateProject(ctx, params.OldName, params.OldCategory, params.Patch)
		}, nil

	case ActionDeleteProject:
		params, err := NewNameParams(body)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) (any, error) {
			n, err := s.engine.DeleteProject(ctx, params.Name)
			if err != nil {
				return nil, err
			}
			return map[string]any{"name": params.Name, "deletedLines": n}, nil
		}, nil

	case ActionUpdateFullCase:
		in, err := NewCaseParams(body)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) (any, error) {
			return s.engine.SaveCase(ctx, *in)
		}, nil

	case ActionAssignProject:
		params, err := NewAssignParams(body)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) (any, error) {
			n, err := s.engine.AssignProject(ctx, params.ProjectNames[0], params.CaseName)
			if err != nil {
				return nil, err
			}
			return map[string]any{"projectName": params.ProjectNames[0], "tenderName": params.CaseName, "lines": n}, nil
		}, nil

	case ActionAssignProjects:
		params, err := NewAssignParams(body)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) (any, error) {
			if err := s.engine.AssignProjects(ctx, params.ProjectNames, params.CaseName); err != nil {
				return nil, err
			}
			return map[string]any{"projectNames": params.ProjectNames, "tenderName": params.CaseName}, nil
		}, nil

	case ActionDeleteCase:
		params, err := NewNameParams(body)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) (any, error) {
			return s.engine.DeleteCase(ctx, params.Name)
		}, nil

	case ActionSaveSettings:
		settings, err := NewSettingsParams(body)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) (any, error) {
			if err := s.engine.SaveSettings(ctx, settings); err != nil {
				return nil, err
			}
			return settings, nil
		}, nil

	case ActionSavePayment:
		in, err := NewPaymentParams(body)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) (any, error) {
			return s.engine.SavePayment(ctx, *in)
		}, nil

	case ActionDeletePayment:
		params, err := NewIDParams(body)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) (any, error) {
			if err := s.engine.DeletePayment(ctx, params.ID); err != nil {
				return nil, err
			}
			return map[string]any{"id": params.ID}, nil
		}, nil
	}
	case ActionAddStaff, ActionRenameStaff, ActionRemoveStaff,
		ActionSetCategory, ActionRenameCategory, ActionDeleteCategory,
		ActionSetSuggester, ActionRenameSuggester, ActionDeleteSuggester:
		edit, err := NewSettingsEditParams(action, body)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) (any, error) {
			return s.engine.EditSettings(ctx, action, edit)
		}, nil
	}
	return nil, newParamError("unknown action: %q", action)
}

// fileData は添付写真1件のリクエスト形式です。
type fileData struct {
	Data string `json:"data"`
	Type string `json:"type"`
}

// itemData は科目と金額1組のリクエスト形式です。
type itemData struct {
	Category string       `json:"category"`
	Amount   model.Amount `json:"amount"`
}

// NewSubmissionParams は add アクションのパラメータを生成します。
// items が指定された場合は一括登録、それ以外は category と amount の1件として扱います。
// 金額が空の科目は登録しません。
func NewSubmissionParams(body []byte) (*engine.Submission, error) {
	var requestBody struct {
		Name         string       `json:"name"`
		Location     string       `json:"location"`
		Content      string       `json:"content"`
		SuggestBy    string       `json:"suggestBy"`
		Staff        string       `json:"staff"`
		Amount       model.Amount `json:"amount"`
		Category     string       `json:"category"`
		Items        []itemData   `json:"items"`
		FileDataList []fileData   `json:"fileDataList"`
		IsAutoCase   bool         `json:"isAutoCase"`
	}
	if err := decodeParams(body, &requestBody); err != nil {
		return nil, err
	}

	items := requestBody.Items
	if len(items) == 0 && requestBody.Category != "" {
		items = []itemData{{Category: requestBody.Category, Amount: requestBody.Amount}}
	}

	sub := &engine.Submission{
		Name:          strings.TrimSpace(requestBody.Name),
		Content:       requestBody.Content,
		Location:      requestBody.Location,
		ProposedBy:    requestBody.SuggestBy,
		AssignedStaff: requestBody.Staff,
		AutoCase:      requestBody.IsAutoCase,
	}
	for _, item := range items {
		if !item.Amount.IsSet() {
			continue
		}
		sub.Items = append(sub.Items, engine.SubmissionItem{
			Category: item.Category,
			Amount:   item.Amount.Int64(),
		})
	}
	for _, f := range requestBody.FileDataList {
		sub.Photos = append(sub.Photos, engine.PhotoUpload{Data: f.Data, MIMEType: f.Type})
	}
	return sub, nil
}

// UpdateProjectParams は updateProject アクションのパラメータです。
type UpdateProjectParams struct {
	OldName     string
	OldCategory string
	Patch       engine.ProjectPatch
}

// NewUpdateProjectParams は updateProject アクションのパラメータを生成します。
func NewUpdateProjectParams(body []byte) (*UpdateProjectParams, error) {
	var requestBody struct {
		OldName   string       `json:"oldName"`
		OldCat    string       `json:"oldCat"`
		Name      string       `json:"name"`
		Location  string       `json:"location"`
		Content   string       `json:"content"`
		Amount    model.Amount `json:"amount"`
		Category  string       `json:"category"`
		SuggestBy string       `json:"suggestBy"`
		Staff     string       `json:"staff"`
	}
	if err := decodeParams(body, &requestBody); err != nil {
		return nil, err
	}
	if requestBody.OldName == "" || requestBody.OldCat == "" {
		return nil, newParamError("oldName and oldCat are required")
	}
	if !requestBody.Amount.IsSet() {
		return nil, model.NewValidationError("amount is required")
	}

	// 名前と科目が省略された場合は変更しない
	name := requestBody.Name
	if name == "" {
		name = requestBody.OldName
	}
	category := requestBody.Category
	if category == "" {
		category = requestBody.OldCat
	}

	return &UpdateProjectParams{
		OldName:     requestBody.OldName,
		OldCategory: requestBody.OldCat,
		Patch: engine.ProjectPatch{
			Name:          name,
			Category:      category,
			Amount:        requestBody.Amount.Int64(),
			Content:       requestBody.Content,
			Location:      requestBody.Location,
			ProposedBy:    requestBody.SuggestBy,
			AssignedStaff: requestBody.Staff,
		},
	}, nil
}

// NameParams は名前だけを受け取るアクションのパラメータです。
type NameParams struct {
	Name string `json:"name"`
}

// NewNameParams は deleteProject / deleteCase アクションのパラメータを生成します。
func NewNameParams(body []byte) (*NameParams, error) {
	var params NameParams
	if err := decodeParams(body, &params); err != nil {
		return nil, err
	}
	if params.Name == "" {
		return nil, newParamError("name is required")
	}
	return &params, nil
}

// IDParams はIDだけを受け取るアクションのパラメータです。
type IDParams struct {
	ID string `json:"id"`
}

// NewIDParams は deletePayment アクションのパラメータを生成します。
func NewIDParams(body []byte) (*IDParams, error) {
	var params IDParams
	if err := decodeParams(body, &params); err != nil {
		return nil, err
	}
	if params.ID == "" {
		return nil, newParamError("id is required")
	}
	return &params, nil
}

// NewCaseParams は updateFullCase アクションのパラメータを生成します。
// 費用内訳のいずれかが指定された場合、決標金額は内訳の合計になります。
func NewCaseParams(body []byte) (*engine.CaseInput, error) {
	var requestBody struct {
		OldName       string       `json:"oldName"`
		NewName       string       `json:"newName"`
		Status        string       `json:"status"`
		Budget        model.Amount `json:"budget"`
		Vendor        string       `json:"vendor"`
		ConstCost     model.Amount `json:"constCost"`
		PollutionCost model.Amount `json:"pollutionCost"`
		MgmtCost      model.Amount `json:"mgmtCost"`
		CustomCost    model.Amount `json:"customCost"`
		Total         model.Amount `json:"total"`
	}
	if err := decodeParams(body, &requestBody); err != nil {
		return nil, err
	}
	if requestBody.OldName == "" && requestBody.NewName == "" {
		return nil, newParamError("newName is required")
	}

	in := &engine.CaseInput{
		OldName: requestBody.OldName,
		Name:    requestBody.NewName,
		Status:  requestBody.Status,
		Budget:  requestBody.Budget.Int64(),
		Vendor:  requestBody.Vendor,
		Total:   requestBody.Total.Int64(),
	}
	costs := []model.Amount{requestBody.ConstCost, requestBody.PollutionCost, requestBody.MgmtCost, requestBody.CustomCost}
	for _, c := range costs {
		if c.IsSet() {
			in.Costs = &model.CostBreakdown{
				Construction:     requestBody.ConstCost.Int64(),
				PollutionControl: requestBody.PollutionCost.Int64(),
				Management:       requestBody.MgmtCost.Int64(),
				Misc:             requestBody.CustomCost.Int64(),
			}
			break
		}
	}
	return in, nil
}

// AssignParams は assignProject / assignProjects アクションのパラメータです。
type AssignParams struct {
	ProjectNames []string
	CaseName     string
}

// NewAssignParams は assignProject / assignProjects アクションのパラメータを生成します。
func NewAssignParams(body []byte) (*AssignParams, error) {
	var requestBody struct {
		ProjectName  string   `json:"projectName"`
		ProjectNames []string `json:"projectNames"`
		TenderName   string   `json:"tenderName"`
	}
	if err := decodeParams(body, &requestBody); err != nil {
		return nil, err
	}

	names := requestBody.ProjectNames
	if requestBody.ProjectName != "" {
		names = append([]string{requestBody.ProjectName}, names...)
	}
	if len(names) == 0 {
		return nil, newParamError("projectName is required")
	}
	if requestBody.TenderName == "" {
		return nil, newParamError("tenderName is required")
	}
	return &AssignParams{ProjectNames: names, CaseName: requestBody.TenderName}, nil
}

// NewSettingsParams は saveSettings アクションのパラメータを生成します。
// 上限額は数値・数値文字列のどちらでも受け付けます。
func NewSettingsParams(body []byte) (*model.Settings, error) {
	var requestBody struct {
		Config *struct {
			Categories map[string]model.Amount `json:"categories"`
			Suggesters map[string]model.Amount `json:"suggesters"`
			Staff      []model.StaffMember     `json:"staff"`
		} `json:"config"`
	}
	if err := decodeParams(body, &requestBody); err != nil {
		return nil, err
	}
	if requestBody.Config == nil {
		return nil, newParamError("config is required")
	}

	settings := model.NewSettings()
	for name, v := range requestBody.Config.Categories {
		settings.Categories[name] = v.Int64()
	}
	for name, v := range requestBody.Config.Suggesters {
		settings.Suggesters[name] = v.Int64()
	}
	if requestBody.Config.Staff != nil {
		settings.Staff = requestBody.Config.Staff
	}
	return settings, nil
}

// NewSettingsEditParams は設定の部分編集アクションのパラメータを生成します。
// 承辦人はIDで、科目と建議人は名前で指定します。
func NewSettingsEditParams(action string, body []byte) (engine.SettingsEdit, error) {
	var requestBody struct {
		ID      string       `json:"id"`
		Name    string       `json:"name"`
		OldName string       `json:"oldName"`
		NewName string       `json:"newName"`
		Amount  model.Amount `json:"amount"`
	}
	if err := decodeParams(body, &requestBody); err != nil {
		return nil, err
	}

	switch action {
	case ActionAddStaff:
		return engine.AddStaff(requestBody.Name), nil
	case ActionRenameStaff:
		if requestBody.ID == "" {
			return nil, newParamError("id is required")
		}
		return engine.RenameStaff(requestBody.ID, requestBody.Name), nil
	case ActionRemoveStaff:
		if requestBody.ID == "" {
			return nil, newParamError("id is required")
		}
		return engine.RemoveStaff(requestBody.ID), nil
	case ActionSetCategory, ActionSetSuggester:
		if !requestBody.Amount.IsSet() {
			return nil, model.NewValidationError("amount is required")
		}
		if action == ActionSetCategory {
			return engine.SetCategory(requestBody.Name, requestBody.Amount.Int64()), nil
		}
		return engine.SetSuggester(requestBody.Name, requestBody.Amount.Int64()), nil
	case ActionRenameCategory, ActionRenameSuggester:
		if requestBody.OldName == "" {
			return nil, newParamError("oldName is required")
		}
		if action == ActionRenameCategory {
			return engine.RenameCategory(requestBody.OldName, requestBody.NewName), nil
		}
		return engine.RenameSuggester(requestBody.OldName, requestBody.NewName), nil
	case ActionDeleteCategory:
		return engine.DeleteCategory(requestBody.Name), nil
	case ActionDeleteSuggester:
		return engine.DeleteSuggester(requestBody.Name), nil
	}
	return nil, newParamError("unknown action: %q", action)
}

// NewPaymentParams は savePayment アクションのパラメータを生成します。
func NewPaymentParams(body []byte) (*engine.PaymentInput, error) {
	var requestBody struct {
		ID         string       `json:"id"`
		TenderName string       `json:"tenderName"`
		Stage      string       `json:"stage"`
		Amount     model.Amount `json:"amount"`
		Date       string       `json:"date"`
		Invoice    string       `json:"invoice"`
	}
	if err := decodeParams(body, &requestBody); err != nil {
		return nil, err
	}
	if requestBody.TenderName == "" {
		return nil, newParamError("tenderName is required")
	}
	if !requestBody.Amount.IsSet() {
		return nil, model.NewValidationError("amount is required")
	}
	return &engine.PaymentInput{
		ID:       requestBody.ID,
		CaseName: requestBody.TenderName,
		Stage:    requestBody.Stage,
		Amount:   requestBody.Amount.Int64(),
		Date:     requestBody.Date,
		Invoice:  requestBody.Invoice,
	}, nil
}
