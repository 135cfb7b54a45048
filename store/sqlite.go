// Package store は、データの永続化機能を提供します。
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"
	"github.com/stsysd/tenderbook/db"
	"github.com/stsysd/tenderbook/model"
)

// SQLiteStore はSQLiteを使用したStoreの実装です。
type SQLiteStore struct {
	conn    *sql.DB
	queries *db.Queries
	// トランザクション内で生成されたストアの場合のみ非nil
	tx *sql.Tx
}

// NewSQLiteStore は新しいSQLiteStoreを作成します。
// migrate にはスキーマを準備する関数を渡します（通常は db.Migrate）。
func NewSQLiteStore(dataDir string, migrate func(*sql.DB) error) (*SQLiteStore, error) {
	// データディレクトリの作成（存在しない場合）
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	conn, err := Open(dataDir)
	if err != nil {
		return nil, err
	}

	// マイグレーションの実行
	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize database tables: %w", err)
	}

	return &SQLiteStore{
		conn:    conn,
		queries: db.New(conn),
	}, nil
}

// Open はデータディレクトリ内のSQLiteデータベースに接続します。
func Open(dataDir string) (*sql.DB, error) {
	// SQLiteデータベースファイルのパス
	dbPath := filepath.Join(dataDir, "tenderbook.db")

	// 書き込みトランザクションは即時ロックを取得する
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate", dbPath)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}
	return conn, nil
}

// InTx は fn を単一のトランザクション内で実行します。
// すでにトランザクション内のストアで呼び出された場合は、そのトランザクションをそのまま使います。
func (s *SQLiteStore) InTx(ctx context.Context, fn func(Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	// トランザクションの開始
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// トランザクションをロールバックするための遅延関数
	defer func() {
		if tx != nil {
			tx.Rollback() // 成功した場合は既にnilになっているためエラーは無視
		}
	}()

	txStore := &SQLiteStore{
		conn:    s.conn,
		queries: s.queries.WithTx(tx),
		tx:      tx,
	}
	if err := fn(txStore); err != nil {
		return err
	}

	// トランザクションのコミット
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil // コミットが成功したのでnilにして遅延関数でのロールバックを防ぐ

	return nil
}

// Close はデータベース接続を閉じます。
func (s *SQLiteStore) Close() error {
	if s.tx != nil {
		return nil
	}
	return s.conn.Close()
}

// ---- 工程項目 ----

// ListProjectLines はすべての工程項目を登録順に取得します。
func (s *SQLiteStore) ListProjectLines(ctx context.Context) ([]*model.ProjectLine, error) {
	// sqlcで生成されたクエリを使用
	rows, err := s.queries.ListProjectLines(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list project lines: %w", err)
	}
	return toProjectLines(rows)
}

// ListProjectLinesByName は指定された工程名の工程項目を取得します。
func (s *SQLiteStore) ListProjectLinesByName(ctx context.Context, name string) ([]*model.ProjectLine, error) {
	rows, err := s.queries.ListProjectLinesByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list project lines: %w", err)
	}
	return toProjectLines(rows)
}

// GetProjectLine は指定された工程名と科目の工程項目を取得します。
func (s *SQLiteStore) GetProjectLine(ctx context.Context, name, category string) (*model.ProjectLine, error) {
	row, err := s.queries.GetProjectLine(ctx, db.GetProjectLineParams{
		Name:     name,
		Category: category,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project line: %w", err)
	}
	return toProjectLine(row)
}

// CreateProjectLine は新しい工程項目をデータベースに保存します。
func (s *SQLiteStore) CreateProjectLine(ctx context.Context, line *model.ProjectLine) error {
	// バリデーション
	if err := line.Validate(); err != nil {
		return err
	}

	photos, err := encodePhotoURLs(line.PhotoURLs)
	if err != nil {
		return err
	}

	err = s.queries.CreateProjectLine(ctx, db.CreateProjectLineParams{
		Name:          line.Name,
		Category:      line.Category,
		Content:       line.Content,
		Location:      line.Location,
		ProposedBy:    line.ProposedBy,
		AssignedStaff: line.AssignedStaff,
		Amount:        line.Amount,
		CaseLink:      line.CaseLink,
		PhotoUrls:     photos,
	})
	if err != nil {
		return wrapWriteError("failed to create project line", err)
	}
	return nil
}

// UpdateProjectLine は (oldName, oldCategory) の工程項目を更新します。
func (s *SQLiteStore) UpdateProjectLine(ctx context.Context, oldName, oldCategory string, line *model.ProjectLine) error {
	// バリデーション
	if err := line.Validate(); err != nil {
		return err
	}

	// 更新対象の特定（キー自体が変わる可能性があるためIDで更新する）
	current, err := s.queries.GetProjectLine(ctx, db.GetProjectLineParams{
		Name:     oldName,
		Category: oldCategory,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrProjectNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get project line: %w", err)
	}

	photos, err := encodePhotoURLs(line.PhotoURLs)
	if err != nil {
		return err
	}

	result, err := s.queries.UpdateProjectLine(ctx, db.UpdateProjectLineParams{
		Name:          line.Name,
		Category:      line.Category,
		Content:       line.Content,
		Location:      line.Location,
		ProposedBy:    line.ProposedBy,
		AssignedStaff: line.AssignedStaff,
		Amount:        line.Amount,
		CaseLink:      line.CaseLink,
		PhotoUrls:     photos,
		ID:            current.ID,
	})
	if err != nil {
		return wrapWriteError("failed to update project line", err)
	}

	// 更新された行数を確認
	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrProjectNotFound
	}
	return nil
}

// DeleteProjectLines は指定された工程名のすべての工程項目を削除します。
func (s *SQLiteStore) DeleteProjectLines(ctx context.Context, name string) (int, error) {
	result, err := s.queries.DeleteProjectLinesByName(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("failed to delete project lines: %w", err)
	}
	return rowsAffected(result)
}

// SetProjectCaseLink は指定された工程名のすべての工程項目の連結先を設定します。
func (s *SQLiteStore) SetProjectCaseLink(ctx context.Context, name, caseLink string) (int, error) {
	result, err := s.queries.SetProjectCaseLink(ctx, db.SetProjectCaseLinkParams{
		CaseLink: caseLink,
		Name:     name,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to set case link: %w", err)
	}
	return rowsAffected(result)
}

// RelinkCase は連結先が from の工程項目をすべて to に付け替えます。
func (s *SQLiteStore) RelinkCase(ctx context.Context, from, to string) (int, error) {
	result, err := s.queries.RelinkCase(ctx, db.RelinkCaseParams{
		ToCase:   to,
		FromCase: from,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to relink project lines: %w", err)
	}
	return rowsAffected(result)
}

// ---- 標案 ----

// ListCases はすべての標案を登録順に取得します。
func (s *SQLiteStore) ListCases(ctx context.Context) ([]*model.Case, error) {
	rows, err := s.queries.ListCases(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}

	// 結果の変換
	cases := make([]*model.Case, 0, len(rows))
	for _, row := range rows {
		cases = append(cases, toCase(row))
	}
	return cases, nil
}

// GetCase は指定された名前の標案を取得します。
func (s *SQLiteStore) GetCase(ctx context.Context, name string) (*model.Case, error) {
	row, err := s.queries.GetCase(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrCaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	return toCase(row), nil
}

// CreateCase は新しい標案をデータベースに保存します。
func (s *SQLiteStore) CreateCase(ctx context.Context, c *model.Case) error {
	// バリデーション
	if err := c.Validate(); err != nil {
		return err
	}

	p := caseParams(c)
	err := s.queries.CreateCase(ctx, db.CreateCaseParams{
		Name:             p.Name,
		ProposedBudget:   p.ProposedBudget,
		AwardedTotal:     p.AwardedTotal,
		Status:           p.Status,
		Vendor:           p.Vendor,
		HasBreakdown:     p.HasBreakdown,
		ConstructionCost: p.ConstructionCost,
		PollutionCost:    p.PollutionCost,
		ManagementCost:   p.ManagementCost,
		MiscCost:         p.MiscCost,
	})
	if err != nil {
		return wrapWriteError("failed to create case", err)
	}
	return nil
}

// UpdateCase は oldName の標案を更新します。
func (s *SQLiteStore) UpdateCase(ctx context.Context, oldName string, c *model.Case) error {
	// バリデーション
	if err := c.Validate(); err != nil {
		return err
	}

	p := caseParams(c)
	p.OldName = oldName
	result, err := s.queries.UpdateCase(ctx, p)
	if err != nil {
		return wrapWriteError("failed to update case", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrCaseNotFound
	}
	return nil
}

// DeleteCase は指定された名前の標案を削除します。
func (s *SQLiteStore) DeleteCase(ctx context.Context, name string) error {
	result, err := s.queries.DeleteCase(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to delete case: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrCaseNotFound
	}
	return nil
}

// ---- 請款 ----

// ListPayments はすべての請款を登録順に取得します。
func (s *SQLiteStore) ListPayments(ctx context.Context) ([]*model.Payment, error) {
	rows, err := s.queries.ListPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return toPayments(rows), nil
}

// GetPayment は指定されたIDの請款を取得します。
func (s *SQLiteStore) GetPayment(ctx context.Context, id string) (*model.Payment, error) {
	row, err := s.queries.GetPayment(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return toPayment(row), nil
}

// CreatePayment は新しい請款をデータベースに保存します。
func (s *SQLiteStore) CreatePayment(ctx context.Context, p *model.Payment) error {
	// バリデーション
	if err := p.Validate(); err != nil {
		return err
	}

	err := s.queries.CreatePayment(ctx, db.CreatePaymentParams{
		ID:       p.ID,
		CaseName: p.CaseName,
		Stage:    p.Stage,
		Amount:   p.Amount,
		PaidOn:   p.Date,
		Invoice:  p.Invoice,
	})
	if err != nil {
		return wrapWriteError("failed to create payment", err)
	}
	return nil
}

// UpdatePayment は指定されたIDの請款を更新します。
func (s *SQLiteStore) UpdatePayment(ctx context.Context, p *model.Payment) error {
	// バリデーション
	if err := p.Validate(); err != nil {
		return err
	}

	result, err := s.queries.UpdatePayment(ctx, db.UpdatePaymentParams{
		CaseName: p.CaseName,
		Stage:    p.Stage,
		Amount:   p.Amount,
		PaidOn:   p.Date,
		Invoice:  p.Invoice,
		ID:       p.ID,
	})
	if err != nil {
		return wrapWriteError("failed to update payment", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrPaymentNotFound
	}
	return nil
}

// DeletePayment は指定されたIDの請款を削除します。
func (s *SQLiteStore) DeletePayment(ctx context.Context, id string) error {
	result, err := s.queries.DeletePayment(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrPaymentNotFound
	}
	return nil
}

// DeletePaymentsByCase は指定された標案の請款をすべて削除します。
func (s *SQLiteStore) DeletePaymentsByCase(ctx context.Context, caseName string) (int, error) {
	result, err := s.queries.DeletePaymentsByCase(ctx, caseName)
	if err != nil {
		return 0, fmt.Errorf("failed to delete payments: %w", err)
	}
	return rowsAffected(result)
}

// RenamePaymentCase は標案名 from の請款をすべて to に付け替えます。
func (s *SQLiteStore) RenamePaymentCase(ctx context.Context, from, to string) (int, error) {
	result, err := s.queries.RenamePaymentCase(ctx, db.RenamePaymentCaseParams{
		ToCase:   to,
		FromCase: from,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to rename payment case: %w", err)
	}
	return rowsAffected(result)
}

// ---- 設定 ----

// LoadSettings は設定全体を読み込みます。
func (s *SQLiteStore) LoadSettings(ctx context.Context) (*model.Settings, error) {
	settings := model.NewSettings()

	categories, err := s.queries.ListSettingCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	for _, c := range categories {
		settings.Categories[c.Name] = c.Budget
	}

	suggesters, err := s.queries.ListSettingSuggesters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list suggesters: %w", err)
	}
	for _, sg := range suggesters {
		settings.Suggesters[sg.Name] = sg.Quota
	}

	staff, err := s.queries.ListSettingStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	for _, m := range staff {
		settings.Staff = append(settings.Staff, model.StaffMember{ID: m.ID, Name: m.Name})
	}

	return settings, nil
}

// SaveSettings は設定全体を置き換えます（部分的なマージは行いません）。
func (s *SQLiteStore) SaveSettings(ctx context.Context, settings *model.Settings) error {
	// バリデーション
	if err := settings.Validate(); err != nil {
		return err
	}

	return s.InTx(ctx, func(st Store) error {
		q := st.(*SQLiteStore).queries

		// 既存の設定をすべて削除
		if err := q.ClearSettingCategories(ctx); err != nil {
			return fmt.Errorf("failed to clear categories: %w", err)
		}
		if err := q.ClearSettingSuggesters(ctx); err != nil {
			return fmt.Errorf("failed to clear suggesters: %w", err)
		}
		if err := q.ClearSettingStaff(ctx); err != nil {
			return fmt.Errorf("failed to clear staff: %w", err)
		}

		// 科目と建議人は名前順に保存
		for i, name := range settings.CategoryNames() {
			err := q.CreateSettingCategory(ctx, db.CreateSettingCategoryParams{
				Name:     name,
				Budget:   settings.Categories[name],
				Position: int64(i),
			})
			if err != nil {
				return fmt.Errorf("failed to create category %s: %w", name, err)
			}
		}
		for i, name := range settings.SuggesterNames() {
			err := q.CreateSettingSuggester(ctx, db.CreateSettingSuggesterParams{
				Name:     name,
				Quota:    settings.Suggesters[name],
				Position: int64(i),
			})
			if err != nil {
				return fmt.Errorf("failed to create suggester %s: %w", name, err)
			}
		}
		// 承辦人は並び順を保持
		for i, m := range settings.Staff {
			err := q.CreateSettingStaff(ctx, db.CreateSettingStaffParams{
				ID:       m.ID,
				Name:     m.Name,
				Position: int64(i),
			})
			if err != nil {
				return fmt.Errorf("failed to create staff %s: %w", m.Name, err)
			}
		}
		return nil
	})
}

// ---- 写真 ----

// CreatePhoto は写真を保存します。
func (s *SQLiteStore) CreatePhoto(ctx context.Context, photo *model.Photo) error {
	err := s.queries.CreatePhoto(ctx, db.CreatePhotoParams{
		ID:       photo.ID,
		MimeType: photo.MIMEType,
		Data:     photo.Data,
	})
	if err != nil {
		return wrapWriteError("failed to create photo", err)
	}
	return nil
}

// GetPhoto は指定されたIDの写真を取得します。
func (s *SQLiteStore) GetPhoto(ctx context.Context, id string) (*model.Photo, error) {
	row, err := s.queries.GetPhoto(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPhotoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return &model.Photo{ID: row.ID, MIMEType: row.MimeType, Data: row.Data}, nil
}

// ---- 変換ヘルパー ----

func toProjectLines(rows []db.ProjectLine) ([]*model.ProjectLine, error) {
	lines := make([]*model.ProjectLine, 0, len(rows))
	for _, row := range rows {
		line, err := toProjectLine(row)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func toProjectLine(row db.ProjectLine) (*model.ProjectLine, error) {
	var photos []string
	if err := json.Unmarshal([]byte(row.PhotoUrls), &photos); err != nil {
		return nil, fmt.Errorf("invalid photo_urls in database: %w", err)
	}
	if photos == nil {
		photos = []string{}
	}
	return &model.ProjectLine{
		Name:          row.Name,
		Content:       row.Content,
		Location:      row.Location,
		ProposedBy:    row.ProposedBy,
		AssignedStaff: row.AssignedStaff,
		Amount:        row.Amount,
		Category:      row.Category,
		CaseLink:      row.CaseLink,
		PhotoURLs:     photos,
	}, nil
}

func encodePhotoURLs(urls []string) (string, error) {
	if urls == nil {
		urls = []string{}
	}
	b, err := json.Marshal(urls)
	if err != nil {
		return "", fmt.Errorf("failed to encode photo urls: %w", err)
	}
	return string(b), nil
}

func toCase(row db.Case) *model.Case {
	c := &model.Case{
		Name:           row.Name,
		ProposedBudget: row.ProposedBudget,
		AwardedTotal:   row.AwardedTotal,
		Status:         model.CaseStatus(row.Status),
		Vendor:         row.Vendor,
	}
	if row.HasBreakdown != 0 {
		c.Costs = &model.CostBreakdown{
			Construction:     row.ConstructionCost,
			PollutionControl: row.PollutionCost,
			Management:       row.ManagementCost,
			Misc:             row.MiscCost,
		}
	}
	return c
}

func caseParams(c *model.Case) db.UpdateCaseParams {
	p := db.UpdateCaseParams{
		Name:           c.Name,
		ProposedBudget: c.ProposedBudget,
		AwardedTotal:   c.AwardedTotal,
		Status:         string(c.Status),
		Vendor:         c.Vendor,
	}
	if c.Costs != nil {
		p.HasBreakdown = 1
		p.ConstructionCost = c.Costs.Construction
		p.PollutionCost = c.Costs.PollutionControl
		p.ManagementCost = c.Costs.Management
		p.MiscCost = c.Costs.Misc
	}
	return p
}

func toPayments(rows []db.Payment) []*model.Payment {
	payments := make([]*model.Payment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, toPayment(row))
	}
	return payments
}

func toPayment(row db.Payment) *model.Payment {
	return &model.Payment{
		ID:       row.ID,
		CaseName: row.CaseName,
		Stage:    row.Stage,
		Amount:   row.Amount,
		Date:     row.PaidOn,
		Invoice:  row.Invoice,
	}
}

// rowsAffected は更新された行数を返します。
func rowsAffected(result sql.Result) (int, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}

// wrapWriteError は一意制約違反を model.ErrConflict に変換します。
func wrapWriteError(msg string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return fmt.Errorf("%s: %w", msg, model.ErrConflict)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// CurrentRevision は現在の通し番号を返します。
func (s *SQLiteStore) CurrentRevision(ctx context.Context) (int64, error) {
	rev, err := s.queries.GetRevision(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get revision: %w", err)
	}
	return rev, nil
}

// BumpRevision は通し番号を1つ進めます。変更と同じトランザクション内で呼び出します。
func (s *SQLiteStore) BumpRevision(ctx context.Context) (int64, error) {
	rev, err := s.queries.BumpRevision(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to bump revision: %w", err)
	}
	return rev, nil
}
