// Package api はtenderbookのAPIサーバー実装を提供します。
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/stsysd/tenderbook/config"
	"github.com/stsysd/tenderbook/engine"
	"github.com/stsysd/tenderbook/model"
)

// maxBodyBytes はリクエストボディの上限です（写真のbase64を含むため大きめ）。
const maxBodyBytes = 32 << 20

// Server はAPIサーバーの構造体です。
type Server struct {
	router  *http.ServeMux
	handler http.Handler
	engine  *engine.Engine
	writer  *engine.Writer
	config  *config.Config
	logger  *slog.Logger
}

// SuccessResponse は成功レスポンスの構造体です。
type SuccessResponse struct {
	Status    string `json:"status"`
	RequestID string `json:"requestId"`
	Revision  int64  `json:"revision"`
	Result    any    `json:"result"`
}

// ErrorResponse はエラーレスポンスの構造体です。
type ErrorResponse struct {
	Status    string `json:"status"`
	Error     string `json:"error"`
	Code      int    `json:"code"`
	RequestID string `json:"requestId,omitempty"`
}

// writeJSON はJSON形式でレスポンスを返却します。
func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// writeJSONError はJSON形式でエラーレスポンスを返却します。
func (s *Server) writeJSONError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	s.writeJSON(w, statusCode, ErrorResponse{
		Status:    "error",
		Error:     message,
		Code:      statusCode,
		RequestID: RequestIDFromContext(r.Context()),
	})
}

// writeError はエラーの種類に応じたステータスコードでエラーレスポンスを返却します。
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusCode(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		s.logger.Error("request failed",
			"requestId", RequestIDFromContext(r.Context()),
			"error", err)
		message = "internal server error"
	}
	s.writeJSONError(w, r, message, code)
}

// statusCode はエラーをHTTPステータスコードに変換します。
func statusCode(err error) int {
	var pe *paramError
	switch {
	case errors.As(err, &pe), model.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrProjectNotFound),
		errors.Is(err, model.ErrCaseNotFound),
		errors.Is(err, model.ErrPaymentNotFound),
		errors.Is(err, model.ErrPhotoNotFound),
		errors.Is(err, model.ErrSettingNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, engine.ErrWriterClosed):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// NewServer は新しいAPIサーバーインスタンスを生成します。
// すべての変更操作は writer を経由して直列に実行されます。
func NewServer(e *engine.Engine, writer *engine.Writer, config *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		router: http.NewServeMux(),
		engine: e,
		writer: writer,
		config: config,
		logger: logger,
	}
	s.routes()
	s.handler = s.requestIDMiddleware(s.loggingMiddleware(s.router))
	return s
}

// routes はAPIエンドポイントのルーティングを設定します。
func (s *Server) routes() {
	s.router.HandleFunc("GET /healthz", s.handleHealthCheck)

	// アクションエンドポイント（従来のクライアントはルートにPOSTする）
	s.router.HandleFunc("POST /exec", s.handleExec)
	s.router.HandleFunc("POST /{$}", s.handleExec)

	// 添付写真
	s.router.HandleFunc("GET /photos/{photo_id}", s.handleGetPhoto)
}

// ServeHTTP はServer構造体をhttp.Handlerとして実装します。
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// handleHealthCheck はヘルスチェックエンドポイントのハンドラーです。
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleExec はアクションを実行するハンドラーです。
func (s *Server) handleExec(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeJSONError(w, r, fmt.Sprintf("failed to read request body: %v", err), http.StatusBadRequest)
		return
	}

	// アクション名の取得
	params, err := NewExecParams(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	requestID := RequestIDFromContext(r.Context())

	// 読み取りはWriterを経由しない
	if params.Action == ActionReadAll {
		view, err := s.engine.ReadAll(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, SuccessResponse{
			Status:    "success",
			RequestID: requestID,
			Revision:  view.Revision,
			Result:    view,
		})
		return
	}

	// 変更操作の組み立て（入力の検証はここで行う）
	task, err := s.buildTask(params.Action, body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, receipt, err := s.writer.Submit(r.Context(), requestID, params.Action, task)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, SuccessResponse{
		Status:    "success",
		RequestID: receipt.RequestID,
		Revision:  receipt.Revision,
		Result:    result,
	})
}

// handleGetPhoto は添付写真を返すハンドラーです。
func (s *Server) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	photo, err := s.engine.Photo(r.Context(), r.PathValue("photo_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	contentType := photo.MIMEType
	if !model.IsPhotoType(contentType) {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(photo.Data)))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "sandbox")
	// 写真は一度保存されると変更されない
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(photo.Data); err != nil {
		s.logger.Error("failed to write photo", "id", photo.ID, "error", err)
	}
}

// Run はサーバーを起動し、ctxが終了するとグレースフルにシャットダウンします。
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s,
	}
	if s.config != nil {
		srv.ReadTimeout = s.config.ReadTimeout
		srv.WriteTimeout = s.config.WriteTimeout
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
