package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/contentgrid/internal/middleware"
	"github.com/hitoshi/contentgrid/internal/model"
	"github.com/hitoshi/contentgrid/internal/notion"
)

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("レスポンスのエンコードに失敗しました", slog.String("error", err.Error()))
	}
}

// handleServiceError はサービス層から返されたエラーを統一エラーフォーマットに変換する。
// APIError以外は500とし、メッセージはそのまま返す。
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteErrorResponse(w, apiErr)
		return
	}
	if errors.Is(err, notion.ErrMissingToken) {
		middleware.WriteErrorResponse(w, model.NewConfigMissingError("NOTION_TOKEN"))
		return
	}

	slog.Error("リクエストの処理に失敗しました",
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
		slog.String("error", err.Error()),
	)
	middleware.WriteErrorResponse(w, model.NewUpstreamError(err.Error()))
}
