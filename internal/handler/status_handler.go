package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hitoshi/contentgrid/internal/model"
)

// StatusReporter はヘルスチェックと診断を行うサービスのインターフェース。
type StatusReporter interface {
	Health(ctx context.Context) *model.HealthReport
	Diag(ctx context.Context) *model.DiagReport
}

// StatusHandler は /health と /diag のHTTPハンドラー。
type StatusHandler struct {
	service StatusReporter
}

// NewStatusHandler はStatusHandlerを生成する。
func NewStatusHandler(service StatusReporter) *StatusHandler {
	return &StatusHandler{service: service}
}

type healthResponse struct {
	OK       bool              `json:"ok"`
	HasToken bool              `json:"hasToken"`
	HasDB    bool              `json:"hasDb"`
	Env      map[string]string `json:"env"`
	Now      string            `json:"now"`
	Errors   []string          `json:"errors"`
}

type diagResponse struct {
	OK           bool               `json:"ok"`
	HaveEnv      bool               `json:"haveEnv"`
	ContentDBID  string             `json:"contentDbId"`
	Schema       map[string]string  `json:"schema"`
	Resolved     map[string]*string `json:"resolved"`
	PlatformType *string            `json:"platformType"`
	StatusType   *string            `json:"statusType"`
	Error        string             `json:"error,omitempty"`
}

// Health は設定と上流への疎通状況を返す。
// 結果はokフィールドで表し、HTTPステータスは常に200。
// GET /health
func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	report := h.service.Health(r.Context())
	writeJSON(w, http.StatusOK, healthResponse{
		OK:       report.OK,
		HasToken: report.HasToken,
		HasDB:    report.HasDB,
		Env:      report.Env,
		Now:      report.Now.Format(time.RFC3339),
		Errors:   nonNil(report.Errors),
	})
}

// Diag はスキーマ検出の診断結果を返す。
// GET /diag
func (h *StatusHandler) Diag(w http.ResponseWriter, r *http.Request) {
	report := h.service.Diag(r.Context())
	writeJSON(w, http.StatusOK, diagResponse{
		OK:           report.OK,
		HaveEnv:      report.HaveEnv,
		ContentDBID:  report.ContentDBID,
		Schema:       report.Schema,
		Resolved:     report.Resolved,
		PlatformType: report.PlatformType,
		StatusType:   report.StatusType,
		Error:        report.Error,
	})
}
