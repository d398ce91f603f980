// Package model はAPIレスポンスとドメイン間で共有するモデルを定義する。
package model

import (
	"fmt"
	"net/http"
)

// APIError は統一エラーフォーマットを表す。
// Statusはハンドラーが返すHTTPステータスコード。
type APIError struct {
	Code    string // エラーコード
	Message string // エラーメッセージ
	Status  int    // HTTPステータスコード
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeConfigMissing    = "CONFIG_MISSING"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeUpstreamFailure  = "UPSTREAM_FAILURE"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeRateLimited      = "RATE_LIMITED"
)

// NewConfigMissingError は必須設定が未設定の場合のエラーを生成する。
func NewConfigMissingError(keys ...string) *APIError {
	return &APIError{
		Code:    ErrCodeConfigMissing,
		Message: fmt.Sprintf("required configuration is not set: %v", keys),
		Status:  http.StatusBadRequest,
	}
}

// NewMethodNotAllowedError はGET以外のメソッドで呼び出された場合のエラーを生成する。
func NewMethodNotAllowedError(method string) *APIError {
	return &APIError{
		Code:    ErrCodeMethodNotAllowed,
		Message: fmt.Sprintf("method not allowed: %s", method),
		Status:  http.StatusMethodNotAllowed,
	}
}

// NewUpstreamError は上流APIの失敗を表すエラーを生成する。
// 上流のメッセージはそのままクライアントへ返す。
func NewUpstreamError(message string) *APIError {
	return &APIError{
		Code:    ErrCodeUpstreamFailure,
		Message: message,
		Status:  http.StatusInternalServerError,
	}
}

// NewNotFoundError は未定義のパスへのアクセスを表すエラーを生成する。
func NewNotFoundError(path string) *APIError {
	return &APIError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("not found: %s", path),
		Status:  http.StatusNotFound,
	}
}

// NewRateLimitedError はレート制限超過のエラーを生成する。
func NewRateLimitedError() *APIError {
	return &APIError{
		Code:    ErrCodeRateLimited,
		Message: "too many requests, please retry later",
		Status:  http.StatusTooManyRequests,
	}
}

// NewInternalError は予期しない内部エラーを生成する。
func NewInternalError(message string) *APIError {
	return &APIError{
		Code:    ErrCodeInternal,
		Message: message,
		Status:  http.StatusInternalServerError,
	}
}
