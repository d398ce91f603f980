// Package notion はNotion APIのクライアントを提供する。
// データベースのスキーマ取得とクエリのみを扱い、リトライやキャッシュは行わない。
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	// DefaultBaseURL はNotion APIのベースURL。
	DefaultBaseURL = "https://api.notion.com/v1"
	// DefaultVersion はNotion-Versionヘッダーの値。
	DefaultVersion = "2022-06-28"
	// MaxPageSize は1回のクエリで取得できる最大件数。
	MaxPageSize = 100

	// maxResponseSize はレスポンスボディの読み取り上限（10MB）。
	maxResponseSize = 10 << 20
)

// 上流呼び出しの操作名（メトリクスとログのラベル）
const (
	OperationRetrieveDatabase = "retrieve_database"
	OperationQueryDatabase    = "query_database"
)

// ErrMissingToken はAPIトークン未設定で呼び出された場合のエラー。
var ErrMissingToken = errors.New("notion API token is not configured")

// Error はNotion APIがエラーステータスを返した場合のエラー。
type Error struct {
	Status  int
	Code    string
	Message string
}

// Error はerrorインターフェースを実装する。
// 上流のメッセージがあればそれをそのまま返す。
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("notion API returned status %d", e.Status)
}

// Observer は上流呼び出しの結果を受け取る。
// statusCodeはネットワークエラー時0。
type Observer interface {
	ObserveUpstream(operation string, statusCode int, duration time.Duration)
}

// Options はClientの接続設定。
type Options struct {
	BaseURL  string
	Token    string
	Version  string
	Observer Observer
}

// Client はNotion APIのクライアント。
// トークン以外の状態を持たず、複数のgoroutineから同時に使用できる。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	token      string
	version    string
	observer   Observer
}

// NewClient はClientの新しいインスタンスを生成する。
func NewClient(httpClient *http.Client, logger *slog.Logger, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Version == "" {
		opts.Version = DefaultVersion
	}
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		token:      opts.Token,
		version:    opts.Version,
		observer:   opts.Observer,
	}
}

// RetrieveDatabase はデータベースのメタデータ（スキーマ）を取得する。
func (c *Client) RetrieveDatabase(ctx context.Context, databaseID string) (*Database, error) {
	var db Database
	path := "/databases/" + url.PathEscape(databaseID)
	if err := c.do(ctx, OperationRetrieveDatabase, http.MethodGet, path, nil, &db); err != nil {
		return nil, err
	}
	return &db, nil
}

// QueryDatabase はデータベースを1ページ分クエリする。
// ページングはreq.StartCursorとレスポンスのNextCursorで呼び出し元が行う。
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, req QueryRequest) (*QueryResponse, error) {
	if req.PageSize > MaxPageSize {
		req.PageSize = MaxPageSize
	}
	var resp QueryResponse
	path := "/databases/" + url.PathEscape(databaseID) + "/query"
	if err := c.do(ctx, OperationQueryDatabase, http.MethodPost, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do はリクエストを送信し、成功時にレスポンスJSONをoutへデコードする。
func (c *Client) do(ctx context.Context, operation, method, path string, body any, out any) error {
	if c.token == "" {
		return ErrMissingToken
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(operation, 0, time.Since(start))
		c.logger.Error("Notion APIの呼び出しに失敗しました",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("notion %s: %w", operation, err)
	}
	defer resp.Body.Close()
	c.observe(operation, resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		c.logger.Error("レスポンスボディの読み取りに失敗しました",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseError(resp.StatusCode, data)
		c.logger.Warn("Notion APIがエラーステータスを返しました",
			slog.String("operation", operation),
			slog.Int("http_status", resp.StatusCode),
			slog.String("code", apiErr.Code),
		)
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Error("Notion APIのレスポンスのパースに失敗しました",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to parse response JSON: %w", err)
	}
	return nil
}

func (c *Client) observe(operation string, status int, d time.Duration) {
	if c.observer != nil {
		c.observer.ObserveUpstream(operation, status, d)
	}
}

// parseError はエラーレスポンスのボディから code と message を取り出す。
// JSONでない場合はステータスコードのみのエラーになる。
func parseError(status int, body []byte) *Error {
	e := &Error{Status: status}
	if !gjson.ValidBytes(body) {
		return e
	}
	e.Code = gjson.GetBytes(body, "code").String()
	e.Message = gjson.GetBytes(body, "message").String()
	return e
}
