package model

import "time"

// HealthReport は /health のレスポンス内容。
// Envは論理名から値を供給した環境変数名への対応で、値そのものは含まない。
type HealthReport struct {
	OK       bool              `json:"ok"`
	HasToken bool              `json:"hasToken"`
	HasDB    bool              `json:"hasDb"`
	Env      map[string]string `json:"env"`
	Now      time.Time         `json:"now"`
	Errors   []string          `json:"errors"`
}

// DiagReport は /diag のレスポンス内容。
// PlatformTypeとStatusTypeは該当プロパティが見つからない場合nil。
type DiagReport struct {
	OK           bool               `json:"ok"`
	HaveEnv      bool               `json:"haveEnv"`
	ContentDBID  string             `json:"contentDbId"`
	Schema       map[string]string  `json:"schema"`
	Resolved     map[string]*string `json:"resolved"`
	PlatformType *string            `json:"platformType"`
	StatusType   *string            `json:"statusType"`
	Error        string             `json:"error,omitempty"`
}
