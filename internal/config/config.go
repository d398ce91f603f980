// Package config はアプリケーション全体の設定を読み込む。
package config

import (
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// defaultUpstreamTimeout は上流呼び出しのタイムアウトのデフォルト値。
const defaultUpstreamTimeout = 15 * time.Second

// minUpstreamTimeout はこれ未満のタイムアウト設定を無効として扱う下限。
const minUpstreamTimeout = time.Millisecond

// hardMaxPageSize はグリッドの1ページあたり件数の絶対上限。
// 設定値でもこれを超えることはできない。
const hardMaxPageSize = 50

// 設定キー
const (
	KeyToken           = "notion.token"
	KeyContentDB       = "notion.content_db"
	KeyClientsDB       = "notion.clients_db"
	KeyProjectsDB      = "notion.projects_db"
	KeyAPIBaseURL      = "notion.api_base_url"
	KeyAPIVersion      = "notion.version"
	KeyUpstreamTimeout = "notion.timeout"
	KeyServerPort      = "server.port"
	KeyCORSOrigins     = "server.cors_allowed_origins"
	KeyRateLimit       = "server.rate_limit_per_minute"
	KeyTrustedProxies  = "server.trusted_proxies"
	KeyGridDefaultSize = "grid.default_page_size"
	KeyGridMaxSize     = "grid.max_page_size"
	KeyFacetMaxPages   = "facets.max_pages"
	KeyFacetLocale     = "facets.sort_locale"
	KeyLogLevel        = "log.level"
)

// envAliases は設定キーごとに受け付ける環境変数名。
// 先頭のものが優先され、残りは後方互換のための別名。
var envAliases = map[string][]string{
	KeyToken:           {"NOTION_TOKEN", "NOTION_API_KEY", "NOTION_SECRET"},
	KeyContentDB:       {"NOTION_DB_ID", "NOTION_DATABASE_ID", "NOTION_CONTENT_DB_ID", "CONTENT_DB_ID"},
	KeyClientsDB:       {"NOTION_CLIENTS_DB_ID", "CLIENTS_DB_ID", "NOTION_CLIENTS_DB"},
	KeyProjectsDB:      {"NOTION_PROJECTS_DB_ID", "PROJECTS_DB_ID", "NOTION_PROJECTS_DB"},
	KeyAPIBaseURL:      {"NOTION_API_BASE_URL"},
	KeyAPIVersion:      {"NOTION_VERSION"},
	KeyUpstreamTimeout: {"NOTION_TIMEOUT"},
	KeyServerPort:      {"SERVER_PORT", "PORT"},
	KeyCORSOrigins:     {"CORS_ALLOWED_ORIGIN"},
	KeyRateLimit:       {"RATE_LIMIT_GENERAL"},
	KeyTrustedProxies:  {"TRUSTED_PROXIES"},
	KeyGridDefaultSize: {"GRID_DEFAULT_PAGE_SIZE"},
	KeyGridMaxSize:     {"GRID_MAX_PAGE_SIZE"},
	KeyFacetMaxPages:   {"FACET_MAX_PAGES"},
	KeyFacetLocale:     {"FACET_SORT_LOCALE"},
	KeyLogLevel:        {"LOG_LEVEL"},
}

// Databases は参照するNotionデータベースのID。
// ClientsとProjectsは任意で、空の場合はIDを表示名として使う。
type Databases struct {
	Content  string
	Clients  string
	Projects string
}

// Config はアプリケーション全体の設定を保持する。
// 起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Notion
	Token           string
	Databases       Databases
	APIBaseURL      string
	APIVersion      string
	UpstreamTimeout time.Duration

	// Server
	ServerPort         string
	CORSAllowedOrigins []string
	RateLimitPerMinute int
	// TrustedProxies はX-Forwarded-Forを信頼するリバースプロキシのアドレス範囲
	TrustedProxies     []netip.Prefix

	// Grid
	GridDefaultPageSize int
	GridMaxPageSize     int

	// Facets
	FacetMaxPages   int
	FacetSortLocale string

	// Logging
	LogLevel string

	// Sources は設定キーごとに値を供給した環境変数名を保持する。
	// 値そのもの（トークン等）は含まない。
	Sources map[string]string
}

// HasToken はAPIトークンが設定されているかを返す。
func (c *Config) HasToken() bool {
	return c.Token != ""
}

// HasContentDB はコンテンツDBのIDが設定されているかを返す。
func (c *Config) HasContentDB() bool {
	return c.Databases.Content != ""
}

// MissingRequired は未設定の必須項目を代表の環境変数名で返す。
// すべて設定済みの場合は空スライス。
func (c *Config) MissingRequired() []string {
	missing := []string{}
	if !c.HasToken() {
		missing = append(missing, envAliases[KeyToken][0])
	}
	if !c.HasContentDB() {
		missing = append(missing, envAliases[KeyContentDB][0])
	}
	return missing
}

// Load は設定ファイル（任意）と環境変数からConfigを読み込む。
// configFileが空の場合は環境変数とデフォルト値のみを使う。
// トークンやDB IDが未設定でもエラーにはしない（リクエスト単位で400を返す）。
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, envs := range envAliases {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		Token: strings.TrimSpace(v.GetString(KeyToken)),
		Databases: Databases{
			Content:  strings.TrimSpace(v.GetString(KeyContentDB)),
			Clients:  strings.TrimSpace(v.GetString(KeyClientsDB)),
			Projects: strings.TrimSpace(v.GetString(KeyProjectsDB)),
		},
		APIBaseURL:          strings.TrimRight(v.GetString(KeyAPIBaseURL), "/"),
		APIVersion:          v.GetString(KeyAPIVersion),
		UpstreamTimeout:     parseDuration(v.GetString(KeyUpstreamTimeout), defaultUpstreamTimeout),
		ServerPort:          v.GetString(KeyServerPort),
		CORSAllowedOrigins:  splitList(v.GetString(KeyCORSOrigins)),
		RateLimitPerMinute:  v.GetInt(KeyRateLimit),
		GridDefaultPageSize: v.GetInt(KeyGridDefaultSize),
		GridMaxPageSize:     v.GetInt(KeyGridMaxSize),
		FacetMaxPages:       v.GetInt(KeyFacetMaxPages),
		FacetSortLocale:     v.GetString(KeyFacetLocale),
		LogLevel:            strings.ToLower(v.GetString(KeyLogLevel)),
		Sources:             resolveSources(),
	}

	proxies, err := parsePrefixes(splitList(v.GetString(KeyTrustedProxies)))
	if err != nil {
		return nil, err
	}
	cfg.TrustedProxies = proxies

	if cfg.GridMaxPageSize <= 0 || cfg.GridMaxPageSize > hardMaxPageSize {
		cfg.GridMaxPageSize = hardMaxPageSize
	}
	if cfg.GridDefaultPageSize <= 0 {
		cfg.GridDefaultPageSize = 12
	}
	if cfg.GridDefaultPageSize > cfg.GridMaxPageSize {
		cfg.GridDefaultPageSize = cfg.GridMaxPageSize
	}
	if cfg.FacetMaxPages <= 0 {
		cfg.FacetMaxPages = 10
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIBaseURL, "https://api.notion.com/v1")
	v.SetDefault(KeyAPIVersion, "2022-06-28")
	v.SetDefault(KeyUpstreamTimeout, defaultUpstreamTimeout.String())
	v.SetDefault(KeyServerPort, "8080")
	v.SetDefault(KeyCORSOrigins, "*")
	v.SetDefault(KeyRateLimit, 120)
	v.SetDefault(KeyGridDefaultSize, 12)
	v.SetDefault(KeyGridMaxSize, hardMaxPageSize)
	v.SetDefault(KeyFacetMaxPages, 10)
	v.SetDefault(KeyFacetLocale, "und")
	v.SetDefault(KeyLogLevel, "info")
}

// resolveSources はNotion関連キーごとに、値を供給した環境変数名を返す。
// どの別名も設定されていないキーは空文字列になる。
func resolveSources() map[string]string {
	keys := []string{KeyToken, KeyContentDB, KeyClientsDB, KeyProjectsDB}
	sources := make(map[string]string, len(keys))
	for _, key := range keys {
		sources[key] = ""
		for _, env := range envAliases[key] {
			if strings.TrimSpace(os.Getenv(env)) != "" {
				sources[key] = env
				break
			}
		}
	}
	return sources
}

// parseDuration は "15s" 形式の文字列をtime.Durationに変換する。
// 単位のない数値や解析できない値、下限未満の値はdefaultValになる。
func parseDuration(raw string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || d < minUpstreamTimeout {
		return defaultVal
	}
	return d
}

// parsePrefixes はCIDRまたは単一IPのリストをnetip.Prefixに変換する。
func parsePrefixes(values []string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, v := range values {
		if strings.Contains(v, "/") {
			p, err := netip.ParsePrefix(v)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", v, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", v, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// splitList はカンマ区切りの文字列を空要素を除いたスライスに分割する。
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
