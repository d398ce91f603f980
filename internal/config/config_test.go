package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearNotionEnv はテスト環境に残っている別名の環境変数を空にする。
func clearNotionEnv(t *testing.T) {
	t.Helper()
	for _, envs := range envAliases {
		for _, env := range envs {
			t.Setenv(env, "")
		}
	}
}

func TestLoad_PrimaryEnvNames(t *testing.T) {
	clearNotionEnv(t)
	t.Setenv("NOTION_TOKEN", "secret_abc")
	t.Setenv("NOTION_DB_ID", "db-content")
	t.Setenv("NOTION_CLIENTS_DB_ID", "db-clients")
	t.Setenv("NOTION_PROJECTS_DB_ID", "db-projects")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Token != "secret_abc" {
		t.Errorf("Token = %q, want %q", cfg.Token, "secret_abc")
	}
	if cfg.Databases.Content != "db-content" {
		t.Errorf("Databases.Content = %q, want %q", cfg.Databases.Content, "db-content")
	}
	if cfg.Databases.Clients != "db-clients" {
		t.Errorf("Databases.Clients = %q, want %q", cfg.Databases.Clients, "db-clients")
	}
	if cfg.Databases.Projects != "db-projects" {
		t.Errorf("Databases.Projects = %q, want %q", cfg.Databases.Projects, "db-projects")
	}
	if !cfg.HasToken() || !cfg.HasContentDB() {
		t.Error("HasToken/HasContentDB should be true")
	}
}

func TestLoad_AliasEnvNames(t *testing.T) {
	clearNotionEnv(t)
	t.Setenv("NOTION_API_KEY", "secret_alias")
	t.Setenv("NOTION_DATABASE_ID", "db-alias")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Token != "secret_alias" {
		t.Errorf("Token = %q, want %q", cfg.Token, "secret_alias")
	}
	if cfg.Databases.Content != "db-alias" {
		t.Errorf("Databases.Content = %q, want %q", cfg.Databases.Content, "db-alias")
	}
	if cfg.Sources[KeyToken] != "NOTION_API_KEY" {
		t.Errorf("Sources[token] = %q, want %q", cfg.Sources[KeyToken], "NOTION_API_KEY")
	}
	if cfg.Sources[KeyContentDB] != "NOTION_DATABASE_ID" {
		t.Errorf("Sources[content_db] = %q, want %q", cfg.Sources[KeyContentDB], "NOTION_DATABASE_ID")
	}
	if cfg.Sources[KeyClientsDB] != "" {
		t.Errorf("Sources[clients_db] = %q, want empty", cfg.Sources[KeyClientsDB])
	}
}

func TestLoad_MissingRequiredDoesNotFail(t *testing.T) {
	clearNotionEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HasToken() {
		t.Error("HasToken should be false")
	}
	if cfg.HasContentDB() {
		t.Error("HasContentDB should be false")
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearNotionEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.APIBaseURL != "https://api.notion.com/v1" {
		t.Errorf("APIBaseURL = %q, want %q", cfg.APIBaseURL, "https://api.notion.com/v1")
	}
	if cfg.APIVersion != "2022-06-28" {
		t.Errorf("APIVersion = %q, want %q", cfg.APIVersion, "2022-06-28")
	}
	if cfg.UpstreamTimeout != 15*time.Second {
		t.Errorf("UpstreamTimeout = %v, want %v", cfg.UpstreamTimeout, 15*time.Second)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want %q", cfg.ServerPort, "8080")
	}
	if cfg.GridDefaultPageSize != 12 {
		t.Errorf("GridDefaultPageSize = %d, want %d", cfg.GridDefaultPageSize, 12)
	}
	if cfg.GridMaxPageSize != 50 {
		t.Errorf("GridMaxPageSize = %d, want %d", cfg.GridMaxPageSize, 50)
	}
	if cfg.FacetMaxPages != 10 {
		t.Errorf("FacetMaxPages = %d, want %d", cfg.FacetMaxPages, 10)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("CORSAllowedOrigins = %v, want [*]", cfg.CORSAllowedOrigins)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
}

func TestLoad_MaxPageSizeIsHardCapped(t *testing.T) {
	clearNotionEnv(t)
	t.Setenv("GRID_MAX_PAGE_SIZE", "500")
	t.Setenv("GRID_DEFAULT_PAGE_SIZE", "80")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.GridMaxPageSize != 50 {
		t.Errorf("GridMaxPageSize = %d, want %d", cfg.GridMaxPageSize, 50)
	}
	if cfg.GridDefaultPageSize != 50 {
		t.Errorf("GridDefaultPageSize = %d, want %d", cfg.GridDefaultPageSize, 50)
	}
}

func TestLoad_CustomOverrides(t *testing.T) {
	clearNotionEnv(t)
	t.Setenv("NOTION_TIMEOUT", "5s")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGIN", "https://a.example.com, https://b.example.com")
	t.Setenv("FACET_MAX_PAGES", "3")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.UpstreamTimeout != 5*time.Second {
		t.Errorf("UpstreamTimeout = %v, want %v", cfg.UpstreamTimeout, 5*time.Second)
	}
	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q, want %q", cfg.ServerPort, "9090")
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.FacetMaxPages != 3 {
		t.Errorf("FacetMaxPages = %d, want %d", cfg.FacetMaxPages, 3)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	clearNotionEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "notion:\n  content_db: db-from-file\ngrid:\n  default_page_size: 8\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Databases.Content != "db-from-file" {
		t.Errorf("Databases.Content = %q, want %q", cfg.Databases.Content, "db-from-file")
	}
	if cfg.GridDefaultPageSize != 8 {
		t.Errorf("GridDefaultPageSize = %d, want %d", cfg.GridDefaultPageSize, 8)
	}
}

func TestLoad_EnvOverridesConfigFile(t *testing.T) {
	clearNotionEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("notion:\n  content_db: db-from-file\n"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("NOTION_DB_ID", "db-from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Databases.Content != "db-from-env" {
		t.Errorf("Databases.Content = %q, want %q", cfg.Databases.Content, "db-from-env")
	}
}

func TestLoad_MissingConfigFile_ReturnsError(t *testing.T) {
	clearNotionEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file, got nil")
	}
}

func TestConfig_MissingRequired(t *testing.T) {
	cfg := &Config{}
	got := cfg.MissingRequired()
	if len(got) != 2 || got[0] != "NOTION_TOKEN" || got[1] != "NOTION_DB_ID" {
		t.Errorf("MissingRequired() = %v, want [NOTION_TOKEN NOTION_DB_ID]", got)
	}

	cfg.Token = "secret"
	got = cfg.MissingRequired()
	if len(got) != 1 || got[0] != "NOTION_DB_ID" {
		t.Errorf("MissingRequired() = %v, want [NOTION_DB_ID]", got)
	}

	cfg.Databases.Content = "db"
	if got := cfg.MissingRequired(); len(got) != 0 {
		t.Errorf("MissingRequired() = %v, want empty", got)
	}
}

func TestLoad_UpstreamTimeoutInvalidFallsBackToDefault(t *testing.T) {
	for _, raw := range []string{"15", "abc", "500ns", "-3s"} {
		t.Run(raw, func(t *testing.T) {
			clearNotionEnv(t)
			t.Setenv("NOTION_TIMEOUT", raw)

			cfg, err := Load("")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if cfg.UpstreamTimeout != 15*time.Second {
				t.Errorf("NOTION_TIMEOUT=%q: UpstreamTimeout = %v, want %v", raw, cfg.UpstreamTimeout, 15*time.Second)
			}
		})
	}
}

func TestLoad_UpstreamTimeoutFromConfigFile(t *testing.T) {
	clearNotionEnv(t)
	t.Setenv("NOTION_TIMEOUT", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("notion:\n  timeout: 2m\n"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.UpstreamTimeout != 2*time.Minute {
		t.Errorf("UpstreamTimeout = %v, want %v", cfg.UpstreamTimeout, 2*time.Minute)
	}
}

func TestLoad_TrustedProxies(t *testing.T) {
	clearNotionEnv(t)
	t.Setenv("TRUSTED_PROXIES", "172.16.0.0/12, 10.0.0.7")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(cfg.TrustedProxies) != 2 {
		t.Fatalf("TrustedProxies = %v, want 2 entries", cfg.TrustedProxies)
	}
	if cfg.TrustedProxies[0].String() != "172.16.0.0/12" || cfg.TrustedProxies[1].String() != "10.0.0.7/32" {
		t.Errorf("TrustedProxies = %v", cfg.TrustedProxies)
	}
}

func TestLoad_InvalidTrustedProxyReturnsError(t *testing.T) {
	clearNotionEnv(t)
	t.Setenv("TRUSTED_PROXIES", "not-an-ip")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for invalid TRUSTED_PROXIES")
	}
}
