package security

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestNewSafeClientTimeout はタイムアウト設定が反映されることをテストする。
func TestNewSafeClientTimeout(t *testing.T) {
	guard := NewURLGuard()
	timeout := 5 * time.Second
	client := guard.NewSafeClient(timeout)
	if client == nil {
		t.Fatal("NewSafeClient() returned nil")
	}
	if client.Timeout != timeout {
		t.Errorf("expected timeout %v, got %v", timeout, client.Timeout)
	}
}

// TestNewSafeClientBlocksLoopback はループバックの上流への接続がブロックされることをテストする。
// httptestサーバーは127.0.0.1で起動されるため、safeurlがブロックする。
func TestNewSafeClientBlocksLoopback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := NewURLGuard().NewSafeClient(2 * time.Second)
	resp, err := client.Get(ts.URL)
	if err == nil {
		resp.Body.Close()
		t.Fatal("expected loopback request to be blocked")
	}
}

func TestValidateURL_Allowed(t *testing.T) {
	guard := NewURLGuard()
	urls := []string{
		"https://prod-files-secure.s3.us-west-2.amazonaws.com/abc/image.png?X-Amz-Signature=x",
		"https://images.unsplash.com/photo-1",
		"http://cdn.example.com/a.jpg",
		"https://8.8.8.8/x.png",
	}
	for _, u := range urls {
		if err := guard.ValidateURL(u); err != nil {
			t.Errorf("ValidateURL(%q) = %v, want nil", u, err)
		}
	}
}

func TestValidateURL_Rejected(t *testing.T) {
	guard := NewURLGuard()
	urls := []string{
		"",
		"javascript:alert(1)",
		"data:image/png;base64,AAAA",
		"ftp://example.com/a.png",
		"https://",
		"http://localhost/a.png",
		"http://app.localhost/a.png",
		"http://127.0.0.1/a.png",
		"http://10.1.2.3/a.png",
		"http://192.168.0.10/a.png",
		"http://169.254.169.254/latest/meta-data",
		"http://[::1]/a.png",
		"http://[::ffff:127.0.0.1]/a.png",
		"http://0.0.0.0/a.png",
	}
	for _, u := range urls {
		err := guard.ValidateURL(u)
		if err == nil {
			t.Errorf("ValidateURL(%q) = nil, want error", u)
			continue
		}
		if !errors.Is(err, ErrUnsafeURL) {
			t.Errorf("ValidateURL(%q) error = %v, want ErrUnsafeURL", u, err)
		}
	}
}
