package middleware

import "net/http"

// apiHeaders はすべてのレスポンスに付与するヘッダー。
// データは毎回Notionから取得し直すため、中間キャッシュにも保存させない。
var apiHeaders = map[string]string{
	"X-Content-Type-Options": "nosniff",
	"Referrer-Policy":        "no-referrer",
	"X-Frame-Options":        "DENY",
	"Cache-Control":          "no-store",
}

// NewSecurityHeadersMiddleware はapiHeadersを付与するミドルウェアを返す。
func NewSecurityHeadersMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for k, v := range apiHeaders {
				h.Set(k, v)
			}
			next.ServeHTTP(w, r)
		})
	}
}
