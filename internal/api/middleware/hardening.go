package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/labstack/echo/v4"
	"github.com/unrolled/secure"
)

// SecureHeaders sets the standard security response headers. SSL redirects
// are only enforced in production.
func SecureHeaders(production bool) echo.MiddlewareFunc {
	s := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		SSLRedirect:           production,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         !production,
	})
	return echo.WrapMiddleware(s.Handler)
}

// RateLimitByIP allows requestsPerMinute requests per client IP and answers
// 429 with the JSON error envelope beyond that.
func RateLimitByIP(requestsPerMinute int) echo.MiddlewareFunc {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 10
	}
	limiter := httprate.Limit(requestsPerMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "too many requests"})
		}),
	)
	return echo.WrapMiddleware(limiter)
}
