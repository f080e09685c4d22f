package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// TestRateLimiter_AllowsWithinLimit はバースト内のリクエストが通ることを検証する。
func TestRateLimiter_AllowsWithinLimit(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		GeneralRate:     rate.Limit(1),
		GeneralBurst:    3,
		RefreshRate:     rate.Limit(1),
		RefreshBurst:    1,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, w.Code)
		}
	}
}

// TestRateLimiter_RejectsOverLimit はバースト超過が429になることを検証する。
func TestRateLimiter_RejectsOverLimit(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		GeneralRate:     rate.Limit(0.01),
		GeneralBurst:    1,
		RefreshRate:     rate.Limit(1),
		RefreshBurst:    1,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	req.RemoteAddr = "10.0.0.2:1234"

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first request: status = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("second request: status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("429 response missing Retry-After header")
	}
}

// TestRateLimiter_PerClientIsolation はIPごとに独立の制限が働くことを検証する。
func TestRateLimiter_PerClientIsolation(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		GeneralRate:     rate.Limit(0.01),
		GeneralBurst:    1,
		RefreshRate:     rate.Limit(1),
		RefreshBurst:    1,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(okHandler())

	reqA := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	reqA.RemoteAddr = "10.0.0.3:1234"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, reqA)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, reqA)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("client A second request: status = %d, want 429", w.Code)
	}

	// 別のIPは影響を受けない
	reqB := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	reqB.RemoteAddr = "10.0.0.4:1234"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, reqB)
	if w.Code != http.StatusOK {
		t.Errorf("client B: status = %d, want 200", w.Code)
	}

	if rl.GeneralLimiterCount() != 2 {
		t.Errorf("limiter count = %d, want 2", rl.GeneralLimiterCount())
	}
}

// TestRateLimiter_RefreshIndependent はリフレッシュ制限がAPI全般と独立なことを検証する。
func TestRateLimiter_RefreshIndependent(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		GeneralRate:     rate.Limit(1),
		GeneralBurst:    100,
		RefreshRate:     rate.Limit(0.01),
		RefreshBurst:    1,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	general := rl.GeneralMiddleware()(okHandler())
	refresh := rl.RefreshMiddleware()(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	req.RemoteAddr = "10.0.0.5:1234"

	w := httptest.NewRecorder()
	refresh.ServeHTTP(w, req)
	w = httptest.NewRecorder()
	refresh.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second refresh: status = %d, want 429", w.Code)
	}

	// リフレッシュが枯渇してもAPI全般は通る
	w = httptest.NewRecorder()
	general.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("general after refresh exhausted: status = %d, want 200", w.Code)
	}
}

// TestRateLimiter_RecreatesAfterCleanup はクリーンアップで削除されたエントリが
// 次のリクエストで作り直されることを検証する。
func TestRateLimiter_RecreatesAfterCleanup(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		GeneralRate:     rate.Limit(1),
		GeneralBurst:    3,
		RefreshRate:     rate.Limit(1),
		RefreshBurst:    1,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	req.RemoteAddr = "10.0.0.6:1234"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first request: status = %d, want 200", w.Code)
	}

	// 最終アクセスをTTL超過まで巻き戻してクリーンアップ対象にする
	rl.generalMu.Lock()
	rl.generalLimiters["10.0.0.6"].lastAccess = time.Now().Add(-3 * rl.config.CleanupInterval)
	rl.generalMu.Unlock()

	rl.cleanup()
	if rl.GeneralLimiterCount() != 0 {
		t.Fatalf("limiter count after cleanup = %d, want 0", rl.GeneralLimiterCount())
	}

	// 削除後のリクエストはエントリを作り直して通る
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("request after cleanup: status = %d, want 200", w.Code)
	}
	if rl.GeneralLimiterCount() != 1 {
		t.Errorf("limiter count = %d, want 1", rl.GeneralLimiterCount())
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		want       string
	}{
		{"remote addr", "192.0.2.1:5000", "", "192.0.2.1"},
		{"forwarded single", "10.0.0.1:80", "203.0.113.9", "203.0.113.9"},
		{"forwarded chain", "10.0.0.1:80", "203.0.113.9,10.0.0.2", "203.0.113.9"},
		{"no port", "192.0.2.7", "", "192.0.2.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
