package httpx_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/gatekeep/pkg/httpx"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func requestFrom(addr string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = addr
	return req
}

func TestIPKeyExtractor(t *testing.T) {
	t.Run("extracts from RemoteAddr", func(t *testing.T) {
		require.Equal(t, "192.168.1.1", httpx.IPKeyExtractor(requestFrom("192.168.1.1:12345")))
	})

	t.Run("ignores forwarding headers", func(t *testing.T) {
		req := requestFrom("192.168.1.1:12345")
		req.Header.Set("X-Forwarded-For", "203.0.113.1")
		req.Header.Set("X-Real-IP", "203.0.113.2")
		require.Equal(t, "192.168.1.1", httpx.IPKeyExtractor(req))
	})

	t.Run("falls back to raw RemoteAddr", func(t *testing.T) {
		require.Equal(t, "pipe", httpx.IPKeyExtractor(requestFrom("pipe")))
	})
}

func TestClientIP(t *testing.T) {
	trusted, err := httpx.ParseTrustedProxies([]string{"10.0.0.0/8", "172.16.0.5"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		remote string
		xff    []string
		want   string
	}{
		{"untrusted peer ignores header", "198.51.100.7:1", []string{"203.0.113.1"}, "198.51.100.7"},
		{"trusted peer without header", "10.1.2.3:1", nil, "10.1.2.3"},
		{"trusted peer uses last hop", "10.1.2.3:1", []string{"203.0.113.1"}, "203.0.113.1"},
		{"spoofed leftmost entry is skipped", "10.1.2.3:1", []string{"1.2.3.4, 203.0.113.1"}, "203.0.113.1"},
		{"trusted hops are walked past", "10.1.2.3:1", []string{"1.2.3.4, 203.0.113.1, 172.16.0.5, 10.9.9.9"}, "203.0.113.1"},
		{"repeated headers are joined", "10.1.2.3:1", []string{"1.2.3.4", "203.0.113.1"}, "203.0.113.1"},
		{"garbage hop stops the walk", "10.1.2.3:1", []string{"203.0.113.1, not-an-ip, 10.9.9.9"}, "10.9.9.9"},
		{"all hops trusted", "10.1.2.3:1", []string{"10.4.4.4"}, "10.4.4.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := requestFrom(tt.remote)
			for _, v := range tt.xff {
				req.Header.Add("X-Forwarded-For", v)
			}
			require.Equal(t, tt.want, httpx.ClientIP(req, trusted))
		})
	}
}

func TestParseTrustedProxies(t *testing.T) {
	prefixes, err := httpx.ParseTrustedProxies([]string{" 10.0.0.0/8 ", "", "::1", "192.168.1.7/16"})
	require.NoError(t, err)
	require.Len(t, prefixes, 3)
	require.Equal(t, "192.168.0.0/16", prefixes[2].String())

	_, err = httpx.ParseTrustedProxies([]string{"10.0.0.0/33"})
	require.Error(t, err)
	_, err = httpx.ParseTrustedProxies([]string{"proxy.internal"})
	require.Error(t, err)
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("allows requests under limit", func(t *testing.T) {
		limited := httpx.RateLimitByIP(httpx.RateLimitConfig{RequestsPerWindow: 5, Window: time.Second, Burst: 5})(okHandler)

		for i := range 5 {
			rec := httptest.NewRecorder()
			limited.ServeHTTP(rec, requestFrom("192.168.1.1:12345"))
			require.Equal(t, http.StatusOK, rec.Code, "request %d should succeed", i+1)
		}
	})

	t.Run("blocks requests over limit", func(t *testing.T) {
		limited := httpx.RateLimitByIP(httpx.RateLimitConfig{RequestsPerWindow: 3, Window: time.Minute, Burst: 3})(okHandler)

		for i := range 3 {
			rec := httptest.NewRecorder()
			limited.ServeHTTP(rec, requestFrom("192.168.1.1:12345"))
			require.Equal(t, http.StatusOK, rec.Code, "request %d should succeed", i+1)
		}

		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, requestFrom("192.168.1.1:12345"))
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
	})

	t.Run("different keys are tracked separately", func(t *testing.T) {
		limited := httpx.RateLimitByIP(httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2})(okHandler)

		for range 2 {
			rec := httptest.NewRecorder()
			limited.ServeHTTP(rec, requestFrom("192.168.1.1:12345"))
			require.Equal(t, http.StatusOK, rec.Code)
		}

		rec1 := httptest.NewRecorder()
		limited.ServeHTTP(rec1, requestFrom("192.168.1.1:12345"))
		require.Equal(t, http.StatusTooManyRequests, rec1.Code)

		rec2 := httptest.NewRecorder()
		limited.ServeHTTP(rec2, requestFrom("192.168.1.2:12345"))
		require.Equal(t, http.StatusOK, rec2.Code)
	})

	t.Run("rotating X-Forwarded-For does not reset the bucket", func(t *testing.T) {
		limited := httpx.RateLimitByIP(httpx.StrictLimit)(okHandler)

		codes := map[int]int{}
		for i := range 50 {
			req := requestFrom("198.51.100.7:4242")
			req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
			rec := httptest.NewRecorder()
			limited.ServeHTTP(rec, req)
			codes[rec.Code]++
		}
		require.Equal(t, map[int]int{http.StatusOK: 5, http.StatusTooManyRequests: 45}, codes)
	})

	t.Run("trusted proxy clients are tracked separately", func(t *testing.T) {
		trusted, err := httpx.ParseTrustedProxies([]string{"10.0.0.0/8"})
		require.NoError(t, err)
		limited := httpx.RateLimitByIP(httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}, trusted...)(okHandler)

		send := func(xff string) int {
			req := requestFrom("10.0.0.2:4242")
			req.Header.Set("X-Forwarded-For", xff)
			rec := httptest.NewRecorder()
			limited.ServeHTTP(rec, req)
			return rec.Code
		}
		require.Equal(t, http.StatusOK, send("203.0.113.1"))
		require.Equal(t, http.StatusTooManyRequests, send("203.0.113.1"))
		require.Equal(t, http.StatusTooManyRequests, send("1.2.3.4, 203.0.113.1"))
		require.Equal(t, http.StatusOK, send("203.0.113.2"))
	})

	t.Run("allows request when key extractor returns empty", func(t *testing.T) {
		empty := func(*http.Request) string { return "" }
		limited := httpx.RateLimitMiddleware(httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}, empty)(okHandler)

		for range 3 {
			rec := httptest.NewRecorder()
			limited.ServeHTTP(rec, requestFrom("192.168.1.1:12345"))
			require.Equal(t, http.StatusOK, rec.Code)
		}
	})
}

func TestRateLimitProfiles(t *testing.T) {
	require.True(t, httpx.StrictLimit.Valid())
	require.True(t, httpx.ModerateLimit.Valid())
	require.Equal(t, 5, httpx.StrictLimit.RequestsPerWindow)
	require.Equal(t, 20, httpx.ModerateLimit.RequestsPerWindow)
	require.False(t, httpx.RateLimitConfig{RequestsPerWindow: 1, Window: 0, Burst: 1}.Valid())
}

func TestRateLimitHeaders(t *testing.T) {
	limited := httpx.RateLimitByIP(httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1})(okHandler)

	rec1 := httptest.NewRecorder()
	limited.ServeHTTP(rec1, requestFrom("192.168.1.1:12345"))
	require.Equal(t, http.StatusOK, rec1.Code)

	rec2 := httptest.NewRecorder()
	limited.ServeHTTP(rec2, requestFrom("192.168.1.1:12345"))

	require.Equal(t, http.StatusTooManyRequests, rec2.Code)
	require.NotEmpty(t, rec2.Header().Get("Retry-After"))
	require.Equal(t, "1", rec2.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "1m0s", rec2.Header().Get("X-RateLimit-Window"))

	var body httpx.ErrorResponse
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &body))
	require.Equal(t, "Too Many Requests", body.Error)
	require.NotEmpty(t, body.Message)
}

func BenchmarkRateLimitManyIPs(b *testing.B) {
	limited := httpx.RateLimitByIP(httpx.RateLimitConfig{RequestsPerWindow: 1000000, Window: time.Minute, Burst: 1000})(okHandler)

	for i := 0; b.Loop(); i++ {
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, requestFrom(fmt.Sprintf("192.168.%d.%d:12345", i%255, (i/255)%255)))
	}
}
