package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// newTestLimiter builds a limiter with no cleanup goroutine and a controllable clock.
func newTestLimiter(cfg *Config, now *time.Time) *Limiter {
	cfg.CleanupInterval = 0
	l := NewLimiter(cfg)
	l.now = func() time.Time { return *now }
	return l
}

func TestLimiter_AllowUpToBurst(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	}, &now)
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/health/extra", "GET")
		if !allowed {
			t.Fatalf("Expected request %d to be allowed", i+1)
		}
		if info.Limit != 10 {
			t.Errorf("Expected limit 10, got %d", info.Limit)
		}
		if info.Remaining != 10-(i+1) {
			t.Errorf("Request %d: expected %d remaining, got %d", i+1, 10-(i+1), info.Remaining)
		}
	}

	allowed, info := limiter.Allow("127.0.0.1", "/health/extra", "GET")
	if allowed {
		t.Error("Expected 11th request to be denied")
	}
	if info.RetryAfter <= 0 {
		t.Error("Expected a positive RetryAfter when denied")
	}
	if info.RetryAfter > 6*time.Second+time.Millisecond {
		t.Errorf("Expected RetryAfter of about 6s, got %v", info.RetryAfter)
	}
}

func TestLimiter_Refill(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  60, // one token per second
		DefaultWindow: time.Minute,
	}, &now)
	defer limiter.Stop()

	for i := 0; i < 60; i++ {
		limiter.Allow("client", "/x", "GET")
	}
	if allowed, _ := limiter.Allow("client", "/x", "GET"); allowed {
		t.Fatal("Expected bucket to be empty")
	}

	now = now.Add(1100 * time.Millisecond)

	if allowed, _ := limiter.Allow("client", "/x", "GET"); !allowed {
		t.Error("Expected request to be allowed after refill")
	}
	if allowed, _ := limiter.Allow("client", "/x", "GET"); allowed {
		t.Error("Expected request to be denied after consuming refilled token")
	}
}

func TestLimiter_AnalyzeEndpointUsesBurst(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := newTestLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(30, time.Minute),
	}, &now)
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		if allowed, _ := limiter.Allow("10.0.0.1", AnalyzePath, "POST"); !allowed {
			t.Fatalf("Expected upload %d to be allowed", i+1)
		}
	}
	allowed, info := limiter.Allow("10.0.0.1", AnalyzePath, "POST")
	if allowed {
		t.Error("Expected upload beyond burst to be denied")
	}
	if info.Limit != 30 {
		t.Errorf("Expected limit 30, got %d", info.Limit)
	}

	// other methods on the same path fall back to the default
	if allowed, _ := limiter.Allow("10.0.0.1", AnalyzePath, "GET"); !allowed {
		t.Error("Expected GET to use the default limit")
	}
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  2,
		DefaultWindow: time.Minute,
	}, &now)
	defer limiter.Stop()

	limiter.Allow("a", "/x", "GET")
	limiter.Allow("a", "/x", "GET")
	if allowed, _ := limiter.Allow("a", "/x", "GET"); allowed {
		t.Error("Expected client a to be limited")
	}
	if allowed, _ := limiter.Allow("b", "/x", "GET"); !allowed {
		t.Error("Expected client b to be unaffected")
	}
	if limiter.Len() != 2 {
		t.Errorf("Expected 2 buckets, got %d", limiter.Len())
	}
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
	}, &now)
	defer limiter.Stop()

	for i := 0; i < 50; i++ {
		if allowed, _ := limiter.Allow("c", "/health", "GET"); !allowed {
			t.Fatalf("Expected health check %d to be allowed", i+1)
		}
	}
	if limiter.Len() != 0 {
		t.Errorf("Expected no buckets for health checks, got %d", limiter.Len())
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		if allowed, _ := limiter.Allow("c", AnalyzePath, "POST"); !allowed {
			t.Fatal("Expected all requests to be allowed when disabled")
		}
	}
}

func TestLimiter_WhitelistBlacklist(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
		Whitelist:     map[string]bool{"10.0.0.9": true},
		Blacklist:     map[string]bool{"10.0.0.66": true},
	}, &now)
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		if allowed, _ := limiter.Allow("10.0.0.9", "/x", "GET"); !allowed {
			t.Fatal("Expected whitelisted client to be allowed")
		}
	}
	if allowed, _ := limiter.Allow("10.0.0.66", "/x", "GET"); allowed {
		t.Error("Expected blacklisted client to be denied")
	}
}

func TestLimiter_EvictIdle(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		IdleTTL:       time.Minute,
	}, &now)
	defer limiter.Stop()

	limiter.Allow("old", "/x", "GET")
	now = now.Add(2 * time.Minute)
	limiter.Allow("new", "/x", "GET")

	limiter.evictIdle()

	if limiter.Len() != 1 {
		t.Errorf("Expected 1 bucket after eviction, got %d", limiter.Len())
	}
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(nil)
	limiter.Stop()
	limiter.Stop()
}

func TestLimiter_Concurrent(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Hour,
	}, &now)
	defer limiter.Stop()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if ok, _ := limiter.Allow("shared", "/x", "GET"); ok {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	if allowed != 100 {
		t.Errorf("Expected exactly 100 allowed requests, got %d", allowed)
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: AnalyzePath, Method: "POST", Limit: 30},
		{Path: "/api/v1/", Method: "GET", Limit: 100},
	}

	tests := []struct {
		path      string
		method    string
		wantLimit int
		wantNil   bool
	}{
		{AnalyzePath, "POST", 30, false},
		{"/api/v1/reports/abc", "GET", 100, false},
		{"/health", "GET", 0, false},
		{"/other", "GET", 0, true},
		{AnalyzePath, "DELETE", 0, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.method, tt.path), func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				if got != nil {
					t.Errorf("Expected nil, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("Expected a match, got nil")
			}
			if got.Limit != tt.wantLimit {
				t.Errorf("Expected limit %d, got %d", tt.wantLimit, got.Limit)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_ANALYZE_LIMIT", "12")
	t.Setenv("RATE_LIMIT_ANALYZE_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_WHITELIST", "1.1.1.1, 2.2.2.2")

	cfg := LoadConfig()

	if !cfg.Enabled {
		t.Fatal("Expected rate limiting to be enabled")
	}
	if len(cfg.EndpointConfigs) != 1 {
		t.Fatalf("Expected 1 endpoint config, got %d", len(cfg.EndpointConfigs))
	}
	ec := cfg.EndpointConfigs[0]
	if ec.Limit != 12 || ec.Window != 30*time.Second || ec.Burst != 2 {
		t.Errorf("Unexpected analyze config: %+v", ec)
	}
	if !cfg.Whitelist["1.1.1.1"] || !cfg.Whitelist["2.2.2.2"] {
		t.Errorf("Expected whitelist to be parsed, got %v", cfg.Whitelist)
	}
}

func TestLoadConfig_Disabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	if cfg := LoadConfig(); cfg.Enabled {
		t.Error("Expected rate limiting to be disabled")
	}
}
