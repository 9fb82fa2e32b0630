package middleware

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientIPGeneric_DirectRemote(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.local/", nil)
	req.RemoteAddr = "203.0.113.5:54321"
	ip := clientIPGeneric(req, nil)
	if ip != "203.0.113.5" {
		t.Fatalf("expected direct remote IP, got %s", ip)
	}
}

func TestClientIPGeneric_TrustedProxyXFF(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.local/", nil)
	req.RemoteAddr = "198.51.100.10:443"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 198.51.100.10")
	// trustedCIDR contains the remote IP
	ip := clientIPGeneric(req, []string{"198.51.100.10"})
	if ip != "203.0.113.7" {
		t.Fatalf("expected X-Forwarded-For first value, got %s", ip)
	}
}

func TestClientIPGeneric_UntrustedProxyIgnoresXFF(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.local/", nil)
	req.RemoteAddr = "198.51.100.11:443"
	req.Header.Set("X-Forwarded-For", "203.0.113.8, 198.51.100.11")
	ip := clientIPGeneric(req, []string{"198.51.100.10"})
	if ip != "198.51.100.11" {
		t.Fatalf("expected remote IP when proxy untrusted, got %s", ip)
	}
}

func TestSlidingWindowCountsWithinWindow(t *testing.T) {
	win := newSlidingWindow(time.Minute)
	for i := 1; i <= 3; i++ {
		count, _ := win.hit("k")
		if count != i {
			t.Fatalf("expected count %d, got %d", i, count)
		}
	}
	if count, _ := win.hit("other"); count != 1 {
		t.Fatalf("keys must be independent, got %d", count)
	}
}

func TestSlidingWindowExpiresOldHits(t *testing.T) {
	win := newSlidingWindow(10 * time.Millisecond)
	win.hit("k")
	time.Sleep(20 * time.Millisecond)
	if count, _ := win.hit("k"); count != 1 {
		t.Fatalf("expected old hit to fall out of window, got %d", count)
	}
}
