package utils

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remote     string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{"remote addr", "192.0.2.7:5000", nil, false, "192.0.2.7"},
		{"headers ignored without trust", "192.0.2.7:5000", map[string]string{"X-Forwarded-For": "203.0.113.9"}, false, "192.0.2.7"},
		{"cloudflare first", "127.0.0.1:1", map[string]string{"CF-Connecting-IP": "198.51.100.1", "X-Forwarded-For": "203.0.113.9"}, true, "198.51.100.1"},
		{"left-most forwarded", "127.0.0.1:1", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, true, "203.0.113.9"},
		{"real ip", "127.0.0.1:1", map[string]string{"X-Real-IP": "203.0.113.10"}, true, "203.0.113.10"},
		{"ipv6 remote", "[2001:db8::1]:443", nil, false, "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 192.168.1.5 ", "2001:db8::/32", "garbage", ""})
	if m.IsEmpty() {
		t.Fatal("matcher should not be empty")
	}

	allowed := []string{"10.20.30.40", "192.168.1.5", "::ffff:10.0.0.1", "2001:db8::42"}
	for _, ip := range allowed {
		if !m.Allow(ip) {
			t.Errorf("Allow(%q) = false, want true", ip)
		}
	}

	denied := []string{"192.168.1.6", "11.0.0.1", "2001:db9::1", "not-an-ip", ""}
	for _, ip := range denied {
		if m.Allow(ip) {
			t.Errorf("Allow(%q) = true, want false", ip)
		}
	}

	if !NewIPMatcher(nil).IsEmpty() {
		t.Error("empty list should give an empty matcher")
	}
}
