package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"
)

func TestIsPublicAddr(t *testing.T) {
	cases := map[string]bool{
		"8.8.8.8":              true,
		"2606:4700:4700::1111": true,
		"127.0.0.1":            false,
		"::1":                  false,
		"10.1.2.3":             false,
		"172.20.0.5":           false,
		"192.168.1.1":          false,
		"169.254.169.254":      false,
		"100.100.100.200":      false,
		"0.0.0.0":              false,
		"fe80::1":              false,
		"fd00::1":              false,
		"::ffff:127.0.0.1":     false,
		"::ffff:93.184.216.34": true,
		"224.0.0.1":            false,
	}
	for raw, want := range cases {
		if got := IsPublicAddr(netip.MustParseAddr(raw)); got != want {
			t.Fatalf("IsPublicAddr(%s)=%v want %v", raw, got, want)
		}
	}
}

func TestPublicClientRefusesLoopback(t *testing.T) {
	hit := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hit = true }))
	defer srv.Close()

	client := NewPublicClient(time.Second)
	defer client.CloseIdleConnections()
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, nil)
	resp, err := client.Do(req)
	if err == nil {
		resp.Body.Close()
		t.Fatalf("expected dial to be refused")
	}
	if !errors.Is(err, ErrBlockedAddress) {
		t.Fatalf("err=%v want ErrBlockedAddress", err)
	}
	if hit {
		t.Fatalf("request reached the loopback server")
	}
}
