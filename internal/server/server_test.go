package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"
)

func TestNormalizeAddr(t *testing.T) {
	cases := map[string]string{"": "", "3000": ":3000", ":8080": ":8080"}
	for in, want := range cases {
		if got := normalizeAddr(in); got != want {
			t.Errorf("normalizeAddr(%q)=%q want %q", in, got, want)
		}
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	s := New(Timeouts{Write: 3 * time.Second})
	if s.timeouts.Write != 3*time.Second {
		t.Errorf("write timeout overridden: %s", s.timeouts.Write)
	}
	if s.timeouts.ReadHeader != defaultTimeouts.ReadHeader || s.timeouts.Idle != defaultTimeouts.Idle {
		t.Errorf("defaults not applied: %+v", s.timeouts)
	}
}

func TestShutdownWithoutRun(t *testing.T) {
	if err := New(Timeouts{}).Shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestServeAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := New(Timeouts{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})

	done := make(chan error, 1)
	go func() { done <- s.Serve(ln, handler) }()

	url := "http://" + ln.Addr().String() + "/"
	var body []byte
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get(url)
		if err == nil {
			body, _ = io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never answered: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if string(body) != "ok" {
		t.Fatalf("body=%q", body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned %v after clean shutdown", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after Shutdown")
	}
}
