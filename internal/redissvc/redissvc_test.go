package redissvc

import (
	"context"
	"os"
	"testing"
)

func TestConnect(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	svc, err := Connect(context.Background(), addr, "kitchen:test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })

	if svc.Channel() != "kitchen:test" {
		t.Errorf("expected channel kitchen:test, got %s", svc.Channel())
	}
}

func TestConnectUnreachable(t *testing.T) {
	if _, err := Connect(context.Background(), "127.0.0.1:1", "kitchen:test"); err == nil {
		t.Fatal("expected error for unreachable redis")
	}
}
