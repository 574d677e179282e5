package rate_limiter

import (
	"testing"
	"time"
)

func TestAllowHonoursBurst(t *testing.T) {
	l := New(0.001, 2)

	if !l.Allow("10.0.0.1") || !l.Allow("10.0.0.1") {
		t.Fatal("expected the burst to be allowed")
	}
	if l.Allow("10.0.0.1") {
		t.Fatal("expected third request to be limited")
	}
	if !l.Allow("10.0.0.2") {
		t.Fatal("expected another client to have its own bucket")
	}
}

func TestCleanupVisitors(t *testing.T) {
	l := New(1, 1)
	l.GetVisitor("a")
	l.GetVisitor("b")

	if n := l.CleanupVisitors(time.Hour); n != 0 {
		t.Fatalf("expected no idle visitors, removed %d", n)
	}
	time.Sleep(5 * time.Millisecond)
	if n := l.CleanupVisitors(time.Millisecond); n != 2 {
		t.Fatalf("expected 2 idle visitors removed, got %d", n)
	}

	l.GetVisitor("c")
	l.CleanupAllVisitors()
	if n := l.CleanupVisitors(0); n != 0 {
		t.Fatalf("expected empty limiter, removed %d", n)
	}
}
