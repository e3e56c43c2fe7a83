package ratelimit

import (
	"testing"
	"time"
)

func TestLimiterAllowsUpToLimit(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("client") {
			t.Fatalf("request %d denied within limit", i+1)
		}
	}
	if l.Allow("client") {
		t.Error("request above limit allowed")
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l := New(1, time.Minute)

	if !l.Allow("a") {
		t.Fatal("first request for a denied")
	}
	if l.Allow("a") {
		t.Error("second request for a allowed")
	}
	if !l.Allow("b") {
		t.Error("first request for b denied")
	}
}

func TestLimiterRefills(t *testing.T) {
	// 1000 tokens per second, so a drained bucket recovers within a few
	// milliseconds.
	l := New(1000, time.Second)
	for i := 0; i < 1000; i++ {
		l.Allow("client")
	}
	if l.Allow("client") {
		t.Fatal("drained bucket still allowing")
	}

	time.Sleep(10 * time.Millisecond)
	if !l.Allow("client") {
		t.Error("bucket did not refill")
	}
}

func TestLimiterReset(t *testing.T) {
	l := New(1, time.Minute)
	l.Allow("client")
	if l.Allow("client") {
		t.Fatal("limit not enforced")
	}
	l.Reset("client")
	if !l.Allow("client") {
		t.Error("reset did not restore capacity")
	}
}
