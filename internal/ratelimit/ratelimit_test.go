package ratelimit

import (
	"testing"
	"time"
)

func TestAdmitAllowsUpToBurstThenRejects(t *testing.T) {
	l := New(2, time.Minute)

	if !l.Admit("client-a") {
		t.Fatal("first token should be admitted")
	}
	if !l.Admit("client-a") {
		t.Fatal("second token (within burst) should be admitted")
	}
	if l.Admit("client-a") {
		t.Fatal("third immediate request should be rejected, bucket exhausted")
	}
}

func TestAdmitTracksClientsIndependently(t *testing.T) {
	l := New(1, time.Minute)

	if !l.Admit("client-a") {
		t.Fatal("client-a first request should be admitted")
	}
	if !l.Admit("client-b") {
		t.Fatal("client-b should have its own independent bucket")
	}
	if l.Admit("client-a") {
		t.Fatal("client-a second immediate request should be rejected")
	}
}

func TestAdmitRefillsOverTime(t *testing.T) {
	l := New(100, time.Minute) // 100/s -> ~10ms per token
	l.Admit("client-a")
	for l.Admit("client-a") {
		// drain burst
	}

	time.Sleep(50 * time.Millisecond)
	if !l.Admit("client-a") {
		t.Fatal("expected a refilled token after waiting")
	}
}

func TestEvictIdleRemovesStaleBuckets(t *testing.T) {
	l := New(1, time.Millisecond)
	l.Admit("client-a")
	if l.TrackedClients() != 1 {
		t.Fatalf("tracked clients = %d, want 1", l.TrackedClients())
	}

	l.EvictIdle(time.Now().Add(time.Second))
	if l.TrackedClients() != 0 {
		t.Fatalf("tracked clients after eviction = %d, want 0", l.TrackedClients())
	}
}
