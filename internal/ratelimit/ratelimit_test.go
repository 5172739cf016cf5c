package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		calls    int
		wantPass int
	}{
		{name: "burst allows initial requests", rps: 1, burst: 3, calls: 3, wantPass: 3},
		{name: "exceeding burst blocks", rps: 1, burst: 2, calls: 5, wantPass: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.rps, tt.burst)
			defer rl.Stop()

			passed := 0
			for range tt.calls {
				if rl.Allow("203.0.113.7") {
					passed++
				}
			}

			if passed != tt.wantPass {
				t.Errorf("Allow() passed %d, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestKeyedRateLimiter_IndependentKeys(t *testing.T) {
	rl := New(1, 1)
	defer rl.Stop()

	rl.Allow("api.example")
	if rl.Allow("api.example") {
		t.Error("api.example should be exhausted")
	}
	if !rl.Allow("other.example") {
		t.Error("other.example should be independent and allowed")
	}
}

func TestKeyedRateLimiter_WaitContextCancelled(t *testing.T) {
	rl := New(0.1, 1)
	defer rl.Stop()

	rl.Allow("host")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx, "host"); err == nil {
		t.Error("Wait() should fail when context canceled")
	}
}

func TestKeyedRateLimiter_WaitImmediateWithinBurst(t *testing.T) {
	rl := New(1, 2)
	defer rl.Stop()

	start := time.Now()
	for range 2 {
		if err := rl.Wait(context.Background(), "host"); err != nil {
			t.Fatalf("Wait() failed: %v", err)
		}
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Error("Wait() within burst should be immediate")
	}
}

func TestKeyedRateLimiter_SweepEvictsIdleKeys(t *testing.T) {
	rl := newWithTTL(1, 1, time.Hour)
	defer rl.Stop()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("stale")
	now = now.Add(50 * time.Minute)
	rl.Allow("fresh")
	now = now.Add(20 * time.Minute)

	rl.sweep()

	if rl.Len() != 1 {
		t.Fatalf("Len() = %d after sweep, want 1", rl.Len())
	}
	// The evicted key starts over with a full bucket.
	if !rl.Allow("stale") {
		t.Error("evicted key should get a fresh bucket")
	}
}
