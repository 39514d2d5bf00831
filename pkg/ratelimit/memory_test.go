package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter() (*MemoryLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)}
	return NewMemoryLimiter(WithClock(clock.Now)), clock
}

func TestMemoryLimiter_AllowsUpToAttemptsAndResets(t *testing.T) {
	ctx := context.Background()
	limiter, clock := newTestLimiter()
	rule := Rule{Prefix: "signin", Attempts: 5, Window: 600000 * time.Millisecond}

	for i := 0; i < 5; i++ {
		allowed, err := limiter.Check(ctx, rule, "user@agencia.com")
		require.NoError(t, err)
		assert.Truef(t, allowed, "tentativa %d deveria passar", i+1)
	}

	allowed, err := limiter.Check(ctx, rule, "user@agencia.com")
	require.NoError(t, err)
	assert.False(t, allowed, "sexta tentativa deveria ser bloqueada")

	// Exatamente no resetTime a janela ainda vale
	clock.Advance(rule.Window)
	allowed, _ = limiter.Check(ctx, rule, "user@agencia.com")
	assert.False(t, allowed)

	clock.Advance(time.Millisecond)
	allowed, _ = limiter.Check(ctx, rule, "user@agencia.com")
	assert.True(t, allowed, "após a janela o contador reinicia")
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	limiter, _ := newTestLimiter()
	actionA := Rule{Prefix: "a", Attempts: 2, Window: time.Minute}
	actionB := Rule{Prefix: "b", Attempts: 2, Window: time.Minute}

	for i := 0; i < 2; i++ {
		allowed, _ := limiter.Check(ctx, actionA, "x")
		require.True(t, allowed)
	}
	allowed, _ := limiter.Check(ctx, actionA, "x")
	require.False(t, allowed)

	allowed, _ = limiter.Check(ctx, actionB, "x")
	assert.True(t, allowed, "outra ação para o mesmo identificador")

	allowed, _ = limiter.Check(ctx, actionA, "y")
	assert.True(t, allowed, "mesma ação para outro identificador")
}

// Janela fixa: 2×Attempts passam quando concentradas na virada da janela.
func TestMemoryLimiter_FixedWindowBoundaryBurst(t *testing.T) {
	ctx := context.Background()
	limiter, clock := newTestLimiter()
	rule := Rule{Prefix: "mutation", Attempts: 3, Window: time.Minute}

	allowed, _ := limiter.Check(ctx, rule, "u1")
	require.True(t, allowed)

	clock.Advance(59 * time.Second)
	for i := 0; i < 2; i++ {
		allowed, _ = limiter.Check(ctx, rule, "u1")
		require.True(t, allowed)
	}

	clock.Advance(2 * time.Second)
	accepted := 0
	for i := 0; i < 3; i++ {
		if ok, _ := limiter.Check(ctx, rule, "u1"); ok {
			accepted++
		}
	}

	assert.Equal(t, 3, accepted, "em ~2s passaram 2×Attempts-1 requisições")
}

func TestMemoryLimiter_RejectionDoesNotExtendWindow(t *testing.T) {
	ctx := context.Background()
	limiter, clock := newTestLimiter()
	rule := Rule{Prefix: "signup", Attempts: 1, Window: time.Minute}

	allowed, _ := limiter.Check(ctx, rule, "ip")
	require.True(t, allowed)

	for i := 0; i < 10; i++ {
		clock.Advance(5 * time.Second)
		allowed, _ = limiter.Check(ctx, rule, "ip")
		require.False(t, allowed)
	}

	clock.Advance(11 * time.Second)
	allowed, _ = limiter.Check(ctx, rule, "ip")
	assert.True(t, allowed)
}

func TestMemoryLimiter_DisabledRule(t *testing.T) {
	limiter, _ := newTestLimiter()
	rule := Rule{Prefix: "off", Attempts: 0, Window: time.Minute}

	for i := 0; i < 100; i++ {
		allowed, err := limiter.Check(context.Background(), rule, "u")
		require.NoError(t, err)
		require.True(t, allowed)
	}
	assert.Equal(t, 0, limiter.Len())
}

func TestMemoryLimiter_Cleanup(t *testing.T) {
	ctx := context.Background()
	limiter, clock := newTestLimiter()
	short := Rule{Prefix: "short", Attempts: 1, Window: time.Second}
	long := Rule{Prefix: "long", Attempts: 1, Window: time.Hour}

	limiter.Check(ctx, short, "a")
	limiter.Check(ctx, short, "b")
	limiter.Check(ctx, long, "a")
	require.Equal(t, 3, limiter.Len())

	clock.Advance(2 * time.Second)

	assert.Equal(t, 2, limiter.Cleanup())
	assert.Equal(t, 1, limiter.Len())
}

func TestMemoryLimiter_ConcurrentChecksNeverExceedAttempts(t *testing.T) {
	ctx := context.Background()
	limiter, _ := newTestLimiter()
	rule := Rule{Prefix: "concurrent", Attempts: 10, Window: time.Minute}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := limiter.Check(ctx, rule, "same"); ok {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, accepted)
}

func TestMemoryLimiter_StartCleanupStopsWithContext(t *testing.T) {
	limiter, _ := newTestLimiter()
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, limiter.StartCleanup(ctx, time.Hour))
	assert.True(t, limiter.scheduler.IsRunning())

	cancel()
	assert.Eventually(t, func() bool { return !limiter.scheduler.IsRunning() }, time.Second, 10*time.Millisecond)
}
