package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

type entry struct {
	count     int
	resetTime time.Time
}

// MemoryLimiter guarda os contadores no processo.
// Não coordena entre instâncias; para isso use RedisLimiter.
type MemoryLimiter struct {
	mu        sync.Mutex
	entries   map[string]*entry
	now       func() time.Time
	scheduler *gocron.Scheduler
}

type MemoryOption func(*MemoryLimiter)

// WithClock troca o relógio usado nas comparações de janela
func WithClock(now func() time.Time) MemoryOption {
	return func(l *MemoryLimiter) {
		l.now = now
	}
}

func NewMemoryLimiter(opts ...MemoryOption) *MemoryLimiter {
	l := &MemoryLimiter{
		entries: make(map[string]*entry),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

func (l *MemoryLimiter) Check(_ context.Context, rule Rule, identifier string) (bool, error) {
	if rule.Disabled() {
		return true, nil
	}

	key := rule.Key(identifier)
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	current, exists := l.entries[key]
	if !exists || now.After(current.resetTime) {
		l.entries[key] = &entry{count: 1, resetTime: now.Add(rule.Window)}
		return true, nil
	}

	// Rejeitar não consome tentativa
	if current.count >= rule.Attempts {
		return false, nil
	}

	current.count++
	return true, nil
}

// Cleanup remove as entradas cuja janela já terminou e retorna quantas saíram
func (l *MemoryLimiter) Cleanup() int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, current := range l.entries {
		if now.After(current.resetTime) {
			delete(l.entries, key)
			removed++
		}
	}

	return removed
}

func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// StartCleanup agenda a limpeza periódica até o contexto ser cancelado
func (l *MemoryLimiter) StartCleanup(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}

	l.scheduler = gocron.NewScheduler(time.Local)

	_, err := l.scheduler.Every(interval).Do(func() {
		if removed := l.Cleanup(); removed > 0 {
			logrus.WithField("removed", removed).Debug("Entradas expiradas do rate limit removidas")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar limpeza do rate limit: %w", err)
	}

	l.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando limpeza do rate limit")
		l.scheduler.Stop()
	}()

	return nil
}
