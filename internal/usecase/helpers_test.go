package usecase

import (
	"context"
	"sync"
	"time"
)

type recordingSink struct {
	mu    sync.Mutex
	infos []string
	warns []string
	errs  []string
}

func (s *recordingSink) Info(msg string, _ ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.infos = append(s.infos, msg)
}

func (s *recordingSink) Warn(msg string, _ ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warns = append(s.warns, msg)
}

func (s *recordingSink) Error(msg string, _ ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, msg)
}

func (s *recordingSink) warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.warns...)
}

func (s *recordingSink) errors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.errs...)
}

// sleepRecorder replaces backoff sleeps in tests.
type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
	return nil
}

func (r *sleepRecorder) recorded() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.delays...)
}

// probeFunc adapts a function to StoreProbe.
type probeFunc func(ctx context.Context) error

func (f probeFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

func strPtr(v string) *string {
	return &v
}

func intPtr(v int) *int {
	return &v
}
