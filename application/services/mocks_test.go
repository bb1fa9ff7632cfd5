package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"inspiration-backend/application/ports"

	"github.com/stretchr/testify/mock"
)

// mockStorage is a testify mock of ports.KeyValueStore
type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockStorage) SetItem(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *mockStorage) RemoveItem(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// stepClock returns a clock that advances by step on every reading
func stepClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := current
		current = current.Add(step)
		return t
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// slowStorage delays every read and write
type slowStorage struct {
	ports.KeyValueStore
	delay time.Duration
}

func (s *slowStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	time.Sleep(s.delay)
	return s.KeyValueStore.GetItem(ctx, key)
}

func (s *slowStorage) SetItem(ctx context.Context, key, value string) error {
	time.Sleep(s.delay)
	return s.KeyValueStore.SetItem(ctx, key, value)
}

// flakyStorage fails the next failReads reads, then behaves normally
type flakyStorage struct {
	ports.KeyValueStore
	mu        sync.Mutex
	failReads int
}

func (s *flakyStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	fail := s.failReads > 0
	if fail {
		s.failReads--
	}
	s.mu.Unlock()
	if fail {
		return "", false, errors.New("connection reset")
	}
	return s.KeyValueStore.GetItem(ctx, key)
}
