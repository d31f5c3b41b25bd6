package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// ReliableSource оборачивает источник лимитером, предохранителем и ретраями.
// ErrNoSnapshot не считается отказом: он не ретраится и не открывает предохранитель.
type ReliableSource struct {
	next    Source
	cb      *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	timeout time.Duration
}

// StateObserver получает смены состояния предохранителя (для метрик)
type StateObserver func(name string, open bool)

func NewReliableSource(name string, next Source, observe StateObserver) *ReliableSource {
	// Настройка предохранителя
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    5 * time.Second,
		Timeout:     30 * time.Second, // Время, через которое CB попробует "закрыться"
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Если более 5 ошибок подряд — открываемся
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if observe != nil {
				observe(name, to == gobreaker.StateOpen)
			}
		},
	})

	return &ReliableSource{
		next:    next,
		cb:      cb,
		limiter: rate.NewLimiter(rate.Limit(20), 5),
		timeout: 5 * time.Second,
	}
}

func (s *ReliableSource) Load(ctx context.Context) ([]byte, error) {
	// 1. Rate Limiter
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("snapshot: rate limit exceeded: %w", err)
	}

	var (
		data  []byte
		empty bool
	)

	// 2. Circuit Breaker
	_, err := s.cb.Execute(func() (interface{}, error) {
		r := retry.New(
			retry.Context(ctx),
			retry.Attempts(3),
			retry.DelayType(func(n uint, err error, config retry.DelayContext) time.Duration {
				return retry.BackOffDelay(n, err, config)
			}),
		)

		retryErr := r.Do(func() error {
			tCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			var loadErr error
			data, loadErr = s.next.Load(tCtx)
			if errors.Is(loadErr, ErrNoSnapshot) {
				empty = true
				return nil
			}
			return loadErr
		})

		return nil, retryErr
	})

	if err != nil {
		return nil, err
	}
	if empty {
		return nil, ErrNoSnapshot
	}
	return data, nil
}
