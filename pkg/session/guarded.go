package session

import (
	"context"
	"time"

	"github.com/rhq-project/rhq-coregui/pkg/circuit"
)

// GuardedStore puts a circuit breaker in front of a remote store so an
// unreachable Redis fails logins and calls fast. ErrNotFound is an answer and
// never trips the breaker.
type GuardedStore struct {
	store   Store
	breaker *circuit.Breaker
}

func NewGuardedStore(store Store, breaker *circuit.Breaker) *GuardedStore {
	return &GuardedStore{store: store, breaker: breaker}
}

// BreakerConfig is the breaker configuration GuardedStore expects.
func BreakerConfig() circuit.Config {
	config := circuit.DefaultConfig()
	config.Ignore = []error{ErrNotFound}
	return config
}

func (s *GuardedStore) Save(ctx context.Context, sess *Session, ttl time.Duration) error {
	return s.breaker.Do(ctx, func(ctx context.Context) error {
		return s.store.Save(ctx, sess, ttl)
	})
}

func (s *GuardedStore) Get(ctx context.Context, subjectID int, id string) (*Session, error) {
	var sess *Session
	err := s.breaker.Do(ctx, func(ctx context.Context) error {
		var err error
		sess, err = s.store.Get(ctx, subjectID, id)
		return err
	})
	return sess, err
}

func (s *GuardedStore) Touch(ctx context.Context, subjectID int, id string, ttl time.Duration) error {
	return s.breaker.Do(ctx, func(ctx context.Context) error {
		return s.store.Touch(ctx, subjectID, id, ttl)
	})
}

func (s *GuardedStore) Delete(ctx context.Context, subjectID int, id string) error {
	return s.breaker.Do(ctx, func(ctx context.Context) error {
		return s.store.Delete(ctx, subjectID, id)
	})
}

func (s *GuardedStore) DeleteSubject(ctx context.Context, subjectID int) (int, error) {
	var removed int
	err := s.breaker.Do(ctx, func(ctx context.Context) error {
		var err error
		removed, err = s.store.DeleteSubject(ctx, subjectID)
		return err
	})
	return removed, err
}

func (s *GuardedStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.breaker.Do(ctx, func(ctx context.Context) error {
		var err error
		n, err = s.store.Count(ctx)
		return err
	})
	return n, err
}
