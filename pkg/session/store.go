// Package session keeps login sessions keyed by subject and session id.
package session

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rhq-project/rhq-coregui/internal/constants"
	"github.com/rhq-project/rhq-coregui/pkg/cache"
	"github.com/rhq-project/rhq-coregui/pkg/redis"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Session is the server side record of one login.
type Session struct {
	ID          string    `json:"id"`
	SubjectID   int       `json:"subject_id"`
	SubjectName string    `json:"subject_name"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Store persists sessions with an idle timeout.
type Store interface {
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Get(ctx context.Context, subjectID int, id string) (*Session, error)
	Touch(ctx context.Context, subjectID int, id string, ttl time.Duration) error
	Delete(ctx context.Context, subjectID int, id string) error
	// DeleteSubject drops every session of a subject.
	DeleteSubject(ctx context.Context, subjectID int) (int, error)
	// Count reports the sessions that have not expired.
	Count(ctx context.Context) (int, error)
}

func subjectPrefix(subjectID int) string {
	return constants.SessionKeyPrefix + strconv.Itoa(subjectID) + ":"
}

func key(subjectID int, id string) string {
	return subjectPrefix(subjectID) + id
}

// RedisStore keeps sessions in Redis so every server instance sees them.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, sess *Session, ttl time.Duration) error {
	return s.client.SetJSON(ctx, key(sess.SubjectID, sess.ID), sess, ttl)
}

func (s *RedisStore) Get(ctx context.Context, subjectID int, id string) (*Session, error) {
	var sess Session
	found, err := s.client.GetJSON(ctx, key(subjectID, id), &sess)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (s *RedisStore) Touch(ctx context.Context, subjectID int, id string, ttl time.Duration) error {
	ok, err := s.client.Expire(ctx, key(subjectID, id), ttl)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, subjectID int, id string) error {
	return s.client.Delete(ctx, key(subjectID, id))
}

func (s *RedisStore) DeleteSubject(ctx context.Context, subjectID int) (int, error) {
	return s.client.DeleteByPattern(ctx, subjectPrefix(subjectID)+"*")
}

func (s *RedisStore) Count(ctx context.Context) (int, error) {
	return s.client.CountByPattern(ctx, constants.SessionKeyPrefix+"*")
}

// MemoryStore keeps sessions in process. It serves single instance
// deployments and tests.
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: cache.NewCache(time.Minute)}
}

func (s *MemoryStore) Save(_ context.Context, sess *Session, ttl time.Duration) error {
	stored := *sess
	s.cache.Set(key(sess.SubjectID, sess.ID), &stored, ttl)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, subjectID int, id string) (*Session, error) {
	v, ok := s.cache.Get(key(subjectID, id))
	if !ok {
		return nil, ErrNotFound
	}
	sess := *v.(*Session)
	return &sess, nil
}

func (s *MemoryStore) Touch(_ context.Context, subjectID int, id string, ttl time.Duration) error {
	if !s.cache.Touch(key(subjectID, id), ttl) {
		return ErrNotFound
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, subjectID int, id string) error {
	s.cache.Delete(key(subjectID, id))
	return nil
}

func (s *MemoryStore) Count(context.Context) (int, error) {
	return s.cache.CountPrefix(constants.SessionKeyPrefix), nil
}

func (s *MemoryStore) DeleteSubject(_ context.Context, subjectID int) (int, error) {
	return s.cache.DeletePrefix(subjectPrefix(subjectID)), nil
}

// Close stops the expiry sweeper.
func (s *MemoryStore) Close() {
	s.cache.Close()
}
