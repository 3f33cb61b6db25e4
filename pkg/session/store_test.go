package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rhq-project/rhq-coregui/pkg/circuit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	sess := &Session{ID: "abc", SubjectID: 3, SubjectName: "jdoe", CreatedAt: time.Now()}
	require.NoError(t, store.Save(ctx, sess, time.Minute))

	got, err := store.Get(ctx, 3, "abc")
	require.NoError(t, err)
	assert.Equal(t, "jdoe", got.SubjectName)

	got.SubjectName = "changed"
	again, _ := store.Get(ctx, 3, "abc")
	assert.Equal(t, "jdoe", again.SubjectName, "stored session must not alias returned copies")

	_, err = store.Get(ctx, 4, "abc")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Touch(ctx, 3, "abc", time.Hour))
	assert.ErrorIs(t, store.Touch(ctx, 3, "nope", time.Hour), ErrNotFound)

	require.NoError(t, store.Delete(ctx, 3, "abc"))
	_, err = store.Get(ctx, 3, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreExpiryAndDeleteSubject(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &Session{ID: "short", SubjectID: 1}, time.Nanosecond))
	require.NoError(t, store.Save(ctx, &Session{ID: "a", SubjectID: 12}, time.Minute))
	require.NoError(t, store.Save(ctx, &Session{ID: "b", SubjectID: 12}, time.Minute))
	require.NoError(t, store.Save(ctx, &Session{ID: "c", SubjectID: 1}, time.Minute))
	time.Sleep(time.Millisecond)

	_, err := store.Get(ctx, 1, "short")
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := store.DeleteSubject(ctx, 12)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = store.Get(ctx, 1, "c")
	assert.NoError(t, err, "subject 1 sessions must survive deleting subject 12")
}

func TestMemoryStoreCountSkipsExpired(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &Session{ID: "idle", SubjectID: 1}, time.Nanosecond))
	require.NoError(t, store.Save(ctx, &Session{ID: "a", SubjectID: 2}, time.Minute))
	require.NoError(t, store.Save(ctx, &Session{ID: "b", SubjectID: 3}, time.Minute))
	time.Sleep(time.Millisecond)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, store.Delete(ctx, 2, "a"))
	n, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

// downStore fails every call the way an unreachable Redis would.
type downStore struct {
	MemoryStore
	calls int
}

func (s *downStore) Get(context.Context, int, string) (*Session, error) {
	s.calls++
	return nil, errors.New("dial tcp: connection refused")
}

func TestGuardedStoreFailsFastWhenDown(t *testing.T) {
	down := &downStore{}
	config := BreakerConfig()
	config.Threshold = 2
	store := NewGuardedStore(down, circuit.New("sessions", config, nil))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := store.Get(ctx, 1, "x")
		require.Error(t, err)
	}
	_, err := store.Get(ctx, 1, "x")
	assert.ErrorIs(t, err, circuit.ErrOpen)
	assert.Equal(t, 2, down.calls)
}

func TestGuardedStoreNotFoundDoesNotTrip(t *testing.T) {
	memory := NewMemoryStore()
	defer memory.Close()
	config := BreakerConfig()
	config.Threshold = 1
	breaker := circuit.New("sessions", config, nil)
	store := NewGuardedStore(memory, breaker)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Get(ctx, 1, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, circuit.StateClosed, breaker.State())

	require.NoError(t, store.Save(ctx, &Session{ID: "s1", SubjectID: 1}, time.Minute))
	got, err := store.Get(ctx, 1, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)

	removed, err := store.DeleteSubject(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}
