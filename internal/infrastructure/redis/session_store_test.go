package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagacare/health-admin-api/internal/domain/entity"
	"github.com/nagacare/health-admin-api/pkg/config"
)

type fakeRedis struct {
	mu     sync.Mutex
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, ttl time.Duration) *goredis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	default:
		f.data[key] = fmt.Sprint(v)
	}
	f.ttls[key] = ttl
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(_ context.Context, key string) *goredis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return goredis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *goredis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			n++
		}
		delete(f.data, k)
	}
	return goredis.NewIntResult(n, nil)
}

func TestSessionStore_RoundTrip(t *testing.T) {
	fake := newFakeRedis()
	store := &SessionStore{rdb: fake}
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	sess := &entity.Session{
		ID: "sid-1", UserID: "u-1", Username: "maria", Role: entity.RoleWorkers,
		AssignedBarangay: "CONCEPCION", CreatedAt: now, ExpiresAt: now.Add(time.Hour),
	}

	require.NoError(t, store.Save(context.Background(), sess, time.Hour))
	assert.Equal(t, time.Hour, fake.ttls["nagacare:session:sid-1"])

	got, err := store.Get(context.Background(), "sid-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, sess.AssignedBarangay, got.AssignedBarangay)
	assert.True(t, sess.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, store.Delete(context.Background(), "sid-1"))
	got, err = store.Get(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStore_Errors(t *testing.T) {
	fake := newFakeRedis()
	store := &SessionStore{rdb: fake}

	assert.Error(t, store.Save(context.Background(), &entity.Session{ID: "x"}, 0))

	fake.data[SessionKey("bad")] = "{not json"
	_, err := store.Get(context.Background(), "bad")
	assert.Error(t, err)

	fake.getErr = errors.New("connection refused")
	_, err = store.Get(context.Background(), "sid-1")
	assert.Error(t, err)
}

func TestOptionsFromConfig(t *testing.T) {
	_, err := optionsFromConfig(config.RedisConfig{})
	assert.Error(t, err)

	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://:pw@cache:6380/2"})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)

	opts, err = optionsFromConfig(config.RedisConfig{Addr: "localhost:6379"})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
}
