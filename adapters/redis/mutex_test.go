package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func setupMutexTest(t *testing.T) (*redis.Client, goleak.Option) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	// 先打一次連線，讓連線池先建立，避免被當成洩漏的goroutine
	require.NoError(t, client.Ping(context.Background()).Err())
	return client, goleak.IgnoreCurrent()
}

func TestAutoRenewMutex_LockUnlock(t *testing.T) {
	client, ignore := setupMutexTest(t)

	m := NewAutoRenewMutex(client, "lock:listing1")
	lockCtx, err := m.Lock(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, lockCtx)
	assert.True(t, m.Valid())

	ok, err := m.Unlock()
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, m.Valid())

	// 續期goroutine必須隨著Unlock結束
	goleak.VerifyNone(t, ignore)
}

func TestAutoRenewMutex_AutoRenewal(t *testing.T) {
	client, ignore := setupMutexTest(t)

	m := NewAutoRenewMutex(
		client,
		"lock:listing1",
		WithAutoRenewMutexExpiry(200*time.Millisecond),
		WithAutoRenewMutexRenewInterval(50*time.Millisecond),
	)
	_, err := m.Lock(context.Background())
	assert.NoError(t, err)

	// 超過原始過期時間後，鎖應該因為自動續期而仍然有效
	time.Sleep(300 * time.Millisecond)
	assert.True(t, m.Valid())

	_, err = m.Unlock()
	assert.NoError(t, err)
	goleak.VerifyNone(t, ignore)
}

func TestAutoRenewMutex_Contention(t *testing.T) {
	client, ignore := setupMutexTest(t)

	first := NewAutoRenewMutex(client, "lock:listing1")
	_, err := first.Lock(context.Background())
	require.NoError(t, err)

	// 鎖被持有時，第二個鎖會一直重試直到context逾時
	second := NewAutoRenewMutex(
		client,
		"lock:listing1",
		WithAutoRenewMutexRetryDelay(50*time.Millisecond),
	)
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	_, err = second.Lock(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// 釋放後就能重新取得
	_, err = first.Unlock()
	require.NoError(t, err)

	third := NewAutoRenewMutex(client, "lock:listing1")
	_, err = third.Lock(context.Background())
	assert.NoError(t, err)
	_, err = third.Unlock()
	assert.NoError(t, err)

	goleak.VerifyNone(t, ignore)
}
