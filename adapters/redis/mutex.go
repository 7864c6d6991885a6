package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLockExpiry = 8 * time.Second
	defaultRetryDelay = 500 * time.Millisecond
)

// AutoRenewMutex 是帶自動續期功能的分散式互斥鎖
// 拍賣服務用它在出價時對單一刊登物品做序列化，
// 避免兩個請求同時讀到相同的最高出價
type AutoRenewMutex struct {
	*redsync.Mutex
	stopRenew context.CancelFunc
	renewing  bool
	mu        sync.Mutex
	wg        sync.WaitGroup
	opts      autoRenewMutexOptions
}

type autoRenewMutexOptions struct {
	renewInterval time.Duration
	retryDelay    time.Duration
	expiry        time.Duration
	skipLockError bool
}

type AutoRenewMutexOption func(*autoRenewMutexOptions)

// WithAutoRenewMutexRenewInterval 設置自動續期間隔
func WithAutoRenewMutexRenewInterval(d time.Duration) AutoRenewMutexOption {
	return func(o *autoRenewMutexOptions) {
		o.renewInterval = d
	}
}

// WithAutoRenewMutexRetryDelay 設置重試延遲
func WithAutoRenewMutexRetryDelay(d time.Duration) AutoRenewMutexOption {
	return func(o *autoRenewMutexOptions) {
		o.retryDelay = d
	}
}

// WithAutoRenewMutexExpiry 設置鎖過期時間，非正值會改用預設值
func WithAutoRenewMutexExpiry(d time.Duration) AutoRenewMutexOption {
	return func(o *autoRenewMutexOptions) {
		o.expiry = d
	}
}

// WithAutoRenewMutexSkipLockError 設置是否忽略所有鎖定錯誤
func WithAutoRenewMutexSkipLockError(skip bool) AutoRenewMutexOption {
	return func(o *autoRenewMutexOptions) {
		o.skipLockError = skip
	}
}

// NewAutoRenewMutex 創建一個帶自動續期功能的互斥鎖
func NewAutoRenewMutex(client *redis.Client, key string, opts ...AutoRenewMutexOption) IAutoRenewMutex {
	options := autoRenewMutexOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.expiry <= 0 {
		options.expiry = defaultLockExpiry
	}
	if options.retryDelay <= 0 {
		options.retryDelay = defaultRetryDelay
	}
	// 未設置續期間隔時，取過期時間的1/3
	if options.renewInterval <= 0 {
		options.renewInterval = options.expiry / 3
	}

	rs := redsync.New(goredis.NewPool(client))
	return &AutoRenewMutex{
		Mutex: rs.NewMutex(
			key,
			redsync.WithExpiry(options.expiry),
			redsync.WithTries(1),
			redsync.WithRetryDelay(options.retryDelay),
		),
		opts: options,
	}
}

// Lock 獲取鎖並啟動自動續期
// 鎖被別人持有時會一直重試，直到取得鎖或context結束
func (m *AutoRenewMutex) Lock(ctx context.Context) (context.Context, error) {
	for {
		err := m.Mutex.LockContext(ctx)
		if err == nil {
			lockCtx, cancel := context.WithCancel(ctx)
			m.stopRenew = cancel
			m.beginRenew(lockCtx)
			return lockCtx, nil
		}

		// 與Redis溝通失敗不值得重試，除非設置了忽略鎖定錯誤
		var redisErr *redsync.RedisError
		if errors.As(err, &redisErr) && !m.opts.skipLockError {
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.opts.retryDelay):
		}
	}
}

// Unlock 停止自動續期並釋放鎖
func (m *AutoRenewMutex) Unlock() (bool, error) {
	m.endRenew()
	m.wg.Wait()
	return m.Mutex.Unlock()
}

// Valid 檢查鎖是否仍然有效
func (m *AutoRenewMutex) Valid() bool {
	return m.renewing && time.Now().Before(m.Mutex.Until())
}

func (m *AutoRenewMutex) beginRenew(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.renewing {
		return
	}
	m.renewing = true
	m.wg.Add(1)
	go m.renewLoop(ctx)
}

func (m *AutoRenewMutex) renewLoop(ctx context.Context) {
	defer m.wg.Done()
	ticker := time.NewTicker(m.opts.renewInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// 續期失敗表示鎖已經丟了，續期goroutine沒有存在的意義
			if ok, err := m.Mutex.Extend(); err != nil || !ok {
				m.endRenew()
				return
			}
		}
	}
}

func (m *AutoRenewMutex) endRenew() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.renewing {
		return
	}
	m.renewing = false
	if m.stopRenew != nil {
		m.stopRenew()
	}
}
