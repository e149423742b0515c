// Package ledger 账本宿主：按命名空间串行执行调用，缓冲写入并在调用成功后原子提交
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/blues/launchpad/internal/clock"
	"github.com/blues/launchpad/internal/metrics"
	"github.com/blues/launchpad/internal/storage"
	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrNotInitialized 组件尚未初始化
	ErrNotInitialized = errors.New("not initialized")
	// ErrReadOnly 只读调用中尝试写入或鉴权
	ErrReadOnly = errors.New("read-only invocation")
)

// Authorizer 授权提供方
type Authorizer interface {
	RequireAuth(ctx context.Context, identity common.Address, action string) error
}

// Host 账本宿主
type Host struct {
	store storage.Store
	auth  Authorizer
	clock clock.Clock

	locks Locks[string]
}

// NewHost 创建账本宿主
func NewHost(store storage.Store, auth Authorizer, c clock.Clock) *Host {
	return &Host{
		store: store,
		auth:  auth,
		clock: c,
	}
}

// Now 账本当前时间
func (h *Host) Now() uint64 {
	return h.clock.Now()
}

// Invoke 在命名空间上执行一次写调用。fn 返回 nil 时提交全部写入，否则丢弃。
func (h *Host) Invoke(ctx context.Context, namespace, action string, fn func(*Env) error) error {
	unlock := h.locks.Lock(namespace)
	defer unlock()

	env := newEnv(ctx, h, namespace, action, false)
	component := metrics.Component(namespace)
	if err := fn(env); err != nil {
		metrics.LedgerInvocations.WithLabelValues(component, "abort").Inc()
		return err
	}
	if len(env.writes) > 0 {
		if err := h.store.Commit(ctx, namespace, env.pending()); err != nil {
			metrics.LedgerInvocations.WithLabelValues(component, "abort").Inc()
			return fmt.Errorf("commit %s/%s: %w", namespace, action, err)
		}
	}
	metrics.LedgerInvocations.WithLabelValues(component, "commit").Inc()
	return nil
}

// View 在命名空间上执行只读调用
func (h *Host) View(ctx context.Context, namespace string, fn func(*Env) error) error {
	unlock := h.locks.RLock(namespace)
	defer unlock()

	return fn(newEnv(ctx, h, namespace, "", true))
}
