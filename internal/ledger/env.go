package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/blues/launchpad/internal/metrics"
	"github.com/blues/launchpad/internal/storage"
	"github.com/ethereum/go-ethereum/common"
)

type slot struct {
	tier storage.Tier
	key  string
}

// Env 单次调用的执行环境
type Env struct {
	ctx       context.Context
	host      *Host
	namespace string
	action    string
	now       uint64
	readOnly  bool

	writes map[slot][]byte
	order  []slot
}

func newEnv(ctx context.Context, h *Host, namespace, action string, readOnly bool) *Env {
	return &Env{
		ctx:       ctx,
		host:      h,
		namespace: namespace,
		action:    action,
		now:       h.clock.Now(),
		readOnly:  readOnly,
		writes:    make(map[slot][]byte),
	}
}

// Now 调用开始时的账本时间，同一次调用内保持不变
func (e *Env) Now() uint64 {
	return e.now
}

// RequireAuth 要求 identity 对当前操作给出有效证明，失败时整个调用中止
func (e *Env) RequireAuth(identity common.Address) error {
	if e.readOnly {
		return ErrReadOnly
	}
	if err := e.host.auth.RequireAuth(e.ctx, identity, e.action); err != nil {
		metrics.AuthFailures.WithLabelValues(e.action).Inc()
		return err
	}
	return nil
}

// Instance 单例字段与计数器所在的存储层
func (e *Env) Instance() Scope {
	return Scope{env: e, tier: storage.TierInstance}
}

// Persistent 大集合所在的存储层
func (e *Env) Persistent() Scope {
	return Scope{env: e, tier: storage.TierPersistent}
}

func (e *Env) pending() []storage.Write {
	out := make([]storage.Write, 0, len(e.order))
	for _, s := range e.order {
		out = append(out, storage.Write{Tier: s.tier, Key: s.key, Value: e.writes[s]})
	}
	return out
}

// Scope 某一存储层上的 JSON 读写
type Scope struct {
	env  *Env
	tier storage.Tier
}

func (s Scope) raw(key string) ([]byte, bool, error) {
	if v, ok := s.env.writes[slot{s.tier, key}]; ok {
		return v, true, nil
	}
	v, ok, err := s.env.host.store.Get(s.env.ctx, s.env.namespace, s.tier, key)
	if err != nil {
		return nil, false, fmt.Errorf("read %s/%s/%s: %w", s.env.namespace, s.tier, key, err)
	}
	return v, ok, nil
}

// Has 键是否存在
func (s Scope) Has(key string) (bool, error) {
	_, ok, err := s.raw(key)
	return ok, err
}

// Get 读取键并解码到 out，键不存在时返回 false
func (s Scope) Get(key string, out any) (bool, error) {
	v, ok, err := s.raw(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(v, out); err != nil {
		return false, fmt.Errorf("decode %s/%s: %w", s.tier, key, err)
	}
	return true, nil
}

// Require 读取必须存在的键，不存在时返回 ErrNotInitialized
func (s Scope) Require(key string, out any) error {
	ok, err := s.Get(key, out)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s missing in %s", ErrNotInitialized, key, s.env.namespace)
	}
	return nil
}

// Set 缓冲写入，调用成功后才提交
func (s Scope) Set(key string, v any) error {
	if s.env.readOnly {
		return ErrReadOnly
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", s.tier, key, err)
	}
	sl := slot{s.tier, key}
	if _, ok := s.env.writes[sl]; !ok {
		s.env.order = append(s.env.order, sl)
	}
	s.env.writes[sl] = data
	return nil
}
