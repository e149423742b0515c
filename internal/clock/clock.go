// Package clock 提供账本时钟，返回单调不减的 unix 秒
package clock

import (
	"sync"
	"time"
)

// Clock 账本时钟
type Clock interface {
	Now() uint64
}

// System 基于系统时间的时钟，系统时间回拨时保持上一次的读数
type System struct {
	mu   sync.Mutex
	last uint64
}

// NewSystem 创建系统时钟
func NewSystem() *System {
	return &System{}
}

// Now 当前时间戳
func (c *System) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := uint64(time.Now().Unix())
	if now < c.last {
		return c.last
	}
	c.last = now
	return now
}

// Manual 手动推进的时钟，用于测试和回放
type Manual struct {
	mu  sync.Mutex
	now uint64
}

// NewManual 创建手动时钟
func NewManual(start uint64) *Manual {
	return &Manual{now: start}
}

// Now 当前时间戳
func (c *Manual) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance 向前推进 d 秒
func (c *Manual) Advance(d uint64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
	return c.now
}

// Set 设置时间，不允许回退
func (c *Manual) Set(ts uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ts > c.now {
		c.now = ts
	}
}
