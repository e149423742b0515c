package event

import (
	"context"
	"sync"
	"time"

	"github.com/blues/launchpad/internal/model"
)

// MemoryRecorder 内存事件日志，未配置数据库时使用
type MemoryRecorder struct {
	mu     sync.RWMutex
	events []model.EventModel
}

// NewMemoryRecorder 创建内存事件日志
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

// Record 写入事件
func (r *MemoryRecorder) Record(_ context.Context, event *model.EventModel) error {
	if err := validate(event); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	event.Id = int64(len(r.events) + 1)
	event.CreatedAt = now
	event.UpdatedAt = now
	r.events = append(r.events, *event)
	return nil
}

// List 分页查询事件，按 id 倒序
func (r *MemoryRecorder) List(_ context.Context, filter Filter) ([]model.EventModel, int64, error) {
	filter = filter.normalize()
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []model.EventModel
	for i := len(r.events) - 1; i >= 0; i-- {
		e := r.events[i]
		if filter.ProjectId > 0 && e.ProjectId != filter.ProjectId {
			continue
		}
		if filter.EventType != "" && e.EventType != filter.EventType {
			continue
		}
		matched = append(matched, e)
	}

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.PageSize
	if start >= len(matched) {
		return []model.EventModel{}, total, nil
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}
