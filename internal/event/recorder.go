// Package event 平台业务事件日志
package event

import (
	"context"
	"errors"

	"github.com/blues/launchpad/internal/model"
)

// ErrInvalidEvent 事件字段不完整
var ErrInvalidEvent = errors.New("invalid event")

// Filter 事件查询条件，零值表示不过滤
type Filter struct {
	ProjectId uint64
	EventType model.EventType
	Page      int
	PageSize  int
}

func (f Filter) normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 20
	}
	return f
}

// Recorder 事件日志
type Recorder interface {
	Record(ctx context.Context, event *model.EventModel) error
	List(ctx context.Context, filter Filter) ([]model.EventModel, int64, error)
}

func validate(event *model.EventModel) error {
	if event.Namespace == "" || event.EventType == "" {
		return ErrInvalidEvent
	}
	return nil
}
