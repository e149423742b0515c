package event

import (
	"context"
	"fmt"

	"github.com/blues/launchpad/internal/model"
	"gorm.io/gorm"
)

// GormRecorder 基于 gorm 的事件日志
type GormRecorder struct {
	db *gorm.DB
}

// NewGormRecorder 创建 gorm 事件日志
func NewGormRecorder(db *gorm.DB) *GormRecorder {
	return &GormRecorder{db: db}
}

// Record 写入事件
func (r *GormRecorder) Record(ctx context.Context, event *model.EventModel) error {
	if err := validate(event); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("创建事件记录失败: %w", err)
	}
	return nil
}

// List 分页查询事件，按 id 倒序
func (r *GormRecorder) List(ctx context.Context, filter Filter) ([]model.EventModel, int64, error) {
	filter = filter.normalize()
	var events []model.EventModel
	var total int64

	// 构建查询条件
	query := r.db.WithContext(ctx).Model(&model.EventModel{})
	if filter.ProjectId > 0 {
		query = query.Where("project_id = ?", filter.ProjectId)
	}
	if filter.EventType != "" {
		query = query.Where("event_type = ?", filter.EventType)
	}

	// 获取总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取事件总数失败: %w", err)
	}

	// 分页查询
	offset := (filter.Page - 1) * filter.PageSize
	if err := query.Offset(offset).Limit(filter.PageSize).Order("id DESC").Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("获取事件列表失败: %w", err)
	}

	return events, total, nil
}
