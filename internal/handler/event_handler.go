package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/launchpad/internal/event"
	"github.com/blues/launchpad/internal/model"
	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	recorder event.Recorder
}

func NewEventHandler(recorder event.Recorder) *EventHandler {
	return &EventHandler{recorder: recorder}
}

// GetEvents 分页查询事件日志
func (h *EventHandler) GetEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	projectID, _ := strconv.ParseUint(c.DefaultQuery("project_id", "0"), 10, 64)

	filter := event.Filter{
		ProjectId: projectID,
		EventType: model.EventType(c.Query("event_type")),
		Page:      page,
		PageSize:  pageSize,
	}
	events, total, err := h.recorder.List(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	SuccessResponse(c, http.StatusOK, "获取事件列表成功", gin.H{
		"events":     events,
		"pagination": NewPagination(page, pageSize, total),
	})
}
