package handler

import (
	"net/http"

	"github.com/blues/launchpad/internal/logic"
	"github.com/blues/launchpad/internal/model"
	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	launch   *logic.LaunchLogic
	projects *logic.ProjectLogic
}

func NewProjectHandler(launch *logic.LaunchLogic, projects *logic.ProjectLogic) *ProjectHandler {
	return &ProjectHandler{
		launch:   launch,
		projects: projects,
	}
}

// CreateProject 发起项目并创建资金池
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	creator, err := parseAddress(req.Creator)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	goal, err := model.ParseAmount(req.FundingGoal)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.launch.LaunchProject(c.Request.Context(), creator, model.ProjectInput{
		Title:        req.Title,
		Description:  req.Description,
		FundingGoal:  goal,
		InterestRate: req.InterestRate,
		LoanTerm:     req.LoanTerm,
		GithubURL:    req.GithubURL,
		LiveURL:      req.LiveURL,
		SCFStatus:    req.SCFStatus,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "项目创建成功", project)
}

// GetProjects 获取全部项目
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	projects, err := h.projects.GetAllProjects(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "获取项目列表成功", projects)
}

// GetProject 获取单个项目详情
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	project, found, err := h.projects.GetProject(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	if !found {
		ErrorResponse(c, http.StatusNotFound, "项目不存在")
		return
	}
	SuccessResponse(c, http.StatusOK, "获取项目详情成功", project)
}

// UpdateStatus 管理员更新项目状态
func (h *ProjectHandler) UpdateStatus(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	status, err := model.ParseProjectStatus(req.Status)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.launch.UpdateProjectStatus(c.Request.Context(), id, status); err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "项目状态更新成功", nil)
}

// UpdateFunding 同步项目募资额
func (h *ProjectHandler) UpdateFunding(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}
	var req FundingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := model.ParseAmount(req.Amount)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.launch.RelayFunding(c.Request.Context(), id, amount); err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "募资额更新成功", nil)
}

// GetStats 平台统计
func (h *ProjectHandler) GetStats(c *gin.Context) {
	stats, err := h.projects.GetPlatformStats(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "获取平台统计成功", stats)
}
