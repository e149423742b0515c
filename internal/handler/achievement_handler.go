package handler

import (
	"net/http"

	"github.com/blues/launchpad/internal/logic"
	"github.com/blues/launchpad/internal/model"
	"github.com/gin-gonic/gin"
)

type AchievementHandler struct {
	launch       *logic.LaunchLogic
	achievements *logic.AchievementLogic
}

func NewAchievementHandler(launch *logic.LaunchLogic, achievements *logic.AchievementLogic) *AchievementHandler {
	return &AchievementHandler{
		launch:       launch,
		achievements: achievements,
	}
}

// Mint 管理员铸造徽章
func (h *AchievementHandler) Mint(c *gin.Context) {
	var req MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	to, err := parseAddress(req.To)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	t, err := model.ParseAchievementType(req.AchievementType)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	tokenID, err := h.launch.MintBadge(c.Request.Context(), to, model.NFTInput{
		Name:            req.Name,
		Description:     req.Description,
		ImageURL:        req.ImageURL,
		Attributes:      req.Attributes,
		AchievementType: t,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "徽章铸造成功", gin.H{"token_id": tokenID})
}

// GetNFT 获取徽章
func (h *AchievementHandler) GetNFT(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的徽章ID")
		return
	}
	nft, found, err := h.achievements.GetNFT(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	if !found {
		ErrorResponse(c, http.StatusNotFound, "徽章不存在")
		return
	}
	SuccessResponse(c, http.StatusOK, "获取徽章成功", nft)
}

// GetUserNFTs 用户的全部徽章
func (h *AchievementHandler) GetUserNFTs(c *gin.Context) {
	user, err := parseAddress(c.Param("address"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	nfts, err := h.achievements.GetUserNFTs(c.Request.Context(), user)
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "获取用户徽章成功", nfts)
}

// HasAchievement 用户是否持有某类徽章
func (h *AchievementHandler) HasAchievement(c *gin.Context) {
	user, err := parseAddress(c.Param("address"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	t, err := model.ParseAchievementType(c.Param("type"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	has, err := h.achievements.HasAchievement(c.Request.Context(), user, t)
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "查询成功", gin.H{"has_achievement": has})
}

// GetTotalSupply 徽章总数
func (h *AchievementHandler) GetTotalSupply(c *gin.Context) {
	supply, err := h.achievements.GetTotalSupply(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "查询成功", gin.H{"total_supply": supply})
}

// Transfer 徽章不可转让，总是返回 403
func (h *AchievementHandler) Transfer(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的徽章ID")
		return
	}
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	from, err := parseAddress(req.From)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	to, err := parseAddress(req.To)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.achievements.Transfer(c.Request.Context(), from, to, id); err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "转让成功", nil)
}
