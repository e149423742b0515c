package handler

import (
	"net/http"

	"github.com/blues/launchpad/internal/logic"
	"github.com/gin-gonic/gin"
)

type PoolHandler struct {
	launch *logic.LaunchLogic
}

func NewPoolHandler(launch *logic.LaunchLogic) *PoolHandler {
	return &PoolHandler{launch: launch}
}

func (h *PoolHandler) pool(c *gin.Context) (*logic.LendingPoolLogic, bool) {
	addr, err := parseAddress(c.Param("address"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return h.launch.Pool(addr), true
}

// GetPool 资金池信息
func (h *PoolHandler) GetPool(c *gin.Context) {
	pool, ok := h.pool(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	info, err := pool.GetPoolInfo(ctx)
	if err != nil {
		HandleError(c, err)
		return
	}
	count, err := pool.GetInvestorCount(ctx)
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "获取资金池成功", PoolResponse{
		Address:       pool.Address(),
		Info:          info,
		InvestorCount: count,
		APY:           info.InterestRate,
	})
}

// Invest 投资，被拒绝时返回 409
func (h *PoolHandler) Invest(c *gin.Context) {
	pool, ok := h.pool(c)
	if !ok {
		return
	}
	var req InvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	investor, err := parseAddress(req.Investor)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := parsePositiveAmount(req.Amount)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := h.launch.Invest(c.Request.Context(), pool.Address(), investor, amount)
	if err != nil {
		HandleError(c, err)
		return
	}
	resp := InvestResponse{Accepted: outcome.Accepted(), Outcome: outcome}
	if !outcome.Accepted() {
		c.JSON(http.StatusConflict, Response{Success: false, Message: "投资被拒绝", Data: resp})
		return
	}
	SuccessResponse(c, http.StatusOK, "投资成功", resp)
}

// GetReturns 到期应得金额
func (h *PoolHandler) GetReturns(c *gin.Context) {
	pool, ok := h.pool(c)
	if !ok {
		return
	}
	investor, err := parseAddress(c.Param("investor"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := pool.CalculateReturns(c.Request.Context(), investor)
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "计算收益成功", AmountResponse{Amount: amount})
}

// Withdraw 到期提现
func (h *PoolHandler) Withdraw(c *gin.Context) {
	pool, ok := h.pool(c)
	if !ok {
		return
	}
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	investor, err := parseAddress(req.Investor)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	payout, err := h.launch.Withdraw(c.Request.Context(), pool.Address(), investor)
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "提现完成", AmountResponse{Amount: payout})
}

// GetInvestment 投资记录
func (h *PoolHandler) GetInvestment(c *gin.Context) {
	pool, ok := h.pool(c)
	if !ok {
		return
	}
	investor, err := parseAddress(c.Param("investor"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	investment, found, err := pool.GetInvestment(c.Request.Context(), investor)
	if err != nil {
		HandleError(c, err)
		return
	}
	if !found {
		ErrorResponse(c, http.StatusNotFound, "投资记录不存在")
		return
	}
	SuccessResponse(c, http.StatusOK, "获取投资记录成功", investment)
}
