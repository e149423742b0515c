package handler

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/blues/launchpad/internal/model"
	"github.com/ethereum/go-ethereum/common"
)

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// 分页信息结构
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"totalPage"`
}

// NewPagination 计算总页数
func NewPagination(page, pageSize int, total int64) Pagination {
	totalPage := int64(0)
	if pageSize > 0 {
		totalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return Pagination{Page: page, PageSize: pageSize, Total: total, TotalPage: totalPage}
}

// CreateProjectRequest 发起项目请求，金额使用十进制字符串
type CreateProjectRequest struct {
	Creator      string `json:"creator" binding:"required"`
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	FundingGoal  string `json:"funding_goal" binding:"required"`
	InterestRate uint32 `json:"interest_rate"`
	LoanTerm     uint64 `json:"loan_term"`
	GithubURL    string `json:"github_url"`
	LiveURL      string `json:"live_url"`
	SCFStatus    string `json:"scf_status"`
}

// UpdateStatusRequest 更新项目状态请求
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// FundingRequest 同步募资额请求，amount 可以为负
type FundingRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// InvestRequest 投资请求
type InvestRequest struct {
	Investor string `json:"investor" binding:"required"`
	Amount   string `json:"amount" binding:"required"`
}

// WithdrawRequest 提现请求
type WithdrawRequest struct {
	Investor string `json:"investor" binding:"required"`
}

// MintRequest 铸造徽章请求
type MintRequest struct {
	To              string `json:"to" binding:"required"`
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	ImageURL        string `json:"image_url"`
	Attributes      string `json:"attributes"`
	AchievementType string `json:"achievement_type" binding:"required"`
}

// TransferRequest 转让徽章请求
type TransferRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

// InvestResponse 投资结果
type InvestResponse struct {
	Accepted bool                `json:"accepted"`
	Outcome  model.InvestOutcome `json:"outcome"`
}

// AmountResponse 金额结果
type AmountResponse struct {
	Amount *big.Int `json:"amount"`
}

// PoolResponse 资金池信息
type PoolResponse struct {
	Address       common.Address `json:"address"`
	Info          model.PoolInfo `json:"info"`
	InvestorCount uint64         `json:"investor_count"`
	APY           uint32         `json:"apy"`
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("无效的地址: %s", s)
	}
	return common.HexToAddress(s), nil
}

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("无效的ID: %s", s)
	}
	return id, nil
}

func parsePositiveAmount(s string) (*big.Int, error) {
	amount, err := model.ParseAmount(s)
	if err != nil {
		return nil, err
	}
	if amount.Sign() <= 0 {
		return nil, fmt.Errorf("金额必须大于0")
	}
	return amount, nil
}
