package model

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ErrInvalidStatus 未知的项目状态
var ErrInvalidStatus = errors.New("invalid project status")

// Project 众筹项目记录
type Project struct {
	ID          uint64         `json:"id"`
	Creator     common.Address `json:"creator"`
	Title       string         `json:"title"`
	Description string         `json:"description"`

	// 融资信息
	FundingGoal  *big.Int `json:"funding_goal"`
	InterestRate uint32   `json:"interest_rate"` // 基点，500 = 5%
	LoanTerm     uint64   `json:"loan_term"`     // 秒

	// 外部链接
	GithubURL string `json:"github_url"`
	LiveURL   string `json:"live_url"`
	SCFStatus string `json:"scf_status"`

	PoolAddress common.Address `json:"pool_address"`
	Status      ProjectStatus  `json:"status"`
	CreatedAt   uint64         `json:"created_at"`
	TotalRaised *big.Int       `json:"total_raised"`
}

// ProjectInput 创建项目的输入字段
type ProjectInput struct {
	Title        string
	Description  string
	FundingGoal  *big.Int
	InterestRate uint32
	LoanTerm     uint64
	GithubURL    string
	LiveURL      string
	SCFStatus    string
	PoolAddress  common.Address
}

// ProjectStatus 项目状态
type ProjectStatus string

const (
	ProjectStatusDraft     ProjectStatus = "Draft"     // 草稿
	ProjectStatusActive    ProjectStatus = "Active"    // 募集中
	ProjectStatusFunded    ProjectStatus = "Funded"    // 已募满
	ProjectStatusCompleted ProjectStatus = "Completed" // 已完成
	ProjectStatusDefaulted ProjectStatus = "Defaulted" // 已违约
)

// Valid 是否为已知状态
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusDraft,
		ProjectStatusActive,
		ProjectStatusFunded,
		ProjectStatusCompleted,
		ProjectStatusDefaulted:
		return true
	}
	return false
}

// ParseProjectStatus 解析项目状态
func ParseProjectStatus(s string) (ProjectStatus, error) {
	status := ProjectStatus(s)
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// PlatformStats 平台统计
type PlatformStats struct {
	TotalProjects  uint64   `json:"total_projects"`
	TotalFunded    *big.Int `json:"total_funded"`
	ActiveProjects uint64   `json:"active_projects"`
	TotalInvestors uint64   `json:"total_investors"`
}
