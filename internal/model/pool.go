package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PoolInfo 借贷池信息
type PoolInfo struct {
	ProjectID     uint64         `json:"project_id"`
	Creator       common.Address `json:"creator"`
	FundingGoal   *big.Int       `json:"funding_goal"`
	InterestRate  uint32         `json:"interest_rate"`
	LoanTerm      uint64         `json:"loan_term"`
	TotalInvested *big.Int       `json:"total_invested"`
	IsFunded      bool           `json:"is_funded"`
	MaturityDate  uint64         `json:"maturity_date"`
}

// Investment 投资记录，同一投资人在同一资金池只有一条
type Investment struct {
	Investor       common.Address `json:"investor"`
	Amount         *big.Int       `json:"amount"`
	Timestamp      uint64         `json:"timestamp"`
	InterestEarned *big.Int       `json:"interest_earned"`
	IsWithdrawn    bool           `json:"is_withdrawn"`
}

// InvestOutcome 投资结果
type InvestOutcome string

const (
	InvestAccepted            InvestOutcome = "accepted"
	InvestRejectedFunded      InvestOutcome = "rejected_funded"       // 资金池已募满
	InvestRejectedExceedsGoal InvestOutcome = "rejected_exceeds_goal" // 超出募资目标
)

// Accepted 是否接受了投资
func (o InvestOutcome) Accepted() bool {
	return o == InvestAccepted
}
