package logic

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/blues/launchpad/internal/ledger"
	"github.com/blues/launchpad/internal/logger"
	"github.com/blues/launchpad/internal/metrics"
	"github.com/blues/launchpad/internal/model"
	"github.com/ethereum/go-ethereum/common"
)

// LendingPoolLogic 单个项目的借贷池记账
type LendingPoolLogic struct {
	host      *ledger.Host
	address   common.Address
	namespace string
}

// NewLendingPoolLogic 创建借贷池，address 决定其存储命名空间
func NewLendingPoolLogic(host *ledger.Host, address common.Address) *LendingPoolLogic {
	return &LendingPoolLogic{
		host:      host,
		address:   address,
		namespace: PoolNamespace(address),
	}
}

// Address 资金池地址
func (l *LendingPoolLogic) Address() common.Address {
	return l.address
}

type investmentTable map[common.Address]model.Investment

func loadInvestments(env *ledger.Env) (investmentTable, error) {
	investments := investmentTable{}
	if _, err := env.Persistent().Get(keyInvestments, &investments); err != nil {
		return nil, err
	}
	return investments, nil
}

func loadPoolInfo(env *ledger.Env) (model.PoolInfo, error) {
	var info model.PoolInfo
	err := env.Instance().Require(keyPoolInfo, &info)
	return info, err
}

// Initialize 初始化资金池，到期日 = 当前时间 + loanTerm，之后不再改变
func (l *LendingPoolLogic) Initialize(ctx context.Context, projectID uint64, creator common.Address, fundingGoal *big.Int, interestRate uint32, loanTerm uint64) error {
	if err := model.CheckI128(fundingGoal); err != nil {
		return err
	}
	goal := model.Zero()
	if fundingGoal != nil {
		goal.Set(fundingGoal)
	}
	err := l.host.Invoke(ctx, l.namespace, ActionInitializePool, func(env *ledger.Env) error {
		if err := env.RequireAuth(creator); err != nil {
			return err
		}
		if loanTerm > math.MaxUint64-env.Now() {
			return fmt.Errorf("loan term %d overflows maturity date", loanTerm)
		}
		info := model.PoolInfo{
			ProjectID:     projectID,
			Creator:       creator,
			FundingGoal:   goal,
			InterestRate:  interestRate,
			LoanTerm:      loanTerm,
			TotalInvested: model.Zero(),
			MaturityDate:  env.Now() + loanTerm,
		}
		if err := env.Instance().Set(keyPoolInfo, info); err != nil {
			return err
		}
		return env.Instance().Set(keyInvestorCount, uint64(0))
	})
	if err != nil {
		return fmt.Errorf("初始化资金池 %s 失败: %w", l.address.Hex(), err)
	}
	logger.Info("资金池已初始化, pool: %s, project: %d", l.address.Hex(), projectID)
	return nil
}

// Invest 投资。已募满或投资后超出目标时拒绝且不改变任何状态。
func (l *LendingPoolLogic) Invest(ctx context.Context, investor common.Address, amount *big.Int) (model.InvestOutcome, error) {
	if err := model.CheckI128(amount); err != nil {
		return "", err
	}
	if amount == nil {
		amount = model.Zero()
	}
	amount = new(big.Int).Set(amount)

	var outcome model.InvestOutcome
	err := l.host.Invoke(ctx, l.namespace, ActionInvest, func(env *ledger.Env) error {
		if err := env.RequireAuth(investor); err != nil {
			return err
		}
		info, err := loadPoolInfo(env)
		if err != nil {
			return err
		}
		if info.IsFunded {
			outcome = model.InvestRejectedFunded
			return nil
		}
		total, err := model.AddI128(info.TotalInvested, amount)
		if err != nil {
			return err
		}
		if total.Cmp(info.FundingGoal) > 0 {
			outcome = model.InvestRejectedExceedsGoal
			return nil
		}

		investments, err := loadInvestments(env)
		if err != nil {
			return err
		}
		if existing, ok := investments[investor]; ok {
			if existing.Amount, err = model.AddI128(existing.Amount, amount); err != nil {
				return err
			}
			investments[investor] = existing
		} else {
			investments[investor] = model.Investment{
				Investor:       investor,
				Amount:         amount,
				Timestamp:      env.Now(),
				InterestEarned: model.Zero(),
			}
			count, err := loadCount(env.Instance(), keyInvestorCount)
			if err != nil {
				return err
			}
			if err := env.Instance().Set(keyInvestorCount, count+1); err != nil {
				return err
			}
		}
		if err := env.Persistent().Set(keyInvestments, investments); err != nil {
			return err
		}

		info.TotalInvested = total
		if total.Cmp(info.FundingGoal) >= 0 {
			info.IsFunded = true
		}
		outcome = model.InvestAccepted
		return env.Instance().Set(keyPoolInfo, info)
	})
	if err != nil {
		return "", fmt.Errorf("投资失败: %w", err)
	}
	metrics.Investments.WithLabelValues(string(outcome)).Inc()
	return outcome, nil
}

// returns 本金 + floor(本金 * 利率 / 10000)
func returns(principal *big.Int, rate uint32) (*big.Int, error) {
	interest := new(big.Int).Mul(principal, new(big.Int).SetUint64(uint64(rate)))
	if err := model.CheckI128(interest); err != nil {
		return nil, err
	}
	interest.Quo(interest, big.NewInt(model.BasisPointsDenominator))
	return model.AddI128(principal, interest)
}

func calculateReturns(env *ledger.Env, info model.PoolInfo, investments investmentTable, investor common.Address) (*big.Int, error) {
	investment, ok := investments[investor]
	if !ok || env.Now() < info.MaturityDate {
		return model.Zero(), nil
	}
	return returns(investment.Amount, info.InterestRate)
}

// CalculateReturns 到期后的应得金额，未到期或没有投资记录时为 0。不考虑是否已提现。
func (l *LendingPoolLogic) CalculateReturns(ctx context.Context, investor common.Address) (*big.Int, error) {
	var out *big.Int
	err := l.host.View(ctx, l.namespace, func(env *ledger.Env) error {
		info, err := loadPoolInfo(env)
		if err != nil {
			return err
		}
		investments, err := loadInvestments(env)
		if err != nil {
			return err
		}
		out, err = calculateReturns(env, info, investments, investor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Withdraw 到期提现，返回应付金额。未到期、无记录或已提现时返回 0。
func (l *LendingPoolLogic) Withdraw(ctx context.Context, investor common.Address) (*big.Int, error) {
	payout := model.Zero()
	err := l.host.Invoke(ctx, l.namespace, ActionWithdraw, func(env *ledger.Env) error {
		if err := env.RequireAuth(investor); err != nil {
			return err
		}
		info, err := loadPoolInfo(env)
		if err != nil {
			return err
		}
		if env.Now() < info.MaturityDate {
			return nil
		}
		investments, err := loadInvestments(env)
		if err != nil {
			return err
		}
		investment, ok := investments[investor]
		if !ok || investment.IsWithdrawn {
			return nil
		}

		total, err := calculateReturns(env, info, investments, investor)
		if err != nil {
			return err
		}
		investment.IsWithdrawn = true
		investment.InterestEarned = new(big.Int).Sub(total, investment.Amount)
		investments[investor] = investment
		if err := env.Persistent().Set(keyInvestments, investments); err != nil {
			return err
		}
		payout = total
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("提现失败: %w", err)
	}
	metrics.Withdrawals.WithLabelValues(strconv.FormatBool(payout.Sign() != 0)).Inc()
	return payout, nil
}

// GetPoolInfo 资金池信息
func (l *LendingPoolLogic) GetPoolInfo(ctx context.Context) (model.PoolInfo, error) {
	var info model.PoolInfo
	err := l.host.View(ctx, l.namespace, func(env *ledger.Env) error {
		var err error
		info, err = loadPoolInfo(env)
		return err
	})
	return info, err
}

// GetInvestment 投资记录，不存在时 found 为 false
func (l *LendingPoolLogic) GetInvestment(ctx context.Context, investor common.Address) (investment model.Investment, found bool, err error) {
	err = l.host.View(ctx, l.namespace, func(env *ledger.Env) error {
		investments, err := loadInvestments(env)
		if err != nil {
			return err
		}
		investment, found = investments[investor]
		return nil
	})
	return investment, found, err
}

// GetAPY 年化利率（基点）
func (l *LendingPoolLogic) GetAPY(ctx context.Context) (uint32, error) {
	info, err := l.GetPoolInfo(ctx)
	if err != nil {
		return 0, err
	}
	return info.InterestRate, nil
}

// GetInvestorCount 投资人数
func (l *LendingPoolLogic) GetInvestorCount(ctx context.Context) (uint64, error) {
	var n uint64
	err := l.host.View(ctx, l.namespace, func(env *ledger.Env) error {
		if _, err := loadPoolInfo(env); err != nil {
			return err
		}
		var err error
		n, err = loadCount(env.Instance(), keyInvestorCount)
		return err
	})
	return n, err
}
