package logic

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/blues/launchpad/internal/auth"
	"github.com/blues/launchpad/internal/event"
	"github.com/blues/launchpad/internal/ledger"
	"github.com/blues/launchpad/internal/logger"
	"github.com/blues/launchpad/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

// LaunchOptions 编排器开关
type LaunchOptions struct {
	RelayFunding    bool     // 投资成功后同步到项目注册表
	AwardBadges     bool     // 自动发放成就徽章
	SilverThreshold *big.Int // 累计投资达到该值为 Silver
	GoldThreshold   *big.Int // 累计投资超过该值为 Gold
}

// DefaultLaunchOptions 默认开关，等级阈值 Bronze < 1000 <= Silver <= 10000 < Gold
func DefaultLaunchOptions() LaunchOptions {
	return LaunchOptions{
		RelayFunding:    true,
		AwardBadges:     true,
		SilverThreshold: big.NewInt(1000),
		GoldThreshold:   big.NewInt(10000),
	}
}

// LaunchLogic 编排项目注册表、借贷池和成就注册表。注册表与资金池之间的同步只在这里发生。
type LaunchLogic struct {
	host         *ledger.Host
	projects     *ProjectLogic
	achievements *AchievementLogic
	recorder     event.Recorder
	admin        *auth.Signer // 为空时不发徽章也不自动更新状态
	opts         LaunchOptions

	poolLocks ledger.Locks[common.Address]
}

// NewLaunchLogic 创建编排器
func NewLaunchLogic(host *ledger.Host, projects *ProjectLogic, achievements *AchievementLogic, recorder event.Recorder, admin *auth.Signer, opts LaunchOptions) *LaunchLogic {
	if opts.SilverThreshold == nil || opts.GoldThreshold == nil {
		def := DefaultLaunchOptions()
		opts.SilverThreshold, opts.GoldThreshold = def.SilverThreshold, def.GoldThreshold
	}
	return &LaunchLogic{
		host:         host,
		projects:     projects,
		achievements: achievements,
		recorder:     recorder,
		admin:        admin,
		opts:         opts,
	}
}

// Pool 指定地址的借贷池
func (l *LaunchLogic) Pool(address common.Address) *LendingPoolLogic {
	return NewLendingPoolLogic(l.host, address)
}

func (l *LaunchLogic) lockPool(address common.Address) func() {
	return l.poolLocks.Lock(address)
}

// DerivePoolAddress 由创建人和盐值派生资金池地址
func DerivePoolAddress(creator common.Address, salt uuid.UUID) common.Address {
	return common.BytesToAddress(crypto.Keccak256(creator.Bytes(), salt[:])[12:])
}

// LaunchProject 创建项目并初始化其资金池。ctx 需携带创建人对两个操作的授权证明。
func (l *LaunchLogic) LaunchProject(ctx context.Context, creator common.Address, in model.ProjectInput) (model.Project, error) {
	in.PoolAddress = DerivePoolAddress(creator, uuid.New())

	id, err := l.projects.CreateProject(ctx, creator, in)
	if err != nil {
		return model.Project{}, err
	}
	if err := l.Pool(in.PoolAddress).Initialize(ctx, id, creator, in.FundingGoal, in.InterestRate, in.LoanTerm); err != nil {
		logger.Error("项目 %d 已创建但资金池初始化失败: %v", id, err)
		return model.Project{}, err
	}

	l.record(ctx, &model.EventModel{
		Namespace: RegistryNamespace,
		EventType: model.EventProjectLaunched,
		ProjectId: id,
		Actor:     creator.Hex(),
		Amount:    amountString(in.FundingGoal),
		Data:      in.PoolAddress.Hex(),
	})

	if l.badgesEnabled() {
		l.awardOnce(ctx, creator, model.AchievementCreator, fmt.Sprintf("Creator of project #%d", id))
	}

	project, _, err := l.projects.GetProject(ctx, id)
	return project, err
}

// Invest 投资并按配置同步募资额、发放徽章
func (l *LaunchLogic) Invest(ctx context.Context, poolAddress common.Address, investor common.Address, amount *big.Int) (model.InvestOutcome, error) {
	unlock := l.lockPool(poolAddress)
	defer unlock()

	pool := l.Pool(poolAddress)
	outcome, err := pool.Invest(ctx, investor, amount)
	if err != nil {
		return "", err
	}
	info, err := pool.GetPoolInfo(ctx)
	if err != nil {
		return outcome, err
	}

	if !outcome.Accepted() {
		l.record(ctx, &model.EventModel{
			Namespace: pool.namespace,
			EventType: model.EventInvestRejected,
			ProjectId: info.ProjectID,
			Actor:     investor.Hex(),
			Amount:    amountString(amount),
			Data:      string(outcome),
		})
		return outcome, nil
	}

	l.record(ctx, &model.EventModel{
		Namespace: pool.namespace,
		EventType: model.EventInvested,
		ProjectId: info.ProjectID,
		Actor:     investor.Hex(),
		Amount:    amountString(amount),
	})

	if l.opts.RelayFunding {
		if err := l.relay(ctx, info.ProjectID, amount); err != nil {
			logger.Error("同步项目 %d 募资额失败: %v", info.ProjectID, err)
		}
	}

	if l.badgesEnabled() {
		l.awardInvestor(ctx, pool, investor, info)
	}
	return outcome, nil
}

func (l *LaunchLogic) awardInvestor(ctx context.Context, pool *LendingPoolLogic, investor common.Address, info model.PoolInfo) {
	investment, found, err := pool.GetInvestment(ctx, investor)
	if err != nil || !found {
		logger.Error("读取投资记录失败, investor: %s, err: %v", investor.Hex(), err)
		return
	}
	tier := l.Tier(investment.Amount)
	l.awardOnce(ctx, investor, tier, fmt.Sprintf("%s investor in project #%d", tier, info.ProjectID))

	if count, err := pool.GetInvestorCount(ctx); err == nil && count == 1 {
		l.awardOnce(ctx, investor, model.AchievementEarlySupporter, fmt.Sprintf("First backer of project #%d", info.ProjectID))
	}
	if info.IsFunded {
		l.award(ctx, info.Creator, model.AchievementProjectFunded, fmt.Sprintf("Project #%d fully funded", info.ProjectID))
	}
}

// Tier 按累计投资额确定投资人等级
func (l *LaunchLogic) Tier(amount *big.Int) model.AchievementType {
	switch {
	case amount.Cmp(l.opts.SilverThreshold) < 0:
		return model.AchievementInvestorBronze
	case amount.Cmp(l.opts.GoldThreshold) <= 0:
		return model.AchievementInvestorSilver
	default:
		return model.AchievementInvestorGold
	}
}

// Withdraw 到期提现
func (l *LaunchLogic) Withdraw(ctx context.Context, poolAddress common.Address, investor common.Address) (*big.Int, error) {
	pool := l.Pool(poolAddress)
	payout, err := pool.Withdraw(ctx, investor)
	if err != nil {
		return nil, err
	}
	if payout.Sign() != 0 {
		var projectID uint64
		if info, err := pool.GetPoolInfo(ctx); err == nil {
			projectID = info.ProjectID
		}
		l.record(ctx, &model.EventModel{
			Namespace: pool.namespace,
			EventType: model.EventWithdrawn,
			ProjectId: projectID,
			Actor:     investor.Hex(),
			Amount:    payout.String(),
		})
	}
	return payout, nil
}

// UpdateProjectStatus 更新项目状态并记录事件，ctx 需携带管理员证明
func (l *LaunchLogic) UpdateProjectStatus(ctx context.Context, id uint64, status model.ProjectStatus) error {
	if err := l.projects.UpdateProjectStatus(ctx, id, status); err != nil {
		return err
	}
	l.record(ctx, &model.EventModel{
		Namespace: RegistryNamespace,
		EventType: model.EventStatusChanged,
		ProjectId: id,
		Data:      string(status),
	})
	return nil
}

// RelayFunding 手动把 amount 计入项目募资额
func (l *LaunchLogic) RelayFunding(ctx context.Context, id uint64, amount *big.Int) error {
	return l.relay(ctx, id, amount)
}

func (l *LaunchLogic) relay(ctx context.Context, id uint64, amount *big.Int) error {
	if err := l.projects.UpdateProjectFunding(ctx, id, amount); err != nil {
		return err
	}
	l.record(ctx, &model.EventModel{
		Namespace: RegistryNamespace,
		EventType: model.EventFundingRelayed,
		ProjectId: id,
		Amount:    amountString(amount),
	})
	return nil
}

// MintBadge 铸造徽章并记录事件，ctx 需携带管理员证明
func (l *LaunchLogic) MintBadge(ctx context.Context, to common.Address, in model.NFTInput) (uint64, error) {
	tokenID, err := l.achievements.MintAchievementNFT(ctx, to, in)
	if err != nil {
		return 0, err
	}
	l.record(ctx, &model.EventModel{
		Namespace: AchievementNamespace,
		EventType: model.EventBadgeMinted,
		Actor:     to.Hex(),
		Data:      fmt.Sprintf("%d:%s", tokenID, in.AchievementType),
	})
	return tokenID, nil
}

// ReconcileProject 让项目募资额与资金池一致，资金池募满后把 Draft/Active 项目标记为 Funded
func (l *LaunchLogic) ReconcileProject(ctx context.Context, id uint64) error {
	project, found, err := l.projects.GetProject(ctx, id)
	if err != nil || !found || project.PoolAddress == (common.Address{}) {
		return err
	}

	unlock := l.lockPool(project.PoolAddress)
	defer unlock()

	// 加锁后重新读取，避免与 Invest 的同步重复计数
	project, _, err = l.projects.GetProject(ctx, id)
	if err != nil {
		return err
	}
	info, err := l.Pool(project.PoolAddress).GetPoolInfo(ctx)
	if errors.Is(err, ledger.ErrNotInitialized) {
		return nil
	}
	if err != nil {
		return err
	}

	if l.opts.RelayFunding {
		delta := new(big.Int).Sub(info.TotalInvested, project.TotalRaised)
		if delta.Sign() != 0 {
			logger.Info("同步项目 %d 募资额, delta: %s", id, delta.String())
			if err := l.relay(ctx, id, delta); err != nil {
				return err
			}
		}
	}

	if info.IsFunded && l.admin != nil &&
		(project.Status == model.ProjectStatusDraft || project.Status == model.ProjectStatusActive) {
		adminCtx, err := l.admin.Authorize(ctx, ActionUpdateProjectStatus, l.host.Now())
		if err != nil {
			return err
		}
		if err := l.UpdateProjectStatus(adminCtx, id, model.ProjectStatusFunded); err != nil {
			return err
		}
		logger.Info("项目 %d 已募满, 状态更新为 Funded", id)
	}
	return nil
}

func (l *LaunchLogic) badgesEnabled() bool {
	return l.opts.AwardBadges && l.admin != nil
}

func (l *LaunchLogic) awardOnce(ctx context.Context, to common.Address, t model.AchievementType, description string) {
	has, err := l.achievements.HasAchievement(ctx, to, t)
	if err != nil {
		logger.Error("查询成就失败, user: %s, err: %v", to.Hex(), err)
		return
	}
	if !has {
		l.award(ctx, to, t, description)
	}
}

func (l *LaunchLogic) award(ctx context.Context, to common.Address, t model.AchievementType, description string) {
	adminCtx, err := l.admin.Authorize(ctx, ActionMintAchievement, l.host.Now())
	if err != nil {
		logger.Error("管理员签名失败: %v", err)
		return
	}
	if _, err := l.MintBadge(adminCtx, to, model.NFTInput{
		Name:            string(t),
		Description:     description,
		AchievementType: t,
	}); err != nil {
		logger.Error("发放成就徽章失败, user: %s, type: %s, err: %v", to.Hex(), t, err)
	}
}

func (l *LaunchLogic) record(ctx context.Context, e *model.EventModel) {
	if l.recorder == nil {
		return
	}
	e.LedgerAt = l.host.Now()
	if err := l.recorder.Record(ctx, e); err != nil {
		logger.Warn("记录事件失败, type: %s, err: %v", e.EventType, err)
	}
}

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
