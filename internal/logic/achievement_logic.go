package logic

import (
	"context"
	"errors"
	"fmt"

	"github.com/blues/launchpad/internal/ledger"
	"github.com/blues/launchpad/internal/logger"
	"github.com/blues/launchpad/internal/metrics"
	"github.com/blues/launchpad/internal/model"
	"github.com/ethereum/go-ethereum/common"
)

// ErrSoulbound 成就徽章不可转让
var ErrSoulbound = errors.New("achievement badges are soulbound")

// AchievementLogic 成就徽章注册表
type AchievementLogic struct {
	host *ledger.Host
}

// NewAchievementLogic 创建成就徽章注册表
func NewAchievementLogic(host *ledger.Host) *AchievementLogic {
	return &AchievementLogic{host: host}
}

type nftTable map[uint64]model.NFTMetadata

type userIndex map[common.Address][]uint64

func loadNFTs(env *ledger.Env) (nftTable, error) {
	nfts := nftTable{}
	if _, err := env.Persistent().Get(keyNFTs, &nfts); err != nil {
		return nil, err
	}
	return nfts, nil
}

func loadUserIndex(env *ledger.Env) (userIndex, error) {
	index := userIndex{}
	if _, err := env.Persistent().Get(keyUserNFTs, &index); err != nil {
		return nil, err
	}
	return index, nil
}

// Initialize 设置管理员并清零徽章计数
func (a *AchievementLogic) Initialize(ctx context.Context, admin common.Address) error {
	err := a.host.Invoke(ctx, AchievementNamespace, ActionInitialize, func(env *ledger.Env) error {
		if err := env.RequireAuth(admin); err != nil {
			return err
		}
		if err := env.Instance().Set(keyAdmin, admin); err != nil {
			return err
		}
		return env.Instance().Set(keyTokenCount, uint64(0))
	})
	if err != nil {
		return fmt.Errorf("初始化成就注册表失败: %w", err)
	}
	logger.Info("成就注册表已初始化, admin: %s", admin.Hex())
	return nil
}

// IsInitialized 成就注册表是否已初始化
func (a *AchievementLogic) IsInitialized(ctx context.Context) (bool, error) {
	var ok bool
	err := a.host.View(ctx, AchievementNamespace, func(env *ledger.Env) error {
		var err error
		ok, err = env.Instance().Has(keyAdmin)
		return err
	})
	return ok, err
}

// Admin 当前管理员
func (a *AchievementLogic) Admin(ctx context.Context) (common.Address, error) {
	var admin common.Address
	err := a.host.View(ctx, AchievementNamespace, func(env *ledger.Env) error {
		return env.Instance().Require(keyAdmin, &admin)
	})
	return admin, err
}

// MintAchievementNFT 管理员给 to 铸造徽章，返回 token id
func (a *AchievementLogic) MintAchievementNFT(ctx context.Context, to common.Address, in model.NFTInput) (uint64, error) {
	if !in.AchievementType.Valid() {
		return 0, model.ErrInvalidAchievement
	}

	var tokenID uint64
	err := a.host.Invoke(ctx, AchievementNamespace, ActionMintAchievement, func(env *ledger.Env) error {
		var admin common.Address
		if err := env.Instance().Require(keyAdmin, &admin); err != nil {
			return err
		}
		if err := env.RequireAuth(admin); err != nil {
			return err
		}

		count, err := loadCount(env.Instance(), keyTokenCount)
		if err != nil {
			return err
		}
		tokenID = count + 1

		nfts, err := loadNFTs(env)
		if err != nil {
			return err
		}
		nfts[tokenID] = model.NewNFTMetadata(tokenID, to, in, env.Now())
		if err := env.Persistent().Set(keyNFTs, nfts); err != nil {
			return err
		}

		index, err := loadUserIndex(env)
		if err != nil {
			return err
		}
		index[to] = append(index[to], tokenID)
		if err := env.Persistent().Set(keyUserNFTs, index); err != nil {
			return err
		}
		return env.Instance().Set(keyTokenCount, tokenID)
	})
	if err != nil {
		return 0, fmt.Errorf("铸造成就徽章失败: %w", err)
	}

	metrics.BadgesMinted.WithLabelValues(string(in.AchievementType)).Inc()
	logger.Info("成就徽章铸造成功, token: %d, to: %s, type: %s", tokenID, to.Hex(), in.AchievementType)
	return tokenID, nil
}

// GetNFT 获取徽章，不存在时 found 为 false
func (a *AchievementLogic) GetNFT(ctx context.Context, tokenID uint64) (nft model.NFTMetadata, found bool, err error) {
	err = a.host.View(ctx, AchievementNamespace, func(env *ledger.Env) error {
		nfts, err := loadNFTs(env)
		if err != nil {
			return err
		}
		nft, found = nfts[tokenID]
		return nil
	})
	return nft, found, err
}

func userNFTs(env *ledger.Env, user common.Address) ([]model.NFTMetadata, error) {
	nfts, err := loadNFTs(env)
	if err != nil {
		return nil, err
	}
	index, err := loadUserIndex(env)
	if err != nil {
		return nil, err
	}
	out := make([]model.NFTMetadata, 0, len(index[user]))
	for _, id := range index[user] {
		if nft, ok := nfts[id]; ok {
			out = append(out, nft)
		}
	}
	return out, nil
}

// GetUserNFTs 按铸造顺序返回用户的徽章
func (a *AchievementLogic) GetUserNFTs(ctx context.Context, user common.Address) ([]model.NFTMetadata, error) {
	var out []model.NFTMetadata
	err := a.host.View(ctx, AchievementNamespace, func(env *ledger.Env) error {
		var err error
		out, err = userNFTs(env, user)
		return err
	})
	return out, err
}

// HasAchievement 用户是否持有该类型的徽章，精确匹配类型
func (a *AchievementLogic) HasAchievement(ctx context.Context, user common.Address, t model.AchievementType) (bool, error) {
	var has bool
	err := a.host.View(ctx, AchievementNamespace, func(env *ledger.Env) error {
		nfts, err := userNFTs(env, user)
		if err != nil {
			return err
		}
		for _, nft := range nfts {
			if nft.AchievementType == t {
				has = true
				break
			}
		}
		return nil
	})
	return has, err
}

// GetTotalSupply 已铸造的徽章总数
func (a *AchievementLogic) GetTotalSupply(ctx context.Context) (uint64, error) {
	var n uint64
	err := a.host.View(ctx, AchievementNamespace, func(env *ledger.Env) error {
		var err error
		n, err = loadCount(env.Instance(), keyTokenCount)
		return err
	})
	return n, err
}

// Transfer 徽章灵魂绑定，转让总是失败
func (a *AchievementLogic) Transfer(_ context.Context, _, _ common.Address, _ uint64) (bool, error) {
	return false, ErrSoulbound
}
