package logic

import (
	"github.com/ethereum/go-ethereum/common"
)

// 账本命名空间
const (
	RegistryNamespace    = "launchpad"
	AchievementNamespace = "achievements"
	poolNamespacePrefix  = "pool:"
)

// 存储键，instance 层存单例与计数器，persistent 层存集合
const (
	keyAdmin        = "ADMIN"
	keyProjectCount = "PROJ_CNT"
	keyStats        = "STATS"
	keyProjects     = "PROJECTS"

	keyPoolInfo      = "POOL_INFO"
	keyInvestorCount = "INV_CNT"
	keyInvestments   = "INVESTS"

	keyTokenCount = "TOK_CNT"
	keyNFTs       = "NFTS"
	keyUserNFTs   = "USER_NFT"
)

// 授权证明对应的操作名
const (
	ActionInitialize           = "initialize"
	ActionCreateProject        = "create_project"
	ActionUpdateProjectStatus  = "update_project_status"
	ActionUpdateProjectFunding = "update_project_funding"
	ActionInitializePool       = "initialize_pool"
	ActionInvest               = "invest"
	ActionWithdraw             = "withdraw"
	ActionMintAchievement      = "mint_achievement_nft"
)

// PoolNamespace 资金池命名空间
func PoolNamespace(pool common.Address) string {
	return poolNamespacePrefix + pool.Hex()
}
