package model

import (
	"encoding/json"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// ErrInvalidAchievement 未知的成就类型
var ErrInvalidAchievement = errors.New("invalid achievement type")

// AchievementType 成就类型
type AchievementType string

const (
	AchievementWelcome        AchievementType = "Welcome"
	AchievementCreator        AchievementType = "Creator"
	AchievementInvestorBronze AchievementType = "InvestorBronze"
	AchievementInvestorSilver AchievementType = "InvestorSilver"
	AchievementInvestorGold   AchievementType = "InvestorGold"
	AchievementProjectFunded  AchievementType = "ProjectFunded"
	AchievementEarlySupporter AchievementType = "EarlySupporter"
)

// Valid 是否为已知成就类型
func (t AchievementType) Valid() bool {
	switch t {
	case AchievementWelcome,
		AchievementCreator,
		AchievementInvestorBronze,
		AchievementInvestorSilver,
		AchievementInvestorGold,
		AchievementProjectFunded,
		AchievementEarlySupporter:
		return true
	}
	return false
}

// ParseAchievementType 解析成就类型
func ParseAchievementType(s string) (AchievementType, error) {
	t := AchievementType(s)
	if !t.Valid() {
		return "", ErrInvalidAchievement
	}
	return t, nil
}

// NFTInput 铸造成就徽章的输入
type NFTInput struct {
	Name            string
	Description     string
	ImageURL        string
	Attributes      string // JSON 字符串
	AchievementType AchievementType
}

// NFTMetadata 灵魂绑定成就徽章。owner 只在构造时写入，不提供修改方法。
type NFTMetadata struct {
	owner common.Address

	TokenID         uint64
	Name            string
	Description     string
	ImageURL        string
	Attributes      string
	AchievementType AchievementType
	MintedAt        uint64
}

// NewNFTMetadata 创建徽章
func NewNFTMetadata(tokenID uint64, owner common.Address, in NFTInput, mintedAt uint64) NFTMetadata {
	return NFTMetadata{
		owner:           owner,
		TokenID:         tokenID,
		Name:            in.Name,
		Description:     in.Description,
		ImageURL:        in.ImageURL,
		Attributes:      in.Attributes,
		AchievementType: in.AchievementType,
		MintedAt:        mintedAt,
	}
}

// Owner 徽章持有人
func (n NFTMetadata) Owner() common.Address {
	return n.owner
}

// IsSoulbound 徽章永远不可转让
func (n NFTMetadata) IsSoulbound() bool {
	return true
}

type nftWire struct {
	TokenID         uint64          `json:"token_id"`
	Owner           common.Address  `json:"owner"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	ImageURL        string          `json:"image_url"`
	Attributes      string          `json:"attributes"`
	AchievementType AchievementType `json:"achievement_type"`
	MintedAt        uint64          `json:"minted_at"`
	IsSoulbound     bool            `json:"is_soulbound"`
}

// MarshalJSON 序列化
func (n NFTMetadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(nftWire{
		TokenID:         n.TokenID,
		Owner:           n.owner,
		Name:            n.Name,
		Description:     n.Description,
		ImageURL:        n.ImageURL,
		Attributes:      n.Attributes,
		AchievementType: n.AchievementType,
		MintedAt:        n.MintedAt,
		IsSoulbound:     true,
	})
}

// UnmarshalJSON 反序列化，仅用于从存储中还原
func (n *NFTMetadata) UnmarshalJSON(data []byte) error {
	var w nftWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*n = NFTMetadata{
		owner:           w.Owner,
		TokenID:         w.TokenID,
		Name:            w.Name,
		Description:     w.Description,
		ImageURL:        w.ImageURL,
		Attributes:      w.Attributes,
		AchievementType: w.AchievementType,
		MintedAt:        w.MintedAt,
	}
	return nil
}
