package logic

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/blues/launchpad/internal/auth"
	"github.com/blues/launchpad/internal/ledger"
	"github.com/blues/launchpad/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"
)

type AchievementLogicSuite struct {
	suite.Suite
	h     *harness
	nfts  *AchievementLogic
	admin *auth.Signer
	user  *auth.Signer
}

func TestAchievementLogicSuite(t *testing.T) {
	suite.Run(t, new(AchievementLogicSuite))
}

func (s *AchievementLogicSuite) SetupTest() {
	s.h = newHarness()
	s.nfts = NewAchievementLogic(s.h.host)
	s.admin = newSigner(s.T())
	s.user = newSigner(s.T())
}

func (s *AchievementLogicSuite) initialize() {
	s.Require().NoError(s.nfts.Initialize(s.h.as(s.T(), s.admin), s.admin.Address()))
}

func (s *AchievementLogicSuite) mint(t model.AchievementType) uint64 {
	id, err := s.nfts.MintAchievementNFT(s.h.as(s.T(), s.admin), s.user.Address(), model.NFTInput{
		Name:            string(t),
		Description:     "badge",
		ImageURL:        "ipfs://badge",
		Attributes:      `{"tier":1}`,
		AchievementType: t,
	})
	s.Require().NoError(err)
	return id
}

func (s *AchievementLogicSuite) TestBeforeInitialize() {
	_, err := s.nfts.MintAchievementNFT(s.h.as(s.T(), s.admin), s.user.Address(), model.NFTInput{AchievementType: model.AchievementWelcome})
	s.ErrorIs(err, ledger.ErrNotInitialized)

	supply, err := s.nfts.GetTotalSupply(context.Background())
	s.Require().NoError(err)
	s.Zero(supply)

	nfts, err := s.nfts.GetUserNFTs(context.Background(), s.user.Address())
	s.Require().NoError(err)
	s.Empty(nfts)
}

func (s *AchievementLogicSuite) TestMintRequiresAdmin() {
	s.initialize()
	_, err := s.nfts.MintAchievementNFT(s.h.as(s.T(), s.user), s.user.Address(), model.NFTInput{AchievementType: model.AchievementWelcome})
	s.ErrorIs(err, auth.ErrUnauthorized)

	_, err = s.nfts.MintAchievementNFT(s.h.as(s.T(), s.admin), s.user.Address(), model.NFTInput{AchievementType: "Platinum"})
	s.ErrorIs(err, model.ErrInvalidAchievement)

	supply, err := s.nfts.GetTotalSupply(context.Background())
	s.Require().NoError(err)
	s.Zero(supply)
}

func (s *AchievementLogicSuite) TestMintAndQuery() {
	s.initialize()
	s.Equal(uint64(1), s.mint(model.AchievementWelcome))
	s.h.clock.Advance(5)
	s.Equal(uint64(2), s.mint(model.AchievementInvestorGold))

	nft, found, err := s.nfts.GetNFT(context.Background(), 2)
	s.Require().NoError(err)
	s.True(found)
	s.Equal(s.user.Address(), nft.Owner())
	s.Equal(model.AchievementInvestorGold, nft.AchievementType)
	s.Equal(s.h.clock.Now(), nft.MintedAt)
	s.True(nft.IsSoulbound())

	_, found, err = s.nfts.GetNFT(context.Background(), 3)
	s.Require().NoError(err)
	s.False(found)

	nfts, err := s.nfts.GetUserNFTs(context.Background(), s.user.Address())
	s.Require().NoError(err)
	s.Require().Len(nfts, 2)
	s.Equal(uint64(1), nfts[0].TokenID)
	s.Equal(uint64(2), nfts[1].TokenID)

	supply, err := s.nfts.GetTotalSupply(context.Background())
	s.Require().NoError(err)
	s.Equal(uint64(2), supply)
}

func (s *AchievementLogicSuite) TestHasAchievementIsExactMatch() {
	s.initialize()
	ctx := context.Background()

	has, err := s.nfts.HasAchievement(ctx, s.user.Address(), model.AchievementWelcome)
	s.Require().NoError(err)
	s.False(has)

	s.mint(model.AchievementInvestorGold)

	has, err = s.nfts.HasAchievement(ctx, s.user.Address(), model.AchievementInvestorGold)
	s.Require().NoError(err)
	s.True(has)

	has, err = s.nfts.HasAchievement(ctx, s.user.Address(), model.AchievementInvestorSilver)
	s.Require().NoError(err)
	s.False(has)

	has, err = s.nfts.HasAchievement(ctx, s.admin.Address(), model.AchievementInvestorGold)
	s.Require().NoError(err)
	s.False(has)
}

func (s *AchievementLogicSuite) TestTransferAlwaysFails() {
	s.initialize()
	id := s.mint(model.AchievementCreator)

	ok, err := s.nfts.Transfer(s.h.as(s.T(), s.user), s.user.Address(), s.admin.Address(), id)
	s.False(ok)
	s.ErrorIs(err, ErrSoulbound)

	ok, _ = s.nfts.Transfer(context.Background(), s.admin.Address(), s.user.Address(), 999)
	s.False(ok)

	nft, _, err := s.nfts.GetNFT(context.Background(), id)
	s.Require().NoError(err)
	s.Equal(s.user.Address(), nft.Owner())
}

func (s *AchievementLogicSuite) TestAdmin() {
	_, err := s.nfts.Admin(context.Background())
	s.ErrorIs(err, ledger.ErrNotInitialized)

	s.initialize()
	admin, err := s.nfts.Admin(context.Background())
	s.Require().NoError(err)
	s.Equal(s.admin.Address(), admin)
}

func (s *AchievementLogicSuite) TestMetadataJSON() {
	s.initialize()
	id := s.mint(model.AchievementEarlySupporter)
	nft, _, err := s.nfts.GetNFT(context.Background(), id)
	s.Require().NoError(err)

	data, err := json.Marshal(nft)
	s.Require().NoError(err)

	var wire map[string]any
	s.Require().NoError(json.Unmarshal(data, &wire))
	s.Equal(true, wire["is_soulbound"])
	owner, ok := wire["owner"].(string)
	s.Require().True(ok)
	s.Equal(s.user.Address(), common.HexToAddress(owner))
	s.Equal("EarlySupporter", wire["achievement_type"])
}
