package scheduler

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/blues/launchpad/internal/auth"
	"github.com/blues/launchpad/internal/clock"
	"github.com/blues/launchpad/internal/event"
	"github.com/blues/launchpad/internal/ledger"
	"github.com/blues/launchpad/internal/logic"
	"github.com/blues/launchpad/internal/model"
	"github.com/blues/launchpad/internal/storage"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/suite"
)

const testDomain = "launchpad-test"

type PoolSyncJobSuite struct {
	suite.Suite
	clock    *clock.Manual
	host     *ledger.Host
	projects *logic.ProjectLogic
	nfts     *logic.AchievementLogic
	admin    *auth.Signer
	creator  *auth.Signer
}

func TestPoolSyncJobSuite(t *testing.T) {
	suite.Run(t, new(PoolSyncJobSuite))
}

func (s *PoolSyncJobSuite) signer() *auth.Signer {
	key, err := crypto.GenerateKey()
	s.Require().NoError(err)
	return auth.NewSigner(key, testDomain)
}

func (s *PoolSyncJobSuite) ctx(signer *auth.Signer) context.Context {
	ctx, err := signer.Authorize(context.Background(), auth.AnyAction, s.clock.Now())
	s.Require().NoError(err)
	return ctx
}

func (s *PoolSyncJobSuite) SetupTest() {
	s.clock = clock.NewManual(1_700_000_000)
	s.host = ledger.NewHost(storage.NewMemoryStore(), auth.NewSignatureAuthorizer(testDomain, 0, s.clock), s.clock)
	s.projects = logic.NewProjectLogic(s.host)
	s.nfts = logic.NewAchievementLogic(s.host)
	s.admin = s.signer()
	s.creator = s.signer()
	s.Require().NoError(s.projects.Initialize(s.ctx(s.admin), s.admin.Address()))
}

func (s *PoolSyncJobSuite) launch(opts logic.LaunchOptions) *logic.LaunchLogic {
	return logic.NewLaunchLogic(s.host, s.projects, s.nfts, event.NewMemoryRecorder(), s.admin, opts)
}

func (s *PoolSyncJobSuite) TestRunReconcilesAllProjects() {
	quiet := s.launch(logic.LaunchOptions{})
	investor := s.signer()

	var pools []model.Project
	for i := 0; i < 3; i++ {
		p, err := quiet.LaunchProject(s.ctx(s.creator), s.creator.Address(), model.ProjectInput{
			Title:       "p",
			FundingGoal: big.NewInt(100),
			LoanTerm:    60,
		})
		s.Require().NoError(err)
		pools = append(pools, p)
	}
	_, err := quiet.Invest(s.ctx(investor), pools[0].PoolAddress, investor.Address(), big.NewInt(100))
	s.Require().NoError(err)
	_, err = quiet.Invest(s.ctx(investor), pools[1].PoolAddress, investor.Address(), big.NewInt(40))
	s.Require().NoError(err)

	job := NewPoolSyncJob(s.launch(logic.LaunchOptions{RelayFunding: true}), s.projects, time.Minute, 2)
	synced, failed, err := job.Run(context.Background())
	s.Require().NoError(err)
	s.Equal(3, synced)
	s.Zero(failed)

	all, err := s.projects.GetAllProjects(context.Background())
	s.Require().NoError(err)
	s.Equal("100", all[0].TotalRaised.String())
	s.Equal(model.ProjectStatusFunded, all[0].Status)
	s.Equal("40", all[1].TotalRaised.String())
	s.Equal(model.ProjectStatusDraft, all[1].Status)
	s.Equal(0, all[2].TotalRaised.Sign())

	stats, err := s.projects.GetPlatformStats(context.Background())
	s.Require().NoError(err)
	s.Equal("140", stats.TotalFunded.String())

	// 再次执行不会重复计数
	_, _, err = job.Run(context.Background())
	s.Require().NoError(err)
	stats, err = s.projects.GetPlatformStats(context.Background())
	s.Require().NoError(err)
	s.Equal("140", stats.TotalFunded.String())
}

func (s *PoolSyncJobSuite) TestRunWithoutProjects() {
	job := NewPoolSyncJob(s.launch(logic.DefaultLaunchOptions()), s.projects, time.Minute, 0)
	synced, failed, err := job.Run(context.Background())
	s.Require().NoError(err)
	s.Zero(synced)
	s.Zero(failed)
}

func (s *PoolSyncJobSuite) TestManagerLifecycle() {
	job := NewPoolSyncJob(s.launch(logic.DefaultLaunchOptions()), s.projects, time.Hour, 1)
	s.Equal("pool_sync", job.GetName())

	m, err := NewManager(job)
	s.Require().NoError(err)
	s.Require().NoError(m.Start())
	m.Stop()
}
