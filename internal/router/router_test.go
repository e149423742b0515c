package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blues/launchpad/internal/auth"
	"github.com/blues/launchpad/internal/clock"
	"github.com/blues/launchpad/internal/event"
	"github.com/blues/launchpad/internal/handler"
	"github.com/blues/launchpad/internal/ledger"
	"github.com/blues/launchpad/internal/logic"
	"github.com/blues/launchpad/internal/storage"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

const testDomain = "launchpad-test"

type RouterSuite struct {
	suite.Suite
	clock    *clock.Manual
	engine   *gin.Engine
	admin    *auth.Signer
	creator  *auth.Signer
	investor *auth.Signer
}

func TestRouterSuite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) signer() *auth.Signer {
	key, err := crypto.GenerateKey()
	s.Require().NoError(err)
	return auth.NewSigner(key, testDomain)
}

func (s *RouterSuite) SetupTest() {
	s.clock = clock.NewManual(1_700_000_000)
	host := ledger.NewHost(storage.NewMemoryStore(), auth.NewSignatureAuthorizer(testDomain, 300, s.clock), s.clock)
	s.admin = s.signer()
	s.creator = s.signer()
	s.investor = s.signer()

	projects := logic.NewProjectLogic(host)
	achievements := logic.NewAchievementLogic(host)
	recorder := event.NewMemoryRecorder()

	ctx, err := s.admin.Authorize(context.Background(), auth.AnyAction, s.clock.Now())
	s.Require().NoError(err)
	s.Require().NoError(projects.Initialize(ctx, s.admin.Address()))
	s.Require().NoError(achievements.Initialize(ctx, s.admin.Address()))

	launch := logic.NewLaunchLogic(host, projects, achievements, recorder, s.admin, logic.DefaultLaunchOptions())
	s.engine = Setup(Deps{
		Launch:       launch,
		Projects:     projects,
		Achievements: achievements,
		Recorder:     recorder,
	})
}

func (s *RouterSuite) do(method, path string, body any, signer *auth.Signer) (int, handler.Response) {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if signer != nil {
		proof, err := signer.Sign(auth.AnyAction, s.clock.Now())
		s.Require().NoError(err)
		req.Header.Set(handler.HeaderAuthAddress, proof.Address.Hex())
		req.Header.Set(handler.HeaderAuthMessage, proof.Message)
		req.Header.Set(handler.HeaderAuthSignature, hexutil.Encode(proof.Signature))
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var resp handler.Response
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w.Code, resp
}

func (s *RouterSuite) createProject() map[string]any {
	code, resp := s.do(http.MethodPost, "/api/v1/projects", map[string]any{
		"creator":       s.creator.Address().Hex(),
		"title":         "Solar",
		"funding_goal":  "1000",
		"interest_rate": 500,
		"loan_term":     3600,
	}, s.creator)
	s.Require().Equal(http.StatusCreated, code, resp.Message)
	return resp.Data.(map[string]any)
}

func (s *RouterSuite) TestHealth() {
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	s.Equal(http.StatusOK, w.Code)
	s.NotEmpty(w.Header().Get(HeaderRequestID))
}

func (s *RouterSuite) TestMetrics() {
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	s.Equal(http.StatusOK, w.Code)
}

func (s *RouterSuite) TestCreateProjectRequiresProof() {
	code, resp := s.do(http.MethodPost, "/api/v1/projects", map[string]any{
		"creator":      s.creator.Address().Hex(),
		"title":        "Solar",
		"funding_goal": "1000",
	}, nil)
	s.Equal(http.StatusUnauthorized, code)
	s.False(resp.Success)
}

func (s *RouterSuite) TestInvestAndWithdrawFlow() {
	project := s.createProject()
	s.Equal(float64(1), project["id"])
	pool := project["pool_address"].(string)

	code, resp := s.do(http.MethodPost, "/api/v1/pools/"+pool+"/invest", map[string]any{
		"investor": s.investor.Address().Hex(),
		"amount":   "1000",
	}, s.investor)
	s.Require().Equal(http.StatusOK, code, resp.Message)
	s.Equal(true, resp.Data.(map[string]any)["accepted"])

	code, resp = s.do(http.MethodPost, "/api/v1/pools/"+pool+"/invest", map[string]any{
		"investor": s.investor.Address().Hex(),
		"amount":   "1",
	}, s.investor)
	s.Equal(http.StatusConflict, code)
	s.Equal("rejected_funded", resp.Data.(map[string]any)["outcome"])

	code, resp = s.do(http.MethodGet, "/api/v1/projects/1", nil, nil)
	s.Require().Equal(http.StatusOK, code)
	s.Equal(float64(1000), resp.Data.(map[string]any)["total_raised"])

	s.clock.Advance(3600)
	code, resp = s.do(http.MethodGet, "/api/v1/pools/"+pool+"/returns/"+s.investor.Address().Hex(), nil, nil)
	s.Require().Equal(http.StatusOK, code)
	s.Equal(float64(1050), resp.Data.(map[string]any)["amount"])

	code, resp = s.do(http.MethodPost, "/api/v1/pools/"+pool+"/withdraw", map[string]any{
		"investor": s.investor.Address().Hex(),
	}, s.investor)
	s.Require().Equal(http.StatusOK, code, resp.Message)
	s.Equal(float64(1050), resp.Data.(map[string]any)["amount"])

	code, resp = s.do(http.MethodGet, "/api/v1/users/"+s.investor.Address().Hex()+"/achievements/InvestorSilver", nil, nil)
	s.Require().Equal(http.StatusOK, code)
	s.Equal(true, resp.Data.(map[string]any)["has_achievement"])

	code, resp = s.do(http.MethodGet, "/api/v1/events?event_type=Withdrawn", nil, nil)
	s.Require().Equal(http.StatusOK, code)
	s.Len(resp.Data.(map[string]any)["events"], 1)
}

func (s *RouterSuite) TestInvestRejectsNonPositiveAmount() {
	pool := s.createProject()["pool_address"].(string)
	code, _ := s.do(http.MethodPost, "/api/v1/pools/"+pool+"/invest", map[string]any{
		"investor": s.investor.Address().Hex(),
		"amount":   "0",
	}, s.investor)
	s.Equal(http.StatusBadRequest, code)
}

func (s *RouterSuite) TestStatusUpdateRequiresAdmin() {
	s.createProject()
	code, _ := s.do(http.MethodPut, "/api/v1/projects/1/status", map[string]any{"status": "Active"}, s.creator)
	s.Equal(http.StatusUnauthorized, code)

	code, _ = s.do(http.MethodPut, "/api/v1/projects/1/status", map[string]any{"status": "Active"}, s.admin)
	s.Equal(http.StatusOK, code)

	code, _ = s.do(http.MethodPut, "/api/v1/projects/1/status", map[string]any{"status": "Paused"}, s.admin)
	s.Equal(http.StatusBadRequest, code)
}

func (s *RouterSuite) TestAchievements() {
	code, resp := s.do(http.MethodPost, "/api/v1/achievements", map[string]any{
		"to":               s.investor.Address().Hex(),
		"name":             "Welcome",
		"achievement_type": "Welcome",
	}, s.admin)
	s.Require().Equal(http.StatusCreated, code, resp.Message)

	code, resp = s.do(http.MethodGet, "/api/v1/achievements/supply", nil, nil)
	s.Require().Equal(http.StatusOK, code)
	s.Equal(float64(1), resp.Data.(map[string]any)["total_supply"])

	code, resp = s.do(http.MethodGet, "/api/v1/achievements/1", nil, nil)
	s.Require().Equal(http.StatusOK, code)
	s.Equal(true, resp.Data.(map[string]any)["is_soulbound"])

	code, _ = s.do(http.MethodPost, "/api/v1/achievements/1/transfer", map[string]any{
		"from": s.investor.Address().Hex(),
		"to":   s.creator.Address().Hex(),
	}, s.investor)
	s.Equal(http.StatusForbidden, code)

	code, _ = s.do(http.MethodGet, "/api/v1/achievements/7", nil, nil)
	s.Equal(http.StatusNotFound, code)
}

func (s *RouterSuite) TestMalformedProofHeaders() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	req.Header.Set(handler.HeaderAuthAddress, "not-an-address")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	s.Equal(http.StatusBadRequest, w.Code)
}
