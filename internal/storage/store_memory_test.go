package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *MemoryStore
	ctx   context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemoryStore()
	s.ctx = context.Background()
}

func (s *MemoryStoreSuite) TestGetMissing() {
	v, ok, err := s.store.Get(s.ctx, "ns", TierInstance, "ADMIN")
	s.Require().NoError(err)
	s.False(ok)
	s.Nil(v)
}

func (s *MemoryStoreSuite) TestTiersAndNamespacesAreIsolated() {
	s.Require().NoError(s.store.Commit(s.ctx, "a", []Write{
		{Tier: TierInstance, Key: "K", Value: []byte("instance")},
		{Tier: TierPersistent, Key: "K", Value: []byte("persistent")},
	}))

	v, ok, err := s.store.Get(s.ctx, "a", TierInstance, "K")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("instance", string(v))

	v, ok, err = s.store.Get(s.ctx, "a", TierPersistent, "K")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("persistent", string(v))

	_, ok, err = s.store.Get(s.ctx, "b", TierInstance, "K")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *MemoryStoreSuite) TestReturnedValuesAreCopies() {
	s.Require().NoError(s.store.Commit(s.ctx, "a", []Write{{Tier: TierInstance, Key: "K", Value: []byte("abc")}}))

	v, _, err := s.store.Get(s.ctx, "a", TierInstance, "K")
	s.Require().NoError(err)
	v[0] = 'z'

	again, _, err := s.store.Get(s.ctx, "a", TierInstance, "K")
	s.Require().NoError(err)
	s.Equal("abc", string(again))
}

func (s *MemoryStoreSuite) TestCommitOverwrites() {
	s.Require().NoError(s.store.Commit(s.ctx, "a", []Write{{Tier: TierInstance, Key: "K", Value: []byte("1")}}))
	s.Require().NoError(s.store.Commit(s.ctx, "a", []Write{{Tier: TierInstance, Key: "K", Value: []byte("2")}}))

	v, _, err := s.store.Get(s.ctx, "a", TierInstance, "K")
	s.Require().NoError(err)
	s.Equal("2", string(v))
	s.Equal(1, s.store.Len())
}
