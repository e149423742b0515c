package logic

import (
	"context"
	"testing"

	"github.com/blues/launchpad/internal/auth"
	"github.com/blues/launchpad/internal/clock"
	"github.com/blues/launchpad/internal/ledger"
	"github.com/blues/launchpad/internal/storage"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

const testDomain = "launchpad-test"

type harness struct {
	clock *clock.Manual
	store *storage.MemoryStore
	host  *ledger.Host
}

func newHarness() *harness {
	c := clock.NewManual(1_700_000_000)
	store := storage.NewMemoryStore()
	return &harness{
		clock: c,
		store: store,
		host:  ledger.NewHost(store, auth.NewSignatureAuthorizer(testDomain, 0, c), c),
	}
}

func newSigner(t *testing.T) *auth.Signer {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return auth.NewSigner(key, testDomain)
}

// as 返回携带 signer 通配授权证明的 context
func (h *harness) as(t *testing.T, signers ...*auth.Signer) context.Context {
	ctx := context.Background()
	for _, s := range signers {
		var err error
		ctx, err = s.Authorize(ctx, auth.AnyAction, h.clock.Now())
		require.NoError(t, err)
	}
	return ctx
}
