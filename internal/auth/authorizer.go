package auth

import (
	"context"
	"fmt"

	"github.com/blues/launchpad/internal/clock"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// futureSkew 允许签发时间领先账本时钟的秒数
const futureSkew = 60

// SignatureAuthorizer 通过 secp256k1 签名恢复地址来校验授权证明
type SignatureAuthorizer struct {
	domain string
	maxAge uint64 // 0 表示不限制
	clock  clock.Clock
}

// NewSignatureAuthorizer 创建签名授权校验器
func NewSignatureAuthorizer(domain string, maxAge uint64, c clock.Clock) *SignatureAuthorizer {
	return &SignatureAuthorizer{domain: domain, maxAge: maxAge, clock: c}
}

// RequireAuth 要求 context 中存在 identity 对 action 的有效证明
func (a *SignatureAuthorizer) RequireAuth(ctx context.Context, identity common.Address, action string) error {
	var lastErr error
	for _, proof := range ProofsFrom(ctx) {
		if proof.Address != identity {
			continue
		}
		if err := a.verify(proof, identity, action); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnauthorized, identity.Hex(), lastErr)
	}
	return fmt.Errorf("%w: no proof for %s", ErrUnauthorized, identity.Hex())
}

func (a *SignatureAuthorizer) verify(proof Proof, identity common.Address, action string) error {
	intent, err := ParseIntent(proof.Message)
	if err != nil {
		return err
	}
	if intent.Domain != a.domain {
		return fmt.Errorf("intent domain %q does not match %q", intent.Domain, a.domain)
	}
	if intent.Address != identity {
		return fmt.Errorf("intent signed for %s", intent.Address.Hex())
	}
	if intent.Action != AnyAction && intent.Action != action {
		return fmt.Errorf("intent action %q does not cover %q", intent.Action, action)
	}

	now := a.clock.Now()
	if intent.IssuedAt > now+futureSkew {
		return fmt.Errorf("intent issued in the future")
	}
	if a.maxAge > 0 && now > intent.IssuedAt && now-intent.IssuedAt > a.maxAge {
		return fmt.Errorf("intent expired")
	}

	signer, err := RecoverSigner(proof.Message, proof.Signature)
	if err != nil {
		return err
	}
	if signer != identity {
		return fmt.Errorf("signature recovers %s", signer.Hex())
	}
	return nil
}

// RecoverSigner 从 EIP-191 签名恢复签名地址
func RecoverSigner(message string, signature []byte) (common.Address, error) {
	if len(signature) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes", crypto.SignatureLength)
	}
	sig := make([]byte, len(signature))
	copy(sig, signature)
	// 兼容钱包返回的 27/28 恢复位
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("recover signer: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
