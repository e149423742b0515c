package auth

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer 持有私钥并签发授权证明
type Signer struct {
	key    *ecdsa.PrivateKey
	domain string
}

// NewSigner 创建签名器
func NewSigner(key *ecdsa.PrivateKey, domain string) *Signer {
	return &Signer{key: key, domain: domain}
}

// NewSignerFromHex 从十六进制私钥创建签名器
func NewSignerFromHex(hexKey, domain string) (*Signer, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return NewSigner(key, domain), nil
}

// Address 签名器地址
func (s *Signer) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

// Sign 为 action 签发授权证明
func (s *Signer) Sign(action string, issuedAt uint64) (Proof, error) {
	msg := Intent{
		Domain:   s.domain,
		Action:   action,
		Address:  s.Address(),
		IssuedAt: issuedAt,
	}.Message()
	sig, err := crypto.Sign(accounts.TextHash([]byte(msg)), s.key)
	if err != nil {
		return Proof{}, fmt.Errorf("sign intent: %w", err)
	}
	return Proof{Address: s.Address(), Message: msg, Signature: sig}, nil
}

// Authorize 签发证明并放入 context
func (s *Signer) Authorize(ctx context.Context, action string, issuedAt uint64) (context.Context, error) {
	proof, err := s.Sign(action, issuedAt)
	if err != nil {
		return ctx, err
	}
	return WithProofs(ctx, proof), nil
}
