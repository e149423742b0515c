// Package auth 校验调用方对身份的控制权证明
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ErrUnauthorized 缺少或无效的授权证明
var ErrUnauthorized = errors.New("unauthorized")

// AnyAction 对所有操作生效的意图
const AnyAction = "*"

// Proof 身份授权证明：对意图消息的 EIP-191 签名
type Proof struct {
	Address   common.Address
	Message   string
	Signature []byte
}

// Intent 签名的意图消息
type Intent struct {
	Domain   string
	Action   string
	Address  common.Address
	IssuedAt uint64
}

// Message 意图消息文本，格式 domain|action|address|issued_at
func (i Intent) Message() string {
	return fmt.Sprintf("%s|%s|%s|%d", i.Domain, i.Action, i.Address.Hex(), i.IssuedAt)
}

// ParseIntent 解析意图消息
func ParseIntent(msg string) (Intent, error) {
	parts := strings.Split(msg, "|")
	if len(parts) != 4 {
		return Intent{}, fmt.Errorf("malformed intent %q", msg)
	}
	if !common.IsHexAddress(parts[2]) {
		return Intent{}, fmt.Errorf("malformed intent address %q", parts[2])
	}
	issuedAt, err := strconv.ParseUint(parts[3], 10, 64)
	if err != nil {
		return Intent{}, fmt.Errorf("malformed intent timestamp: %w", err)
	}
	return Intent{
		Domain:   parts[0],
		Action:   parts[1],
		Address:  common.HexToAddress(parts[2]),
		IssuedAt: issuedAt,
	}, nil
}

type proofsKey struct{}

// WithProofs 把授权证明放入 context
func WithProofs(ctx context.Context, proofs ...Proof) context.Context {
	if len(proofs) == 0 {
		return ctx
	}
	all := append(append([]Proof{}, ProofsFrom(ctx)...), proofs...)
	return context.WithValue(ctx, proofsKey{}, all)
}

// ProofsFrom 取出 context 中的授权证明
func ProofsFrom(ctx context.Context) []Proof {
	proofs, _ := ctx.Value(proofsKey{}).([]Proof)
	return proofs
}
