package model

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrAmountOverflow 金额超出 i128 取值范围
var ErrAmountOverflow = errors.New("amount overflows i128")

var (
	// MaxI128 i128 最大值 2^127-1
	MaxI128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	// MinI128 i128 最小值 -2^127
	MinI128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// BasisPointsDenominator 基点分母
const BasisPointsDenominator = 10000

// Zero 返回新的零值金额
func Zero() *big.Int {
	return new(big.Int)
}

// CheckI128 校验金额是否位于 i128 范围内
func CheckI128(v *big.Int) error {
	if v == nil {
		return nil
	}
	if v.Cmp(MaxI128) > 0 || v.Cmp(MinI128) < 0 {
		return fmt.Errorf("%w: %s", ErrAmountOverflow, v.String())
	}
	return nil
}

// AddI128 带溢出检查的加法
func AddI128(a, b *big.Int) (*big.Int, error) {
	sum := new(big.Int).Add(orZero(a), orZero(b))
	if err := CheckI128(sum); err != nil {
		return nil, err
	}
	return sum, nil
}

// SubI128 带溢出检查的减法
func SubI128(a, b *big.Int) (*big.Int, error) {
	diff := new(big.Int).Sub(orZero(a), orZero(b))
	if err := CheckI128(diff); err != nil {
		return nil, err
	}
	return diff, nil
}

// ParseAmount 解析十进制金额字符串
func ParseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if err := CheckI128(v); err != nil {
		return nil, err
	}
	return v, nil
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return Zero()
	}
	return v
}
