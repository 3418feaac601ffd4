// Package sdk 定义交易所接入的能力契约：行情（MarketData）、交易（Trading）、
// 钱包（Wallet）和用户数据（UserData），以及它们共享的两级错误模型。
//
// 本包不包含任何网络传输、签名、限流或响应解析，具体交易所的实现方
// 负责实现这些接口。
//
// 金额、价格、数量、手续费一律使用精确的十进制字符串表示。需要做运算时
// 必须通过 ParseDecimal 解析为任意精度小数，禁止转换为 float64。
package sdk

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Side 买卖方向
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Valid 是否为已知方向
func (s Side) Valid() bool {
	return s == Buy || s == Sell
}

// Opposite 对手方向
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// TimeInForce 有效方式，空值表示由实现方决定默认值
type TimeInForce string

const (
	GTC TimeInForce = "GTC"
	IOC TimeInForce = "IOC"
	FOK TimeInForce = "FOK"
)

// Valid 是否为已知有效方式（空值视为有效）
func (t TimeInForce) Valid() bool {
	switch t {
	case "", GTC, IOC, FOK:
		return true
	}
	return false
}

// ParseDecimal 将十进制字符串解析为任意精度小数，失败时返回 InvalidParams
func ParseDecimal(field, value string) (decimal.Decimal, AuthedError) {
	if value == "" {
		return decimal.Zero, InvalidParams{Detail: fmt.Sprintf("%s is required", field)}
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, InvalidParams{Detail: fmt.Sprintf("%s is not a decimal: %q", field, value), Cause: err}
	}
	return d, nil
}

// ParsePositive 解析并要求严格大于0
func ParsePositive(field, value string) (decimal.Decimal, AuthedError) {
	d, err := ParseDecimal(field, value)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, InvalidParams{Detail: fmt.Sprintf("%s must be positive, got %s", field, value)}
	}
	return d, nil
}

// ValidateLimit 校验可选的条数限制：0 表示使用默认值，负数非法
func ValidateLimit(limit int) UnauthedError {
	if limit < 0 {
		return InvalidParams{Detail: fmt.Sprintf("limit must not be negative, got %d", limit)}
	}
	return nil
}

// ValidateSymbol 校验交易对/币种名称非空
func ValidateSymbol(field, symbol string) UnauthedError {
	if symbol == "" {
		return InvalidParams{Detail: fmt.Sprintf("%s is required", field)}
	}
	return nil
}
