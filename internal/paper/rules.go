package paper

import (
	"fmt"

	"github.com/shopspring/decimal"

	"exchange_sdk/internal/config"
	"exchange_sdk/sdk"
)

// market 交易对信息及下单规则
type market struct {
	symbol   string
	base     string
	quote    string
	tickSize decimal.Decimal // 价格步进值，0表示不限制
	stepSize decimal.Decimal // 数量步进值，0表示不限制
	minQty   decimal.Decimal
}

func newMarket(cfg config.MarketConfig) (*market, error) {
	if cfg.Symbol == "" || cfg.Base == "" || cfg.Quote == "" {
		return nil, fmt.Errorf("交易对配置不完整: %+v", cfg)
	}
	m := &market{symbol: cfg.Symbol, base: cfg.Base, quote: cfg.Quote}
	var err error
	if m.tickSize, err = optionalDecimal(cfg.TickSize); err != nil {
		return nil, fmt.Errorf("解析tickSize失败: %w", err)
	}
	if m.stepSize, err = optionalDecimal(cfg.StepSize); err != nil {
		return nil, fmt.Errorf("解析stepSize失败: %w", err)
	}
	if m.minQty, err = optionalDecimal(cfg.MinQty); err != nil {
		return nil, fmt.Errorf("解析minQty失败: %w", err)
	}
	return m, nil
}

func optionalDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// checkQty 校验数量满足最小值和步进值
func (m *market) checkQty(qty decimal.Decimal) sdk.AuthedError {
	if m.minQty.IsPositive() && qty.LessThan(m.minQty) {
		return sdk.InvalidParams{Detail: fmt.Sprintf("qty %s below min_qty %s for %s", qty, m.minQty, m.symbol)}
	}
	if m.stepSize.IsPositive() && !qty.Mod(m.stepSize).IsZero() {
		return sdk.InvalidParams{Detail: fmt.Sprintf("qty %s is not a multiple of step_size %s for %s", qty, m.stepSize, m.symbol)}
	}
	return nil
}

// checkPrice 校验价格满足步进值
func (m *market) checkPrice(price decimal.Decimal) sdk.AuthedError {
	if m.tickSize.IsPositive() && !price.Mod(m.tickSize).IsZero() {
		return sdk.InvalidParams{Detail: fmt.Sprintf("price %s is not a multiple of tick_size %s for %s", price, m.tickSize, m.symbol)}
	}
	return nil
}

// MarketInfo 交易对规则的对外描述
type MarketInfo struct {
	Symbol   string `json:"symbol"`
	Base     string `json:"base"`
	Quote    string `json:"quote"`
	TickSize string `json:"tick_size,omitempty"`
	StepSize string `json:"step_size,omitempty"`
	MinQty   string `json:"min_qty,omitempty"`
}

func (m *market) info() MarketInfo {
	info := MarketInfo{Symbol: m.symbol, Base: m.base, Quote: m.quote}
	if m.tickSize.IsPositive() {
		info.TickSize = m.tickSize.String()
	}
	if m.stepSize.IsPositive() {
		info.StepSize = m.stepSize.String()
	}
	if m.minQty.IsPositive() {
		info.MinQty = m.minQty.String()
	}
	return info
}
